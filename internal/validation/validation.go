package validation

import "regexp"

// Slug rules:
// - Lowercase only.
// - Start and end with [a-z0-9].
// - Middle chars may include [a-z0-9-].
// - Length 2..64.
//
// Examples valid: valentina, bella-rose, m0del-2
// Examples invalid: -lead, trail-, UPPER, "a", "has space", 65+ chars.
var slugRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])$`)

// ValidSlug devuelve true si el slug cumple el patrón permitido.
func ValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

// Validación de email pragmática: local@dominio.tld, sin espacios.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail devuelve true si el string parece un email.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// Colores hex para paletas de theme: #rgb o #rrggbb.
var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidHexColor devuelve true para #rgb o #rrggbb.
func ValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}
