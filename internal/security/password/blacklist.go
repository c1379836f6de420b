package password

import "strings"

// Contraseñas triviales que se rechazan aunque pasen los checks de composición.
var common = map[string]struct{}{
	"password":      {},
	"password1":     {},
	"password123":   {},
	"contraseña":    {},
	"qwerty123":     {},
	"123456789":     {},
	"1234567890":    {},
	"letmein123":    {},
	"welcome123":    {},
	"admin123456":   {},
	"changeme123":   {},
	"iloveyou123":   {},
	"musenest123":   {},
	"modelo123456":  {},
	"portfolio123":  {},
}

func isCommon(s string) bool {
	_, ok := common[strings.ToLower(s)]
	return ok
}
