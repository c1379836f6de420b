package validation

import "testing"

func TestValidSlug_Valid(t *testing.T) {
	valids := []string{
		"ab",
		"valentina",
		"bella-rose",
		"m0del-2",
		mkLen("a", 63) + "b", // 64 chars
	}
	for _, v := range valids {
		if !ValidSlug(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
}

func TestValidSlug_Invalid(t *testing.T) {
	invalids := []string{
		"",
		"a", // demasiado corto
		"-lead",
		"trail-",
		"UPPER",
		"has space",
		"under_score",
		mkLen("a", 66), // > 64
	}
	for _, v := range invalids {
		if ValidSlug(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("bella@example.com") {
		t.Fatal("expected valid email")
	}
	for _, v := range []string{"", "no-at", "two@@x.com", "a@b", "spaces in@x.com"} {
		if ValidEmail(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidHexColor(t *testing.T) {
	for _, v := range []string{"#fff", "#C09", "#aabbcc", "#A1B2C3"} {
		if !ValidHexColor(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
	for _, v := range []string{"", "fff", "#ffff", "#gggggg", "#aabbccdd"} {
		if ValidHexColor(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

// mkLen construye un string de exactamente n caracteres 'a'.
func mkLen(prefix string, total int) string {
	if total <= len(prefix) {
		return prefix[:total]
	}
	out := make([]byte, total)
	copy(out, []byte(prefix))
	for i := len(prefix); i < total; i++ {
		out[i] = 'a'
	}
	return string(out)
}
