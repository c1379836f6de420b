// Package template implementa el renderer de páginas públicas: sustitución
// de placeholders por string-replacement, sin compilación previa.
//
// Sintaxis soportada:
//
//	{{var}} y {{a.b.c}}: sustitución; variable ausente produce string vacío.
//	{{#if cond}}...{{/if}}: con {{else}} opcional; truthiness tipo JS.
//	{{#each list}}...{{/each}}: itera; dentro valen {{this}}, {{this.campo}},
//	{{@index}} y campos del item.
//
// Los bloques pueden anidarse. HTML se escapa en la sustitución de variables
// salvo que la key termine en "_html".
package template

import (
	"fmt"
	"html"
	"strings"
)

// Render procesa el template contra los datos dados.
func Render(tmpl string, data map[string]any) string {
	return renderScope(tmpl, []any{data})
}

// renderScope procesa un fragmento con un stack de scopes (el último gana).
func renderScope(s string, scope []any) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		rest := s[start:]

		switch {
		case strings.HasPrefix(rest, "{{#if "):
			expr, body, tail, ok := cutBlock(rest, "if")
			if !ok {
				// bloque sin cerrar: emitir literal
				b.WriteString("{{")
				s = s[start+2:]
				continue
			}
			thenPart, elsePart := splitElse(body)
			if truthy(resolve(expr, scope)) {
				b.WriteString(renderScope(thenPart, scope))
			} else {
				b.WriteString(renderScope(elsePart, scope))
			}
			s = tail

		case strings.HasPrefix(rest, "{{#each "):
			expr, body, tail, ok := cutBlock(rest, "each")
			if !ok {
				b.WriteString("{{")
				s = s[start+2:]
				continue
			}
			items := toSlice(resolve(expr, scope))
			for i, item := range items {
				iterScope := append(scope, map[string]any{"@index": i}, item)
				b.WriteString(renderScope(body, iterScope))
			}
			s = tail

		default:
			end := strings.Index(rest, "}}")
			if end < 0 {
				b.WriteString(s)
				return b.String()
			}
			key := strings.TrimSpace(rest[2:end])
			b.WriteString(stringify(key, resolve(key, scope)))
			s = rest[end+2:]
		}
	}
}

// cutBlock extrae un bloque {{#tag expr}}body{{/tag}} con soporte de anidamiento.
// s debe comenzar en "{{#tag ". Devuelve expr, body, resto y ok.
func cutBlock(s, tag string) (expr, body, tail string, ok bool) {
	open := "{{#" + tag + " "
	closeTag := "{{/" + tag + "}}"

	headEnd := strings.Index(s, "}}")
	if headEnd < 0 {
		return "", "", "", false
	}
	expr = strings.TrimSpace(s[len(open):headEnd])
	rest := s[headEnd+2:]

	depth := 1
	idx := 0
	for depth > 0 {
		nextOpen := strings.Index(rest[idx:], "{{#"+tag)
		nextClose := strings.Index(rest[idx:], closeTag)
		if nextClose < 0 {
			return "", "", "", false
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			idx += nextOpen + len("{{#"+tag)
			continue
		}
		depth--
		if depth == 0 {
			body = rest[:idx+nextClose]
			tail = rest[idx+nextClose+len(closeTag):]
			return expr, body, tail, true
		}
		idx += nextClose + len(closeTag)
	}
	return "", "", "", false
}

// splitElse separa el body en then/else por el primer {{else}} de nivel cero.
func splitElse(body string) (thenPart, elsePart string) {
	depth := 0
	for i := 0; i+6 <= len(body); i++ {
		if strings.HasPrefix(body[i:], "{{#if ") {
			depth++
		}
		if strings.HasPrefix(body[i:], "{{/if}}") {
			depth--
		}
		if depth == 0 && strings.HasPrefix(body[i:], "{{else}}") {
			return body[:i], body[i+len("{{else}}"):]
		}
	}
	return body, ""
}

// resolve busca una key (con dotted path) en el stack de scopes, del más
// interno al más externo.
func resolve(key string, scope []any) any {
	key = strings.TrimSpace(key)
	if key == "this" {
		if len(scope) > 0 {
			return scope[len(scope)-1]
		}
		return nil
	}
	// this.x ancla el path al scope más interno, sin subir por el stack
	if rest, ok := strings.CutPrefix(key, "this."); ok {
		if len(scope) == 0 {
			return nil
		}
		v, _ := lookup(scope[len(scope)-1], strings.Split(rest, "."))
		return v
	}

	parts := strings.Split(key, ".")
	for i := len(scope) - 1; i >= 0; i-- {
		if v, ok := lookup(scope[i], parts); ok {
			return v
		}
	}
	return nil
}

func lookup(root any, parts []string) (any, bool) {
	cur := root
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// truthy replica la semántica de truthiness de JS para los tipos que maneja
// el renderer: nil, false, 0, "" y colecciones vacías son falsos.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func toSlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// stringify convierte el valor a string; variable ausente → "".
// Keys con sufijo _html no se escapan.
func stringify(key string, v any) string {
	if v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprintf("%v", t)
	}
	if strings.HasSuffix(key, "_html") {
		return s
	}
	return html.EscapeString(s)
}
