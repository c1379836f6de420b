package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_VarSubstitution(t *testing.T) {
	out := Render("Hola {{name}}, bienvenida a {{site.title}}", map[string]any{
		"name": "Valentina",
		"site": map[string]any{"title": "MuseNest"},
	})
	assert.Equal(t, "Hola Valentina, bienvenida a MuseNest", out)
}

func TestRender_MissingVarIsEmpty(t *testing.T) {
	out := Render("Hola {{nombre}}!", map[string]any{})
	assert.Equal(t, "Hola !", out)
}

func TestRender_EscapesHTML(t *testing.T) {
	out := Render("{{bio}}", map[string]any{"bio": `<script>alert("x")</script>`})
	assert.NotContains(t, out, "<script>")

	raw := Render("{{bio_html}}", map[string]any{"bio_html": "<b>negrita</b>"})
	assert.Equal(t, "<b>negrita</b>", raw)
}

func TestRender_IfElse(t *testing.T) {
	tmpl := "{{#if premium}}VIP{{else}}standard{{/if}}"
	assert.Equal(t, "VIP", Render(tmpl, map[string]any{"premium": true}))
	assert.Equal(t, "standard", Render(tmpl, map[string]any{"premium": false}))
	assert.Equal(t, "standard", Render(tmpl, map[string]any{}))
}

func TestRender_IfTruthiness(t *testing.T) {
	tmpl := "{{#if v}}si{{/if}}"
	for _, falsy := range []any{nil, false, "", 0, 0.0, []any{}, map[string]any{}} {
		assert.Equal(t, "", Render(tmpl, map[string]any{"v": falsy}), "falsy: %v", falsy)
	}
	for _, tr := range []any{true, "x", 1, []any{1}} {
		assert.Equal(t, "si", Render(tmpl, map[string]any{"v": tr}), "truthy: %v", tr)
	}
}

func TestRender_Each(t *testing.T) {
	tmpl := "{{#each tags}}[{{@index}}:{{this}}]{{/each}}"
	out := Render(tmpl, map[string]any{"tags": []string{"a", "b"}})
	assert.Equal(t, "[0:a][1:b]", out)
}

func TestRender_EachMaps(t *testing.T) {
	tmpl := "{{#each images}}<img src=\"{{url}}\" alt=\"{{alt}}\">{{/each}}"
	out := Render(tmpl, map[string]any{
		"images": []map[string]any{
			{"url": "/a.jpg", "alt": "una"},
			{"url": "/b.jpg", "alt": "dos"},
		},
	})
	assert.Equal(t, `<img src="/a.jpg" alt="una"><img src="/b.jpg" alt="dos">`, out)
}

func TestRender_EachThisPaths(t *testing.T) {
	tmpl := `{{#each sections}}<h2>{{this.title}}</h2>{{#each this.images}}<img src="{{this.id}}" alt="{{this.alt_text}}">{{/each}}{{/each}}`
	out := Render(tmpl, map[string]any{
		"sections": []map[string]any{
			{
				"title": "Retratos",
				"images": []map[string]any{
					{"id": "i1", "alt_text": "una"},
					{"id": "i2", "alt_text": "dos"},
				},
			},
		},
	})
	assert.Equal(t, `<h2>Retratos</h2><img src="i1" alt="una"><img src="i2" alt="dos">`, out)
}

func TestRender_ThisPathAnchorsInnerScope(t *testing.T) {
	// this.x no sube por el stack: si el item no tiene el campo, queda vacío
	tmpl := "{{#each items}}[{{this.name}}|{{name}}]{{/each}}"
	out := Render(tmpl, map[string]any{
		"name":  "outer",
		"items": []map[string]any{{"x": 1}},
	})
	assert.Equal(t, "[|outer]", out)
}

func TestRender_NestedBlocks(t *testing.T) {
	tmpl := "{{#each secs}}{{title}}:{{#if open}}abierta{{else}}cerrada{{/if}};{{/each}}"
	out := Render(tmpl, map[string]any{
		"secs": []map[string]any{
			{"title": "uno", "open": true},
			{"title": "dos", "open": false},
		},
	})
	assert.Equal(t, "uno:abierta;dos:cerrada;", out)
}

func TestRender_NestedIf(t *testing.T) {
	tmpl := "{{#if a}}A{{#if b}}B{{/if}}{{else}}no{{/if}}"
	assert.Equal(t, "AB", Render(tmpl, map[string]any{"a": true, "b": true}))
	assert.Equal(t, "A", Render(tmpl, map[string]any{"a": true, "b": false}))
	assert.Equal(t, "no", Render(tmpl, map[string]any{"a": false, "b": true}))
}

func TestRender_UnclosedBlockLiteral(t *testing.T) {
	out := Render("{{#if x}}sin cierre", map[string]any{"x": true})
	assert.Contains(t, out, "sin cierre")
}

func TestRender_OuterScopeVisibleInEach(t *testing.T) {
	tmpl := "{{#each items}}{{prefix}}{{this}} {{/each}}"
	out := Render(tmpl, map[string]any{"prefix": ">", "items": []string{"a", "b"}})
	assert.Equal(t, "&gt;a &gt;b ", out)
}
