package public

// Templates de fallback para models sin theme asignado o themes sin
// template para la página. Mínimos pero completos: el theme real vive en
// theme_sets.
var defaultTemplates = map[string]string{
	"home": `<!doctype html><html><head><title>{{model_name}}</title></head>
<body><h1>{{model_name}}</h1>
{{#if settings.tagline}}<p>{{settings.tagline}}</p>{{/if}}
{{#each sections}}<section><h2>{{this.title}}</h2></section>{{/each}}
</body></html>`,

	"gallery": `<!doctype html><html><head><title>{{model_name}} - Gallery</title></head>
<body><h1>{{model_name}}</h1>
{{#each sections}}<section><h2>{{this.title}}</h2>
{{#each this.images}}<figure><img src="/m/{{model_slug}}/images/{{this.id}}" alt="{{this.alt_text}}"/><figcaption>{{this.caption}}</figcaption></figure>{{/each}}
</section>{{/each}}
</body></html>`,

	"rates": `<!doctype html><html><head><title>{{model_name}} - Rates</title></head>
<body><h1>Rates</h1>
{{#each rates}}<div class="rate"><h2>{{this.title}}</h2><p>{{this.description}}</p></div>{{/each}}
</body></html>`,

	"calendar": `<!doctype html><html><head><title>{{model_name}} - Calendar</title></head>
<body><h1>Availability</h1>
{{#each events}}<div class="event {{this.kind}}">{{this.title}}</div>{{/each}}
</body></html>`,

	"testimonials": `<!doctype html><html><head><title>{{model_name}} - Testimonials</title></head>
<body><h1>Testimonials</h1>
{{#each testimonials}}<blockquote>{{this.quote}}<cite>{{this.author_name}}</cite></blockquote>{{/each}}
</body></html>`,

	"faq": `<!doctype html><html><head><title>{{model_name}} - FAQ</title></head>
<body><h1>FAQ</h1>
{{#each faqs}}<details><summary>{{this.question}}</summary><p>{{this.answer}}</p></details>{{/each}}
</body></html>`,

	"contact": `<!doctype html><html><head><title>{{model_name}} - Contact</title></head>
<body><h1>Contact {{model_name}}</h1>
<form method="post" action="/api/v1/public/{{model_slug}}/inquiries">
<input name="name" placeholder="Name"/><input name="email" placeholder="Email"/>
<textarea name="message"></textarea><button type="submit">Send</button>
</form></body></html>`,
}
