package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/security/password"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/pg"
)

// Theme sets iniciales del catálogo. El seed es idempotente: los slugs
// que ya existen se saltan.
var seedThemes = []core.ThemeSet{
	{
		Slug: "noir",
		Name: "Noir",
		Palette: map[string]string{
			"background": "#0d0d0f",
			"surface":    "#1a1a1f",
			"text":       "#f2f2f2",
			"accent":     "#c9a227",
		},
		Templates: map[string]string{
			"home": `<!doctype html><html><head><title>{{model_name}}</title>
<style>body{background:{{palette.background}};color:{{palette.text}};font-family:serif}</style></head>
<body><h1>{{model_name}}</h1>
{{#if settings.tagline}}<p class="tagline">{{settings.tagline}}</p>{{/if}}
{{#each sections}}<section><h2>{{this.title}}</h2></section>{{/each}}
</body></html>`,
			"gallery": `<!doctype html><html><head><title>{{model_name}}</title>
<style>body{background:{{palette.background}};color:{{palette.text}}}figure{display:inline-block;margin:8px}</style></head>
<body><h1>{{model_name}}</h1>
{{#each sections}}<section><h2>{{this.title}}</h2>
{{#each this.images}}<figure><img src="/m/{{model_slug}}/images/{{this.id}}" alt="{{this.alt_text}}"/></figure>{{/each}}
</section>{{/each}}
</body></html>`,
		},
	},
	{
		Slug: "pastel",
		Name: "Pastel",
		Palette: map[string]string{
			"background": "#fdf6f0",
			"surface":    "#ffffff",
			"text":       "#4a3f44",
			"accent":     "#e8a0bf",
		},
		Templates: map[string]string{
			"home": `<!doctype html><html><head><title>{{model_name}}</title>
<style>body{background:{{palette.background}};color:{{palette.text}};font-family:sans-serif}</style></head>
<body><h1>{{model_name}}</h1>
{{#if settings.tagline}}<p>{{settings.tagline}}</p>{{/if}}
{{#each sections}}<section><h2>{{this.title}}</h2></section>{{/each}}
</body></html>`,
		},
	},
}

func seedCmd(configPath *string) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga los theme sets iniciales y, opcionalmente, un model de demo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.L().With(logger.Component("seed"))

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, t := range seedThemes {
				t.ID = uuid.NewString()
				if err := store.ThemeSets().Create(ctx, &t); err != nil {
					if errors.Is(err, core.ErrConflict) {
						log.Info("theme already present", logger.String("slug", t.Slug))
						continue
					}
					return err
				}
				log.Info("theme created", logger.String("slug", t.Slug))
			}

			if demo {
				if err := seedDemoModel(ctx, store, log); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "crea un model de demo (demo@musenest.local / Musenest-demo1)")
	return cmd
}

func seedDemoModel(ctx context.Context, store core.Store, log *zap.Logger) error {
	theme, err := store.ThemeSets().GetBySlug(ctx, "noir")
	if err != nil {
		return err
	}

	m := &core.Model{
		ID:          uuid.NewString(),
		Slug:        "demo",
		DisplayName: "Demo Model",
		Email:       "demo@musenest.local",
		ThemeSetID:  &theme.ID,
		Status:      core.ModelStatusActive,
	}
	if err := store.Models().Create(ctx, m); err != nil {
		if errors.Is(err, core.ErrConflict) {
			log.Info("demo model already present")
			return nil
		}
		return err
	}

	hash, err := password.Hash(password.Default, "Musenest-demo1")
	if err != nil {
		return err
	}
	owner := &core.ModelUser{
		ID:           uuid.NewString(),
		ModelID:      m.ID,
		Email:        m.Email,
		PasswordHash: hash,
		Role:         core.RoleOwner,
	}
	if err := store.ModelUsers().Create(ctx, owner); err != nil {
		return err
	}
	log.Info("demo model created", logger.ModelSlug(m.Slug))
	return nil
}
