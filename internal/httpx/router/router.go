// Package router arma el árbol de rutas HTTP de la plataforma: sitio
// público renderizado, API pública por slug, auth y back office.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/httpx"
	analyticsctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/analytics"
	authctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/auth"
	contentctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/content"
	crmctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/crm"
	galleryctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/gallery"
	modelsctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/models"
	publicctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/public"
	mw "github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	jwtx "github.com/dropDatabas3/musenest/internal/jwt"
	"github.com/dropDatabas3/musenest/internal/rate"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Deps agrupa todo lo que el router necesita para montar las rutas.
type Deps struct {
	Store  core.Store
	Issuer *jwtx.Issuer

	Auth      *authctl.Controller
	Models    *modelsctl.Controller
	Gallery   *galleryctl.Controller
	Content   *contentctl.Controller
	CRM       *crmctl.Controller
	Public    *publicctl.Controller
	Analytics *analyticsctl.Controller

	// Limiters nil = sin rate limit en ese scope.
	LoginLimiter   rate.Limiter
	InquiryLimiter rate.Limiter

	CORSAllowedOrigins []string

	Metrics http.Handler
	Readyz  http.HandlerFunc
}

// New arma el router completo con la cadena de middlewares global.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(httpx.WithMetrics)
	r.Use(mw.WithRecover())
	r.Use(mw.WithSecurityHeaders())
	r.Use(mw.WithCORS(d.CORSAllowedOrigins))

	// Health y métricas
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if d.Readyz != nil {
		r.Get("/readyz", d.Readyz)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	// Sitio público renderizado
	r.Route("/m/{slug}", func(r chi.Router) {
		r.Use(mw.ResolveModel(d.Store))
		r.Get("/", d.Public.RenderPage)
		r.Get("/images/{id}", d.Public.ServeImage)
		r.Get("/{page}", d.Public.RenderPage)
	})

	// API pública por slug
	r.Route("/api/v1/public/{slug}", func(r chi.Router) {
		r.Use(mw.ResolveModel(d.Store))
		r.Get("/gallery", d.Public.Gallery)
		r.Get("/testimonials", d.Public.Testimonials)
		r.Get("/rates", d.Public.Rates)
		r.Get("/faq", d.Public.FAQ)
		r.Get("/calendar", d.Public.Calendar)
		r.With(mw.WithRateLimit(d.InquiryLimiter, "inquiry", mw.IPKey)).
			Post("/inquiries", d.Public.SubmitInquiry)
	})

	// Auth
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(mw.WithRateLimit(d.LoginLimiter, "login", mw.IPEmailKey)).
			Post("/login", d.Auth.Login)
		r.Post("/refresh", d.Auth.Refresh)
		r.Post("/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth(d.Issuer))
			r.Get("/me", d.Auth.Me)
			r.Post("/password", d.Auth.ChangePassword)
		})
	})

	// Back office
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Issuer))

		// Galería
		r.Route("/gallery", func(r chi.Router) {
			r.Post("/sections", d.Gallery.CreateSection)
			r.Get("/sections", d.Gallery.ListSections)
			r.Put("/sections/order", d.Gallery.ReorderSections)
			r.Patch("/sections/{id}", d.Gallery.UpdateSection)
			r.Delete("/sections/{id}", d.Gallery.DeleteSection)
			r.Put("/sections/{id}/images/order", d.Gallery.ReorderImages)

			r.Post("/images", d.Gallery.Upload)
			r.Get("/images", d.Gallery.ListImages)
			r.Get("/images/{id}", d.Gallery.GetImage)
			r.Patch("/images/{id}", d.Gallery.UpdateImage)
			r.Put("/images/{id}/status", d.Gallery.SetImageStatus)
			r.Delete("/images/{id}", d.Gallery.DeleteImage)

			r.Post("/batch", d.Gallery.SubmitBatch)
			r.Get("/batch/{id}", d.Gallery.GetBatch)
		})

		// Cola de moderación
		r.Route("/moderation/reviews", func(r chi.Router) {
			r.Get("/", d.Gallery.ListPendingReviews)
			r.Put("/{id}", d.Gallery.ResolveReview)
		})

		// Contenido
		r.Route("/testimonials", func(r chi.Router) {
			r.Post("/", d.Content.CreateTestimonial)
			r.Get("/", d.Content.ListTestimonials)
			r.Patch("/{id}", d.Content.UpdateTestimonial)
			r.Delete("/{id}", d.Content.DeleteTestimonial)
		})
		r.Route("/rates", func(r chi.Router) {
			r.Post("/", d.Content.CreateRateCard)
			r.Get("/", d.Content.ListRateCards)
			r.Patch("/{id}", d.Content.UpdateRateCard)
			r.Delete("/{id}", d.Content.DeleteRateCard)
		})
		r.Route("/calendar", func(r chi.Router) {
			r.Post("/", d.Content.CreateEvent)
			r.Get("/", d.Content.ListEvents)
			r.Patch("/{id}", d.Content.UpdateEvent)
			r.Delete("/{id}", d.Content.DeleteEvent)
		})
		r.Route("/faq", func(r chi.Router) {
			r.Post("/", d.Content.CreateFAQ)
			r.Get("/", d.Content.ListFAQ)
			r.Patch("/{id}", d.Content.UpdateFAQ)
			r.Delete("/{id}", d.Content.DeleteFAQ)
		})

		// CRM
		r.Route("/crm", func(r chi.Router) {
			r.Post("/contacts", d.CRM.CreateContact)
			r.Get("/contacts", d.CRM.ListContacts)
			r.Get("/contacts/{id}", d.CRM.GetContact)
			r.Patch("/contacts/{id}", d.CRM.UpdateContact)
			r.Delete("/contacts/{id}", d.CRM.DeleteContact)

			r.Get("/inquiries", d.CRM.ListInquiries)
			r.Get("/inquiries/{id}", d.CRM.GetInquiry)
			r.Put("/inquiries/{id}/status", d.CRM.SetInquiryStatus)
			r.Post("/inquiries/{id}/suggest-reply", d.CRM.SuggestReply)
		})

		// AI
		r.Route("/ai", func(r chi.Router) {
			r.Post("/classify/{imageID}", d.Gallery.Classify)
			r.Post("/quality/{imageID}", d.Gallery.Quality)
			r.Post("/moderate/{imageID}", d.Gallery.Moderate)
			r.Post("/assistant", d.CRM.Assist)
			r.Get("/bottlenecks", d.Analytics.Bottlenecks)
		})

		// Analytics
		r.Get("/analytics/summary", d.Analytics.Summary)

		// Settings, themes y usuarios: requieren admin
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(core.RoleAdmin))

			r.Get("/settings", d.Models.ListSettings)
			r.Put("/settings", d.Models.BulkUpsertSettings)
			r.Put("/settings/{key}", d.Models.UpsertSetting)
			r.Delete("/settings/{key}", d.Models.DeleteSetting)

			r.Get("/themes", d.Models.ListThemes)
			r.Get("/themes/{slug}/preview", d.Models.PreviewTheme)

			r.Post("/users", d.Models.CreateUser)
			r.Get("/users", d.Models.ListUsers)
		})

		// Administración de models: solo owner
		r.Route("/models", func(r chi.Router) {
			r.Use(mw.RequireRole(core.RoleOwner))
			r.Post("/", d.Models.Create)
			r.Get("/", d.Models.List)
			r.Get("/{id}", d.Models.Get)
			r.Patch("/{id}", d.Models.Update)
			r.Put("/{id}/status", d.Models.SetStatus)
		})
	})

	return r
}
