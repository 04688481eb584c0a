package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/SankThomas/helpdesk/internal/config"
	"github.com/SankThomas/helpdesk/internal/handlers"
	"github.com/SankThomas/helpdesk/internal/middleware"
	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository/postgres"
	"github.com/SankThomas/helpdesk/internal/service"
	"github.com/SankThomas/helpdesk/internal/storage"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	// Repos
	userRepo := postgres.NewUserRepo(db)
	ticketRepo := postgres.NewTicketRepo(db)
	commentRepo := postgres.NewCommentRepo(db)
	attachmentRepo := postgres.NewAttachmentRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)

	// Blob storage: S3-compatible bucket when configured, local dir otherwise.
	var store storage.Provider
	var local *storage.LocalStore
	if cfg.S3AccountID != "" && cfg.S3AccessKeyID != "" && cfg.S3Bucket != "" {
		s3, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("s3 storage init failed")
		}
		store = s3
		log.Info().Str("bucket", cfg.S3Bucket).Msg("blob storage: s3")
	} else {
		l, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("local storage init failed")
		}
		store, local = l, l
		log.Info().Str("dir", cfg.UploadDir).Msg("blob storage: local filesystem")
	}

	// Services
	mailer := service.NewMailer(cfg, log)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, mailer, log)
	ticketSvc := service.NewTicketService(ticketRepo, userRepo, notifSvc)
	commentSvc := service.NewCommentService(commentRepo, ticketRepo, notifSvc)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, ticketRepo, store, log)
	reportSvc := service.NewReportService(ticketRepo)
	authSvc := service.NewAuthService(userRepo, cfg.SessionSecret, cfg.IdentitySecret)

	// Handlers
	ah := handlers.NewAuthHTTP(authSvc)
	th := handlers.NewTicketHTTP(ticketSvc)
	ch := handlers.NewCommentHTTP(commentSvc)
	ath := handlers.NewAttachmentHTTP(attachmentSvc)
	nh := handlers.NewNotificationHTTP(notifSvc)
	uh := handlers.NewUserHTTP(userRepo)
	rh := handlers.NewReportHTTP(reportSvc)

	r.Use(middleware.WithAuth(log, cfg.SessionSecret, userRepo))

	r.Get("/healthz", handlers.Health())

	// Local blob endpoints only exist in local-storage mode.
	if local != nil {
		fh := handlers.NewFileHTTP(local)
		r.Put("/files/*", fh.Upload())
		r.Get("/files/*", fh.Download())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.Register())
			r.Post("/login", ah.Login())
			r.Post("/exchange", ah.Exchange())
			r.Post("/logout", ah.Logout())
			r.Get("/me", ah.Me())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", th.List())
				r.Post("/", th.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", th.Get())
					r.Patch("/", th.Update())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/", th.Delete())

					r.Get("/comments", ch.ListForTicket())
					r.Post("/comments", ch.Add())

					r.Get("/attachments", ath.ListForTicket())
					r.Post("/attachments", ath.Attach())
					r.Post("/attachments/upload-url", ath.UploadURL())
				})
			})

			r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/comments/{id}", ch.Delete())
			r.Delete("/attachments/{id}", ath.Delete())

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", nh.List())
				r.Get("/unread-count", nh.UnreadCount())
				r.Patch("/{id}/read", nh.MarkRead())
				r.Post("/read-all", nh.MarkAllRead())
				r.Delete("/{id}", nh.Delete())
			})

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/", uh.List())
				r.With(middleware.RequireRoles(models.RoleAgent, models.RoleAdmin)).Get("/agents", uh.Agents())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/{id}/role", uh.UpdateRole())
			})

			r.Route("/reports", func(r chi.Router) {
				r.With(middleware.RequireRoles(models.RoleAgent, models.RoleAdmin)).Get("/summary", rh.Summary())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/export", rh.Export())
			})
		})
	})

	return r
}
