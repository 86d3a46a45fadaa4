package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/voucher-management/internal/auth"
	"github.com/frahmantamala/voucher-management/internal/client"
	"github.com/frahmantamala/voucher-management/internal/company"
	"github.com/frahmantamala/voucher-management/internal/request"
	"github.com/frahmantamala/voucher-management/internal/transport/middleware"
	"github.com/frahmantamala/voucher-management/internal/transport/swagger"
	"github.com/frahmantamala/voucher-management/internal/user"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Request *request.Handler
	Voucher *voucher.Handler
	Company *company.Handler
	Client  *client.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), logger)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", handlers.Auth.Login)
				sr.Post("/refresh", handlers.Auth.RefreshToken)
				sr.Post("/logout", handlers.Auth.Logout)
			})
		}

		// the shop list is public so point-of-sale terminals can resolve
		// their shop before anyone signs in
		if handlers.Company != nil {
			r.Get("/shops", handlers.Company.ListAllShops)
		}

		if handlers.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			if handlers.User != nil {
				pr.Get("/users/me", handlers.User.Me)
			}

			if handlers.Request != nil {
				pr.Route("/voucher-requests", func(rr chi.Router) {
					rr.Post("/", handlers.Request.CreateRequest)
					rr.Get("/", handlers.Request.ListRequests)
					rr.Get("/{id}", handlers.Request.GetRequest)
					// The target status decides the required capability, so
					// the service checks it instead of a per-route guard.
					rr.Patch("/{id}/status", handlers.Request.UpdateStatus)
				})
			}

			if handlers.Voucher != nil {
				pr.Route("/vouchers", func(vr chi.Router) {
					vr.Get("/", handlers.Voucher.ListVouchers)
					vr.Get("/{id}", handlers.Voucher.GetVoucher)

					vr.Group(func(mr chi.Router) {
						mr.Use(rbac.RequireRedeemVoucher())
						mr.Post("/{id}/redeem", handlers.Voucher.RedeemVoucher)
					})
				})
			}

			if handlers.Company != nil {
				pr.Route("/companies", func(cr chi.Router) {
					cr.Get("/", handlers.Company.ListCompanies)
					cr.Get("/{id}", handlers.Company.GetCompany)
					cr.Get("/{id}/shops", handlers.Company.ListShops)

					cr.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Post("/", handlers.Company.CreateCompany)
						ar.Patch("/{id}", handlers.Company.UpdateCompany)
						ar.Delete("/{id}", handlers.Company.DeleteCompany)
					})
				})

				pr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Post("/shops", handlers.Company.CreateShop)
				})
			}

			if handlers.Client != nil {
				pr.Route("/clients", func(cr chi.Router) {
					cr.Get("/", handlers.Client.ListClients)
					cr.Get("/{id}", handlers.Client.GetClient)
					cr.Post("/", handlers.Client.CreateClient)
					cr.Patch("/{id}", handlers.Client.UpdateClient)
					cr.Delete("/{id}", handlers.Client.DeleteClient)
				})
			}
		})
	})
}
