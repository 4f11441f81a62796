package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/splitledger/docs" // registers the swagger spec
	"github.com/fkhayef/splitledger/internal/balance"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/expense"
	"github.com/fkhayef/splitledger/internal/friend"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/user"
	mw "github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/response"
)

func newRouter(db *database.DB, logger *slog.Logger, m *metrics.Metrics, auth mw.Authenticator) http.Handler {
	// User feature
	userHandler := user.NewHandler(user.NewService(db, logger))

	// Friend feature
	friendHandler := friend.NewHandler(friend.NewService(db, logger, m))

	// Group feature
	groupHandler := group.NewHandler(group.NewService(db, logger, m))

	// Expense feature
	expenseHandler := expense.NewHandler(expense.NewService(db, logger, m))

	// Balance feature
	balanceHandler := balance.NewHandler(balance.NewService(db, logger))

	// Notification feature
	notificationHandler := notification.NewHandler(notification.NewService(db))

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(logger, m))
	r.Use(middleware.Recoverer)

	r.Get("/health", health(db))
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.OptionalUser(auth))

		r.Mount("/users", userHandler.Routes(func(r chi.Router) {
			r.Get("/friends", friendHandler.ListForUser)
			r.Get("/groups", groupHandler.ListForUser)
			r.Get("/expenses", expenseHandler.ListByCreator)
			r.Get("/shares", expenseHandler.ListByParticipant)
			r.Mount("/balance", balanceHandler.Routes())
		}))
		r.Mount("/friends", friendHandler.Routes())
		r.Mount("/groups", groupHandler.Routes(func(r chi.Router) {
			r.Get("/expenses", expenseHandler.ListByGroup)
		}))
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	return r
}

func health(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
