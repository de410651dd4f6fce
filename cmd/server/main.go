package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shipquote/internal/calc"
	"shipquote/internal/config"
	"shipquote/internal/db"
	"shipquote/internal/logging"
	"shipquote/internal/market"
	"shipquote/internal/migrations"
	"shipquote/internal/seed"
	"shipquote/internal/store"
)

type server struct {
	auth   *authService
	store  *store.Store
	calc   *calc.Calculator
	logger *zap.Logger
}

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	defer logging.Sync()
	log := logging.L()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database, "migrations"); err != nil {
		log.Fatal("run database migrations", zap.Error(err))
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal("run startup seed", zap.Error(err))
	}
	if stats.Inserts > 0 {
		log.Info("startup seed applied", zap.Int("inserts", stats.Inserts))
	}

	book := market.DefaultBook()
	if cfg.RateTablePath != "" {
		book, err = market.LoadBook(cfg.RateTablePath)
		if err != nil {
			log.Fatal("load rate book", zap.Error(err), zap.String("path", cfg.RateTablePath))
		}
		log.Info("loaded rate book override", zap.String("path", cfg.RateTablePath))
	}

	srv := &server{
		auth:   newAuthService(database, cfg.SessionSecret),
		store:  store.New(database),
		calc:   calc.NewCalculator(book),
		logger: log,
	}

	r := chi.NewRouter()
	r.Use(srv.authMiddleware)
	r.Get("/healthz", srv.handleHealth)
	r.Post("/login", srv.handleLogin)
	r.Post("/logout", srv.handleLogout)
	r.Get("/api/markets", srv.handleMarkets)
	r.Post("/api/quotes/preview", srv.handleQuotePreview)
	r.Post("/api/quotes", srv.handleQuoteCreate)
	r.Get("/api/quotes", srv.handleQuotesList)
	r.Get("/api/quotes/{id}", srv.handleQuoteDetail)
	r.Get("/api/competitors", srv.handleCompetitorsList)
	r.Post("/api/competitors", srv.handleCompetitorCreate)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
