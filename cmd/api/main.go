package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/splitify/splitify/docs"
	"github.com/splitify/splitify/internal/activity"
	"github.com/splitify/splitify/internal/auth"
	"github.com/splitify/splitify/internal/config"
	"github.com/splitify/splitify/internal/database"
	"github.com/splitify/splitify/internal/expense"
	"github.com/splitify/splitify/internal/expense/split"
	"github.com/splitify/splitify/internal/group"
	"github.com/splitify/splitify/internal/ledger"
	"github.com/splitify/splitify/internal/logging"
	"github.com/splitify/splitify/internal/user"
	mw "github.com/splitify/splitify/pkg/middleware"
)

// @title           Splitify API
// @version         1.0
// @description     Group expense splitting with exact integer arithmetic.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("connected to database")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authMiddleware := mw.Auth(jwtManager)

	splitFactory := split.NewFactory()

	// Activity feature
	activityRepo := activity.NewRepository(db)
	activityService := activity.NewService(activityRepo)
	activityHandler := activity.NewHandler(activityService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, jwtManager)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, activityService)
	groupHandler := group.NewHandler(groupService)

	// Expense feature (split engine injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo, splitFactory, activityService)
	expenseHandler := expense.NewHandler(expenseService)

	// Balance ledger (derived from expense history, nothing persisted)
	ledgerService := ledger.NewService(groupRepo, expenseRepo)
	ledgerHandler := ledger.NewHandler(ledgerService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/balances", ledgerHandler.Routes())
			r.Mount("/activity", activityHandler.Routes())
		})
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
