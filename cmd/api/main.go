package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/hamadkw/splitmate/docs"
	"github.com/hamadkw/splitmate/internal/config"
	"github.com/hamadkw/splitmate/internal/database"
	"github.com/hamadkw/splitmate/internal/expense"
	expensesplit "github.com/hamadkw/splitmate/internal/expense/split"
	"github.com/hamadkw/splitmate/internal/group"
	"github.com/hamadkw/splitmate/internal/settlement"
	"github.com/hamadkw/splitmate/internal/user"
	mw "github.com/hamadkw/splitmate/pkg/middleware"
)

// @title           Splitmate API
// @version         1.0
// @description     Shared expense tracking with minimal-transfer settlement plans
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	// Amounts serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	log.Info("Connected to database successfully")

	if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Split Strategy Factory (Factory Pattern)
	splitFactory := expensesplit.NewFactory()

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	// User feature (overall balances go through the settlement engine)
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, settlementService)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo)
	groupHandler := group.NewHandler(groupService)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, splitFactory)
	expenseHandler := expense.NewHandler(expenseService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth([]byte(cfg.JWTSecret)))

		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/friends", userHandler.FriendRoutes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Info("Server starting")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.WithError(err).Fatal("Server failed to start")
	}
}
