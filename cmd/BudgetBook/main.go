package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/budgetbook/BudgetBook/internal/auth"
	"github.com/budgetbook/BudgetBook/internal/budgeting"
	budgets "github.com/budgetbook/BudgetBook/internal/budgeting/budget"
	transactions "github.com/budgetbook/BudgetBook/internal/budgeting/transaction"
	database "github.com/budgetbook/BudgetBook/internal/db"
	emailService "github.com/budgetbook/BudgetBook/internal/email"
	"github.com/budgetbook/BudgetBook/internal/notify"
	"github.com/budgetbook/BudgetBook/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errs ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errs) > 0 && len(errs[0]) > 0 {
		payload["errors"] = errs[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router           *http.ServeMux
	dbService        *database.DBService
	authHandler      *auth.Handler
	userHandler      *user.Handler
	authService      auth.Service
	budgetingHandler *budgeting.BudgetingHandler
}

func NewServer(dbService *database.DBService, authHandler *auth.Handler, authService auth.Service, userHandler *user.Handler, budgetingHandler *budgeting.BudgetingHandler) *Server {
	return &Server{
		dbService:        dbService,
		authHandler:      authHandler,
		userHandler:      userHandler,
		authService:      authService,
		budgetingHandler: budgetingHandler,
		router:           http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET provided")
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		return errors.New("no DB_CONNECTION_STRING provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	health := s.dbService.Health()
	if health["status"] != "up" {
		respondJSON(w, http.StatusServiceUnavailable, health)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/email/verify", http.HandlerFunc(s.userHandler.HandleVerifyEmail))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", protect(http.HandlerFunc(s.userHandler.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", protect(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", protect(http.HandlerFunc(s.authHandler.HandleConfirmTwoFactor)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", protect(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// BUDGETS API
	protectedRoutes.Handle("GET /api/protected/budgets", protect(http.HandlerFunc(s.budgetingHandler.ListBudgets)))
	protectedRoutes.Handle("POST /api/protected/budgets", protect(http.HandlerFunc(s.budgetingHandler.CreateBudget)))
	protectedRoutes.Handle("GET /api/protected/budgets/{budgetID}", protect(http.HandlerFunc(s.budgetingHandler.GetBudget)))
	protectedRoutes.Handle("PATCH /api/protected/budgets/{budgetID}", protect(http.HandlerFunc(s.budgetingHandler.UpdateBudget)))
	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}", protect(http.HandlerFunc(s.budgetingHandler.DeleteBudget)))
	protectedRoutes.Handle("GET /api/protected/budgets/{budgetID}/transactions", protect(http.HandlerFunc(s.budgetingHandler.ListTransactions)))
	protectedRoutes.Handle("GET /api/protected/budgets/{budgetID}/summary", protect(http.HandlerFunc(s.budgetingHandler.GetBudgetSummary)))

	// TRANSACTIONS API
	protectedRoutes.Handle("POST /api/protected/transactions", protect(http.HandlerFunc(s.budgetingHandler.CreateTransaction)))
	protectedRoutes.Handle("PATCH /api/protected/transactions/{transactionID}", protect(http.HandlerFunc(s.budgetingHandler.UpdateTransaction)))
	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}", protect(http.HandlerFunc(s.budgetingHandler.DeleteTransaction)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func newNotifier() notify.Notifier {
	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		return notify.NewNoopNotifier()
	}

	exchange := os.Getenv("AMQP_EXCHANGE")
	if exchange == "" {
		exchange = "budgetbook.changes"
	}
	queue := os.Getenv("AMQP_QUEUE")
	if queue == "" {
		queue = "budgetbook.changes"
	}

	notifier, err := notify.NewAMQPNotifier(amqpURL, exchange, queue)
	if err != nil {
		log.Printf("AMQP notifier unavailable, falling back to no-op: %v", err)
		return notify.NewNoopNotifier()
	}
	return notifier
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.RunMigrations(); err != nil {
		log.Fatalf("Could not apply migrations: %v", err)
	}

	notifier := newNotifier()

	allowlist := user.NewAllowlist(os.Getenv("AUTHORIZED_EMAILS"))
	userRepo := user.NewUserRepository(dbService.DB)
	newEmailService := emailService.NewEmailService()
	userService := user.NewUserService(userRepo, newEmailService, allowlist)
	userHandler := user.NewHandler(userService)

	twoFactorRepo := auth.NewTwoFactorRepository(dbService.DB)
	sessionManager := auth.NewSessionManager()
	jwtManager := auth.NewJWTManager()
	authenticator := auth.Authenticator{}
	authService := auth.NewAuthService(twoFactorRepo, userService, sessionManager, jwtManager, authenticator)
	authHandler := auth.NewHandler(authService)

	budgetRepo := budgets.NewBudgetRepository(dbService.DB)
	budgetService := budgets.NewBudgetService(budgetRepo, notifier)

	transactionRepo := transactions.NewTransactionRepository(dbService.DB)
	transactionService := transactions.NewTransactionService(transactionRepo, budgetService, notifier)

	budgetingHandler := budgeting.NewBudgetingHandler(budgetService, transactionService, respondJSON, respondError)

	server := NewServer(dbService, authHandler, authService, userHandler, budgetingHandler)
	server.RegisterRoutes()

	if err := StartCleanupScheduler(authService, userService); err != nil {
		log.Fatalf("Scheduler didn't start, stopping the app ...")
	}

	handler := loggingMiddleware(server.router)
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// StartCleanupScheduler periodically drops expired pending-login sessions and
// stale email verification codes.
func StartCleanupScheduler(authService auth.Service, userService user.Service) error {
	c := cron.New()
	_, err := c.AddFunc("@every 1h", func() {
		removed := authService.CleanupSessions()
		purged, err := userService.PurgeExpiredCodes()
		if err != nil {
			log.Printf("Error purging expired verification codes: %v", err)
			return
		}
		log.Printf("Cleanup removed %d expired sessions and %d verification codes", removed, purged)
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
