package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	"github.com/frahmantamala/voucher-management/internal/auth"
	authPostgres "github.com/frahmantamala/voucher-management/internal/auth/postgres"
	"github.com/frahmantamala/voucher-management/internal/client"
	clientPostgres "github.com/frahmantamala/voucher-management/internal/client/postgres"
	"github.com/frahmantamala/voucher-management/internal/company"
	companyPostgres "github.com/frahmantamala/voucher-management/internal/company/postgres"
	"github.com/frahmantamala/voucher-management/internal/core/events"
	"github.com/frahmantamala/voucher-management/internal/notification"
	"github.com/frahmantamala/voucher-management/internal/refs"
	refsPostgres "github.com/frahmantamala/voucher-management/internal/refs/postgres"
	"github.com/frahmantamala/voucher-management/internal/request"
	requestPostgres "github.com/frahmantamala/voucher-management/internal/request/postgres"
	"github.com/frahmantamala/voucher-management/internal/transport/rest"
	"github.com/frahmantamala/voucher-management/internal/user"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	voucherPostgres "github.com/frahmantamala/voucher-management/internal/voucher/postgres"
	"github.com/frahmantamala/voucher-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger

	authRepo := authPostgres.NewRepository(deps.GormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
	)
	authService := auth.NewService(authRepo, tokenGen)

	companyRepo := companyPostgres.NewCompanyRepository(deps.GormDB)
	companyService := company.NewService(companyRepo, lg)

	clientRepo := clientPostgres.NewClientRepository(deps.GormDB)
	clientService := client.NewService(clientRepo, lg)

	refRepo := refsPostgres.NewRefRepository(deps.GormDB)
	refGen := refs.NewGenerator(refRepo, refRepo, lg)

	requestRepo := requestPostgres.NewRequestRepository(deps.GormDB)
	requestService := request.NewService(requestRepo, refGen, companyService, deps.EventBus, lg)

	voucherRepo := voucherPostgres.NewVoucherRepository(deps.GormDB)
	voucherService := voucher.NewService(voucherRepo, companyService, auth.NewPermissionChecker(), deps.EventBus, lg)

	notifier := notification.NewApproverNotifier(authRepo, notification.NewLogSender(lg), lg)
	notifier.Register(deps.EventBus)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(),
		Request: request.NewHandler(requestService),
		Voucher: voucher.NewHandler(voucherService),
		Company: company.NewHandler(companyService),
		Client:  client.NewHandler(clientService),
	}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	lg := logger.LoggerWrapper()

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: events.NewEventBus(lg),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing connection so repositories share the pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{
		TranslateError: true,
	})
}
