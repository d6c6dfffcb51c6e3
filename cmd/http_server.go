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

	"github.com/backofficehq/admin-backend/internal"
	"github.com/backofficehq/admin-backend/internal/auth"
	authPostgres "github.com/backofficehq/admin-backend/internal/auth/postgres"
	"github.com/backofficehq/admin-backend/internal/rbac"
	"github.com/backofficehq/admin-backend/internal/role"
	rolePostgres "github.com/backofficehq/admin-backend/internal/role/postgres"
	"github.com/backofficehq/admin-backend/internal/storage"
	"github.com/backofficehq/admin-backend/internal/sucursale"
	sucursalePostgres "github.com/backofficehq/admin-backend/internal/sucursale/postgres"
	"github.com/backofficehq/admin-backend/internal/transport/rest"
	"github.com/backofficehq/admin-backend/internal/user"
	userPostgres "github.com/backofficehq/admin-backend/internal/user/postgres"
	"github.com/backofficehq/admin-backend/pkg/logger"

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
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
	Files  *storage.Storage

	AuthHandler      *auth.Handler
	RoleHandler      *role.Handler
	UserHandler      *user.Handler
	SucursaleHandler *sucursale.Handler
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

	// Signal handling for graceful shutdown
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
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.RoleHandler,
		deps.UserHandler,
		deps.SucursaleHandler,
		deps.Files.HTTPFileSystem(),
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	files := storage.NewLocal(config.Storage.Root)

	rbacService := rbac.NewService(gormDB)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGenerator, rbacService, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	roleRepo := rolePostgres.NewRoleRepository(gormDB)
	roleService := role.NewService(roleRepo, rbacService, lg)
	roleHandler := role.NewHandler(roleService)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, rbacService, files, config.Server.BaseURL, config.Security.BCryptCost, lg)
	userHandler := user.NewHandler(userService)

	sucursaleRepo := sucursalePostgres.NewSucursaleRepository(gormDB)
	sucursaleService := sucursale.NewService(sucursaleRepo, lg)
	sucursaleHandler := sucursale.NewHandler(sucursaleService)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
		Files:  files,

		AuthHandler:      authHandler,
		RoleHandler:      roleHandler,
		UserHandler:      userHandler,
		SucursaleHandler: sucursaleHandler,
	}, nil
}

// initDB opens the pgx connection through sqlx, then hands the same
// underlying *sql.DB to gorm so both layers share one pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	return dbConn, gormDB, nil
}
