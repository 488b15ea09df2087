// Package bootstrap wires configuration, the document store, and the
// application layers into a runnable router.
package bootstrap

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yusuf/schoolregistry/internal/app/auth"
	appControllers "github.com/yusuf/schoolregistry/internal/app/controllers"
	appRepos "github.com/yusuf/schoolregistry/internal/app/repositories"
	appRoutes "github.com/yusuf/schoolregistry/internal/app/routes"
	appServices "github.com/yusuf/schoolregistry/internal/app/services"
	"github.com/yusuf/schoolregistry/internal/config"
	"github.com/yusuf/schoolregistry/internal/db"
	"github.com/yusuf/schoolregistry/internal/pkg/accesslog"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
	"github.com/yusuf/schoolregistry/internal/store"
)

// Dependencies holds the wired application layers.
type Dependencies struct {
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	Controllers *appControllers.Controllers
	Gate        *appAuth.Gate
	Recorder    accesslog.Recorder
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to MongoDB and applies the index constraints the
// service relies on.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.MongoDB, store.Database, error) {
	lgr.Info().Str("database", cfg.Database.Name).Msg("Establishing database connection...")

	mongodb, err := db.NewMongoDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}

	database := store.NewMongoDatabase(mongodb.Database)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()
	if err := db.EnsureIndexes(ctx, database); err != nil {
		lgr.Error().Err(err).Msg("Failed to ensure indexes")
		_ = mongodb.Close(context.Background())
		return nil, nil, err
	}

	lgr.Info().Msg("Database connection successfully established.")
	return mongodb, database, nil
}

// BuildDependencies initializes repositories, services, and controllers over
// the store.
func BuildDependencies(cfg *config.Config, database store.Database, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	deps.Services = appServices.NewServices(deps.Repos)
	deps.Controllers = appControllers.NewControllers(deps.Services)
	deps.Gate = appAuth.NewGate(cfg.API.Key)
	deps.Recorder = accesslog.NewStoreRecorder(deps.Repos.AccessLog)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router, deps.Controllers, deps.Gate, deps.Recorder)

	lgr.Info().Msg("Router configured")
	return router
}
