package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmoura00/JogoLabirinto/api"
	api_i "github.com/lmoura00/JogoLabirinto/api/i"
	"github.com/lmoura00/JogoLabirinto/api/identity"
	levelapi "github.com/lmoura00/JogoLabirinto/api/level"
	"github.com/lmoura00/JogoLabirinto/config"
	"github.com/lmoura00/JogoLabirinto/infrastruture/progress"
	"github.com/lmoura00/JogoLabirinto/infrastruture/repo"
	"github.com/lmoura00/JogoLabirinto/infrastruture/sqlitedb"
	"github.com/lmoura00/JogoLabirinto/infrastruture/token"
	"github.com/lmoura00/JogoLabirinto/service"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	cfg             *config.Config
	appLogger       zerolog.Logger
	mongoClient     *mongo.Client
	redisClient     *redis.Client
	sqliteDB        *sql.DB
	playerRepo      i.PlayerRepo
	progressStore   i.ProgressStore
	jwtTokenizer    i.Tokenizer
	authService     i.Authenticator
	levelService    i.LevelService
	authController  api_i.Controller
	levelController api_i.Controller
	router          *api.Router
)

func fatal(err error, msg string) {
	appLogger.Error().Err(err).Msg(msg)
	os.Exit(1)
}

func initMongo(ctx context.Context) {
	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		fatal(err, "Failed to connect to MongoDB")
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		fatal(err, "MongoDB ping failed")
	}
	appLogger.Info().Str("host", cfg.DBHost).Msg("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fatal(err, "Redis ping failed")
	}
	appLogger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
}

// initStores picks the player repository and the progress store for the
// configured backend.
func initStores(ctx context.Context) {
	switch cfg.ProgressBackend {
	case config.BackendMongo:
		initMongo(ctx)
		mongoPlayers := repo.NewPlayerRepo(mongoClient, cfg.DBName, "players")
		if err := mongoPlayers.EnsureIndexes(ctx); err != nil {
			fatal(err, "Creating player indexes")
		}
		playerRepo = mongoPlayers
		progressStore = repo.NewProgressRepo(mongoClient, cfg.DBName, "progress")
	case config.BackendRedis:
		initRedis(ctx)
		playerRepo = repo.NewRedisPlayerRepo(redisClient)
		progressStore = progress.NewRedisStore(redisClient)
	case config.BackendSQLite:
		var err error
		sqliteDB, err = sqlitedb.Open(ctx, cfg.SQLitePath, appLogger)
		if err != nil {
			fatal(err, "Opening SQLite database")
		}
		playerRepo = repo.NewSQLitePlayerRepo(sqliteDB)
		progressStore = progress.NewSQLiteStore(sqliteDB)
	default:
		playerRepo = repo.NewMemoryPlayerRepo()
		progressStore = progress.NewMemoryStore()
	}
	appLogger.Info().Str("backend", cfg.ProgressBackend).Msg("Stores initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(cfg.JWTSecret, cfg.JWTIssuer)
	appLogger.Info().Msg("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(service.AuthConfig{
		PlayerRepo: playerRepo,
		Tokenizer:  jwtTokenizer,
		TokenTTL:   cfg.TokenTTL,
		Logger:     config.NewLogger("AUTH"),
	})
	if err != nil {
		fatal(err, "Creating auth service")
	}
	appLogger.Info().Msg("Auth service initialized")
}

func initLevelService() {
	var err error
	levelService, err = service.NewLevelManager(service.LevelConfig{
		Store:       progressStore,
		Logger:      config.NewLogger("LEVEL"),
		MaxAttempts: cfg.MazeMaxAttempts,
	})
	if err != nil {
		fatal(err, "Creating level service")
	}
	appLogger.Info().Msg("Level service initialized")
}

func initControllers() {
	authController = identity.NewIdentityServer(authService)
	levelController = levelapi.NewLevelController(levelService)
	appLogger.Info().Msg("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(cfg.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    cfg.Addr(),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, levelController},
		AuthorizationMiddleware: identity.Authoriz(t),
		Logger:                  config.NewLogger("HTTP"),
	})
	appLogger.Info().Msg("Router initialized")
}

func main() {
	appLogger = config.NewLogger("APP")

	var err error
	cfg, err = config.Load()
	if err != nil {
		fatal(err, "Loading configuration")
	}
	if err := config.SetLogLevel(cfg.LogLevel); err != nil {
		appLogger.Warn().Err(err).Msg("Keeping default log level")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	initStores(ctx)
	defer func() {
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if sqliteDB != nil {
			_ = sqliteDB.Close()
		}
	}()

	initJWTTokenizer()
	initAuthService()
	initLevelService()
	initControllers()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error().Err(fmt.Errorf("starting server: %w", err)).Send()
	}
}
