// Package factory wires the application together: storage backend,
// oracle, services, and relay, selected by configuration.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tuannh/noichu/internal/dependencies/clock"
	"github.com/tuannh/noichu/internal/dependencies/random"
	"github.com/tuannh/noichu/internal/relay"
	"github.com/tuannh/noichu/internal/services/auth"
	"github.com/tuannh/noichu/internal/services/chain"
	"github.com/tuannh/noichu/internal/services/game"
	"github.com/tuannh/noichu/internal/services/oracle"
	"github.com/tuannh/noichu/internal/services/scoring"
	"github.com/tuannh/noichu/internal/services/stats"
	"github.com/tuannh/noichu/internal/storage"
	"github.com/tuannh/noichu/internal/storage/memory"
	redisstorage "github.com/tuannh/noichu/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Oracle type constants
const (
	OracleTypeLLM    = "llm"
	OracleTypeStatic = "static"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Oracle         oracle.Oracle
	Validator      *chain.Validator
	ScoringService *scoring.Service
	StatsService   *stats.Service
	GameController *game.Controller
	AuthService    *auth.Service
	Relay          relay.Relay
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// OracleType selects the word oracle ("llm" or "static")
	// If empty, defaults to "static"
	OracleType string
	// LLMConfig holds LLM oracle settings (required if OracleType is "llm")
	LLMConfig *oracle.LLMConfig
	// WordlistPath is the path to a wordlist file for the static oracle (optional)
	WordlistPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired. With redis
// storage the relay also runs over redis pub/sub, so peer processes see
// each other's transitions; with memory storage everything stays
// in-process.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	// Create storage and relay based on type
	var (
		store storage.Storage
		rly   relay.Relay
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		rly = relay.NewHub(logger)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		rly = relay.NewRedisRelay(redisStore.Client(), logger)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create the word oracle
	var orc oracle.Oracle
	oracleType := cfg.OracleType
	if oracleType == "" {
		oracleType = OracleTypeStatic
	}

	switch oracleType {
	case OracleTypeStatic:
		static := oracle.NewStatic(rnd)
		if cfg.WordlistPath != "" {
			if err := static.LoadFromFile(cfg.WordlistPath); err != nil {
				return nil, err
			}
		}
		orc = static
	case OracleTypeLLM:
		llmCfg := oracle.DefaultLLMConfig()
		if cfg.LLMConfig != nil {
			llmCfg = *cfg.LLMConfig
		}
		orc = oracle.NewLLM(llmCfg, logger)
	default:
		return nil, errors.New("invalid OracleType: must be 'llm' or 'static'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, orc, rly, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	orc oracle.Oracle,
	rly relay.Relay,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	validator := chain.NewValidator(orc, logger)
	scoringService := scoring.New()
	statsService := stats.New(store, clk, logger)
	gameController := game.NewController(store, validator, scoringService, orc, rly, statsService, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Oracle:         orc,
		Validator:      validator,
		ScoringService: scoringService,
		StatsService:   statsService,
		GameController: gameController,
		AuthService:    authService,
		Relay:          rly,
	}
}
