package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/cache"
	"interview-backend/internal/evaluation"
	"interview-backend/internal/improvement"
	"interview-backend/internal/interviews"
	"interview-backend/internal/llm"
	"interview-backend/internal/llm/claude"
	"interview-backend/internal/llm/openai"
	"interview-backend/internal/questions"
	"interview-backend/internal/resources"
	"interview-backend/internal/resumes"
	"interview-backend/internal/roles"
	"interview-backend/internal/services/health"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/server"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/storage/object"
	localstore "interview-backend/internal/shared/storage/object/local"
	s3store "interview-backend/internal/shared/storage/object/s3"
)

const roundCachePrefix = "interview:"

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Oracle llm.Client
	Cache  cache.Store

	RolesRepo      roles.RolesRepo
	ResourcesRepo  resources.ResourcesRepo
	ResumesRepo    resumes.ResumesRepo
	InterviewsRepo interviews.InterviewsRepo

	RolesService      *roles.Service
	ResourcesService  *resources.Service
	ResumesService    *resumes.Service
	InterviewsService *interviews.Service
	Evaluator         *evaluation.Engine
	Plans             *improvement.Generator
	Questions         *questions.Generator
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	cfg.LLMProvider = config.NormalizeProvider(cfg.LLMProvider)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	oracle, err := BuildOracle(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Oracle: oracle,
		Cache:  buildCache(ctx, cfg),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Health: health.NewService(sqlDB),
		Handlers: []server.RouteRegistrar{
			interviews.NewHandler(app.InterviewsService),
			questions.NewHandler(app.Questions),
			roles.NewHandler(app.RolesService),
			resources.NewHandler(app.ResourcesService),
		},
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	db.RegisterPoolMetrics(sqlDB)
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildOracle returns the configured oracle client wrapped with the per-call timeout,
// the client-side throttle and call metrics. Provider "none" yields a client that always
// fails, so every advisory step takes its documented fallback.
func BuildOracle(cfg config.Config) (llm.Client, error) {
	var base llm.Client
	switch config.NormalizeProvider(cfg.LLMProvider) {
	case "openai":
		c, err := openai.NewClient(openai.Config{
			Provider: "openai",
			APIKey:   cfg.OpenAIAPIKey,
			Model:    cfg.LLMModel,
			BaseURL:  cfg.LLMBaseURL,
			Timeout:  cfg.OracleTimeout,
		})
		if err != nil {
			return nil, err
		}
		base = c
	case "groq":
		baseURL := cfg.LLMBaseURL
		if strings.TrimSpace(baseURL) == "" {
			baseURL = openai.GroqBaseURL
		}
		c, err := openai.NewClient(openai.Config{
			Provider: "groq",
			APIKey:   cfg.GroqAPIKey,
			Model:    cfg.LLMModel,
			BaseURL:  baseURL,
			Timeout:  cfg.OracleTimeout,
		})
		if err != nil {
			return nil, err
		}
		base = c
	case "anthropic":
		c, err := claude.NewClient(claude.Config{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
			Timeout: cfg.OracleTimeout,
		})
		if err != nil {
			return nil, err
		}
		base = c
	default:
		log.Printf("bootstrap: LLM_PROVIDER=none; oracle calls will use fallbacks")
		base = llm.PlaceholderClient{}
	}

	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = config.DefaultOracleTimeout
	}
	client := llm.WithTimeout(base, timeout)
	client = llm.NewRateLimited(client, cfg.OracleRate, cfg.OracleBurst)
	return llm.Instrument(client), nil
}

// buildCache connects to Redis when REDIS_URL is set. Without it, round suggestions are
// cached in process memory.
func buildCache(ctx context.Context, cfg config.Config) cache.Store {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return cache.NewMemoryStore(nil)
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("bootstrap: redis unavailable; caching in memory: %v", err)
		return cache.NewMemoryStore(nil)
	}
	return cache.NewRedisStore(client, roundCachePrefix)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.RolesRepo = &roles.PGRepo{DB: app.DB}
		app.ResourcesRepo = &resources.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.InterviewsRepo = &interviews.PGRepo{DB: app.DB}
	} else {
		app.RolesRepo = roles.NewMemoryRepo()
		app.ResourcesRepo = resources.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.InterviewsRepo = interviews.NewMemoryRepo()
	}

	app.RolesService = &roles.Service{Repo: app.RolesRepo}
	app.ResourcesService = &resources.Service{Repo: app.ResourcesRepo}
	app.ResumesService = &resumes.Service{
		Store:    app.Store,
		Repo:     app.ResumesRepo,
		Provider: app.Config.ObjectStoreType,
	}
	app.Evaluator = evaluation.NewEngine(app.Oracle)
	app.Plans = improvement.NewGenerator(app.Oracle, app.RolesService, app.ResourcesService)
	app.Plans.SharedOwner = roles.SharedOwnerID
	app.Questions = questions.NewGenerator(app.Oracle, app.Cache, app.Config.RoundCacheTTL)
	app.InterviewsService = &interviews.Service{
		Repo:      app.InterviewsRepo,
		Resumes:   app.ResumesService,
		Roles:     app.RolesService,
		Questions: app.Questions,
		Evaluator: app.Evaluator,
		Plans:     app.Plans,
	}
}
