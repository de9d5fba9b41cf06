package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"bizplan-backend/internal/analyses"
	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/cache"
	"bizplan-backend/internal/llm"
	anthropicllm "bizplan-backend/internal/llm/anthropic"
	einollm "bizplan-backend/internal/llm/eino"
	openaillm "bizplan-backend/internal/llm/openai"
	"bizplan-backend/internal/report"
	"bizplan-backend/internal/services/health"
	"bizplan-backend/internal/shared/config"
	"bizplan-backend/internal/shared/server"
	"bizplan-backend/internal/shared/storage/db"
	"bizplan-backend/internal/shared/storage/object"
	localstore "bizplan-backend/internal/shared/storage/object/local"
	s3store "bizplan-backend/internal/shared/storage/object/s3"
	"bizplan-backend/internal/shared/telemetry"
)

const defaultOpenAIModel = "gpt-4o-mini"

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	SQLite          *sqlx.DB
	Redis           *redis.Client
	Store           object.ObjectStore
	Cache           cache.ResultCache
	Rewriter        llm.Rewriter
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Health          *health.Service
}

// Build prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()
	app := &App{Config: cfg, Health: health.NewService()}

	if err := app.buildRepo(ctx); err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	if err := app.buildCache(ctx); err != nil {
		app.Close()
		return nil, err
	}

	rewriter, err := BuildRewriter(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Rewriter = rewriter

	app.AnalysesService = &analyses.Service{
		Repo:  app.AnalysesRepo,
		Store: app.Store,
		Cache: app.Cache,
		Gate: assessment.Gate{
			Rewriter: rewriter,
			Timeout:  cfg.EnrichmentTimeout,
		},
		Reports: BuildReports(cfg),
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		Health:          app.Health,
	})
	return app, nil
}

// Close releases database and cache connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.SQLite != nil {
		errs = append(errs, a.SQLite.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

func (a *App) buildRepo(ctx context.Context) error {
	cfg := a.Config
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err == nil {
			err = db.RunMigrations(ctx, sqlDB, db.DialectPostgres)
			if err != nil {
				sqlDB.Close()
			}
		}
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.database.fallback", map[string]any{"error": err.Error()})
				a.AnalysesRepo = analyses.NewMemoryRepo()
				return nil
			}
			return err
		}
		a.DB = sqlDB
		a.AnalysesRepo = &analyses.PGRepo{DB: sqlDB}
		a.Health.Register("database", sqlDB.PingContext)
		return nil
	}

	if strings.TrimSpace(cfg.SQLitePath) != "" {
		sqliteDB, err := db.ConnectSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		if err := db.RunMigrations(ctx, sqliteDB.DB, db.DialectSQLite); err != nil {
			sqliteDB.Close()
			return err
		}
		a.SQLite = sqliteDB
		a.AnalysesRepo = &analyses.SQLiteRepo{DB: sqliteDB}
		a.Health.Register("database", sqliteDB.PingContext)
		return nil
	}

	if !isDevLike(cfg.Env) {
		return fmt.Errorf("DATABASE_URL or SQLITE_PATH is required")
	}
	telemetry.Info("bootstrap.database.memory", nil)
	a.AnalysesRepo = analyses.NewMemoryRepo()
	return nil
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

func (a *App) buildCache(ctx context.Context) error {
	cfg := a.Config
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		a.Cache = cache.NewMemory(cfg.CacheTTL)
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.cache.fallback", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
			a.Cache = cache.NewMemory(cfg.CacheTTL)
			return nil
		}
		return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	a.Redis = client
	a.Cache = cache.NewRedis(client, cfg.CacheTTL)
	a.Health.Register("cache", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	return nil
}

// BuildRewriter returns nil when no provider is configured, which keeps
// every analysis deterministic.
func BuildRewriter(ctx context.Context, cfg config.Config) (llm.Rewriter, error) {
	var (
		rw  llm.Rewriter
		err error
	)
	switch cfg.LLMProvider {
	case "openai":
		model := cfg.LLMModel
		if strings.TrimSpace(model) == "" {
			model = defaultOpenAIModel
		}
		rw, err = openaillm.NewClient(firstNonEmpty(cfg.OpenAIAPIKey, cfg.LLMAPIKey), model, cfg.LLMBaseURL, cfg.EnrichmentTimeout)
	case "anthropic":
		rw, err = anthropicllm.NewClient(firstNonEmpty(cfg.AnthropicAPIKey, cfg.LLMAPIKey), cfg.LLMModel)
	case "eino":
		rw, err = einollm.NewClient(ctx, einollm.Config{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  firstNonEmpty(cfg.LLMAPIKey, cfg.OpenAIAPIKey),
			Model:   cfg.LLMModel,
		})
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
	}
	telemetry.Info("bootstrap.llm.configured", map[string]any{
		"provider": cfg.LLMProvider,
		"model":    cfg.LLMModel,
		"rpm":      cfg.LLMRPM,
	})
	return llm.NewLimited(rw, cfg.LLMRPM, cfg.LLMBurst), nil
}

// BuildReports enables PDF export when a Chrome binary is configured or found.
func BuildReports(cfg config.Config) report.Renderer {
	chromePath := strings.TrimSpace(cfg.ChromePath)
	if chromePath == "" {
		chromePath = report.DetectChromePath()
	}
	if chromePath == "" {
		telemetry.Info("bootstrap.reports.pdf_disabled", nil)
		return report.Renderer{}
	}
	return report.Renderer{PDF: report.NewPDFRenderer(chromePath)}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
