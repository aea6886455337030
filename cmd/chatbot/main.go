package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/wecare/hospitalbot/internal/adapters/cache"
	"github.com/wecare/hospitalbot/internal/application/services"
	"github.com/wecare/hospitalbot/internal/cli"
	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/domain/providers"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/gemini"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/openai"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/redis"
	"github.com/wecare/hospitalbot/internal/infrastructure/clients/wecareapi"
	"github.com/wecare/hospitalbot/internal/infrastructure/observability"
	"github.com/wecare/hospitalbot/pkg/config"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			zlog.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					zlog.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			zlog.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	apiClient := wecareapi.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, metrics)
	fetcher := services.NewHospitalFetcher(apiClient, cfg.Fetcher, metrics)

	var source providers.HospitalSource = fetcher
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			zlog.Warn().Err(err).Msg("Redis unavailable, hospital cache disabled")
		} else {
			defer redisClient.Close()
			source = services.NewCachedHospitalSource(
				fetcher,
				cache.NewRedisAdapter(redisClient, "hospitalbot"),
				fetcher.Policy(),
				cfg.Redis.CacheTTLSeconds,
			)
			zlog.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("hospital cache enabled")
		}
	}

	llm, err := newCompletionProvider(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Str("provider", cfg.LLM.Provider).Msg("failed to initialize LLM client")
	}
	zlog.Info().Str("provider", cfg.LLM.Provider).Str("model", llm.Model()).Msg("LLM client initialized")

	driver := cli.NewDriver(os.Stdin, os.Stdout, source, services.NewRecommendationService(llm), cli.Options{
		Category: entities.Category(cfg.Chat.Category),
		Location: &entities.UserLocation{
			Provinsi:  cfg.Location.Provinsi,
			Kota:      cfg.Location.Kota,
			Kecamatan: cfg.Location.Kecamatan,
		},
		Metrics: metrics,
	})

	if err := driver.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Error().Err(err).Msg("chat session ended with error")
	}
}

func newCompletionProvider(ctx context.Context, cfg *config.Config) (providers.CompletionProvider, error) {
	if cfg.LLM.Provider == config.ProviderOpenAI {
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := gemini.NewClient(ctx, &cfg.LLM)
	if err != nil {
		return nil, err
	}
	return client, nil
}
