// cmd/activities-api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/exporters/jaeger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	awsclients "mergington-activities/internal/common/aws"
	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/database"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/enrollment"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"
	"mergington-activities/internal/server"
	"mergington-activities/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// waitForDependency retries only the ping; the client is built once by the
// caller and owns its pool for the process lifetime.
func waitForDependency(ctx context.Context, p pinger, maxRetries int, initialDelay time.Duration, log *zap.Logger, name string) error {
	return retryWithBackoff(func() error {
		return p.Ping(ctx)
	}, maxRetries, initialDelay, log, name)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting activities API...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	var obsOpts []observability.Option
	if cfg.Observability.TracingEnabled {
		var processor sdktrace.SpanProcessor
		if cfg.Observability.JaegerEndpoint != "" {
			exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Observability.JaegerEndpoint)))
			if err != nil {
				zapLog.Fatal("jaeger exporter init failed", zap.Error(err))
			}
			processor = sdktrace.NewBatchSpanProcessor(exporter)
		}
		obsOpts = append(obsOpts, observability.WithTracing(processor))
	}
	obs := observability.New(cfg.Observability.ServiceName, obsOpts...)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Registry ---
	cat, err := catalog.LoadOrDefault(cfg.Registry.CatalogFile)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	reg, err := registry.New(cat.ToModels(), registry.WithCapacityEnforcement(cfg.Registry.EnforceCapacity))
	if err != nil {
		zapLog.Fatal("registry init failed", zap.Error(err))
	}
	zapLog.Info("Registry seeded",
		zap.Int("activities", reg.Len()),
		zap.Strings("names", reg.Names()),
		zap.Bool("enforceCapacity", cfg.Registry.EnforceCapacity),
	)

	// --- Event sinks ---
	sinks := []events.Sink{events.NewLogSink(log)}

	if cfg.Events.RedisStream.Enabled {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis client init failed", zap.Error(err))
		}
		defer rc.Close()
		err = waitForDependency(ctx, rc, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		sinks = append(sinks, events.NewRedisStreamSink(rc.GetClient(), cfg.Events.RedisStream.Stream, cfg.Events.RedisStream.MaxLen))
		zapLog.Info("Redis connected successfully", zap.String("stream", cfg.Events.RedisStream.Stream))
	}

	if cfg.Events.Audit.Enabled {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres client init failed", zap.Error(err))
		}
		defer pg.Close()
		err = waitForDependency(ctx, pg, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		if err := database.EnsureAuditTable(ctx, pg.GetDB(), cfg.Events.Audit.Table); err != nil {
			zapLog.Fatal("audit table setup failed", zap.Error(err))
		}
		auditSink, err := events.NewAuditSink(pg.GetDB(), cfg.Events.Audit.Table)
		if err != nil {
			zapLog.Fatal("audit sink init failed", zap.Error(err))
		}
		sinks = append(sinks, auditSink)
		zapLog.Info("PostgreSQL connected successfully", zap.String("table", cfg.Events.Audit.Table))
	}

	if cfg.Events.Index.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client init failed", zap.Error(err))
		}
		err = waitForDependency(ctx, es, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		sinks = append(sinks, events.NewIndexSink(es.GetClient(), cfg.Events.Index.Name))
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Events.Index.Name))
	}

	if cfg.Events.SNS.Enabled {
		snsClient, err := awsclients.NewSNSClient(ctx, cfg.Events.SNS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sinks = append(sinks, events.NewSNSSink(snsClient, cfg.Events.SNS.TopicARN))
		zapLog.Info("SNS publishing enabled", zap.String("region", snsClient.Region()), zap.String("topic", cfg.Events.SNS.TopicARN))
	}

	if cfg.Events.Email.Enabled {
		sesClient, err := awsclients.NewSESClient(ctx, cfg.Events.Email.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		sinks = append(sinks, events.NewEmailSink(sesClient, cfg.Events.Email.FromEmail))
		zapLog.Info("SES confirmations enabled", zap.String("region", sesClient.Region()))
	}

	dispatcher := events.NewDispatcher(log, config.GetDuration(cfg.Events.Timeout), sinks...).
		WithBudget(config.GetDuration(cfg.Events.Budget))
	zapLog.Info("Event sinks configured", zap.Strings("sinks", dispatcher.SinkNames()))

	// --- HTTP ---
	svc := enrollment.NewService(reg, dispatcher, obs, log)
	srv := server.New(cfg, svc, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Activities API stopped gracefully")
}
