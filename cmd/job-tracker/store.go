package main

import (
	"context"
	"database/sql"
	"time"

	"job-tracker/internal/common/aws"
	"job-tracker/internal/common/config"
	"job-tracker/internal/common/database"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/events"
	"job-tracker/internal/jobstore"
	"job-tracker/internal/notify"
	"job-tracker/internal/search"

	"go.uber.org/zap"
)

// connections holds the clients opened for the store so shutdown can close them.
type connections struct {
	pg    *database.PostgresClient
	redis *database.RedisClient
	nats  *database.NATSClient
}

// readiness returns a check per connected backing service.
func (c *connections) readiness() map[string]readinessCheck {
	checks := map[string]readinessCheck{}
	if c.pg != nil {
		checks["postgres"] = c.pg.Ping
	}
	if c.redis != nil {
		checks["redis"] = c.redis.Ping
	}
	return checks
}

func (c *connections) Close(log *zap.Logger) {
	if c.nats != nil {
		if err := c.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", zap.Error(err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if c.pg != nil {
		if err := c.pg.Close(); err != nil {
			log.Error("Error closing PostgreSQL connection", zap.Error(err))
		}
	}
}

// buildStore opens the configured backend and stacks the enabled layers on it.
// A failing optional layer is logged and skipped; only the backend is fatal.
func buildStore(ctx context.Context, cfg *config.Config, obs *observability.Observability, zapLog *zap.Logger, log logger.Logger) (jobstore.Store, *connections, error) {
	conns := &connections{}

	var db *sql.DB
	if cfg.Store.Backend == config.BackendPostgres {
		err := retryWithBackoff(func() error {
			var err error
			conns.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return conns.pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, conns, err
		}
		db = conns.pg.DB
		zapLog.Info("PostgreSQL connected successfully")
	}

	backend, err := jobstore.Open(ctx, cfg.Store, db)
	if err != nil {
		return nil, conns, err
	}
	zapLog.Info("Job store opened", zap.String("backend", cfg.Store.Backend))

	layers := jobstore.Layers{
		CacheTTL:       config.GetDuration(cfg.Store.Cache.TTL),
		CachePrefix:    cfg.Store.Cache.KeyPrefix,
		IndexName:      cfg.Store.Index.Name,
		ServeList:      cfg.Store.Index.ServeList,
		NotifyStatuses: cfg.Notifications.Statuses,
		Observability:  obs,
	}

	if cfg.Store.Cache.Enabled {
		err := retryWithBackoff(func() error {
			var err error
			conns.redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return conns.redis.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("Redis unavailable, running without cache", zap.Error(err))
			if conns.redis != nil {
				conns.redis.Close()
				conns.redis = nil
			}
		} else {
			layers.Redis = conns.redis.Client
			zapLog.Info("Redis connected successfully")
		}
	}

	if cfg.Store.Index.Enabled {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			return es.EnsureIndex(ctx, cfg.Store.Index.Name, search.IndexMapping)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("Elasticsearch unavailable, running without index", zap.Error(err))
		} else {
			layers.Elasticsearch = es.Client
			zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Store.Index.Name))
		}
	}

	if cfg.Events.NATS.Enabled {
		nc, err := database.NewNATS(cfg.Events.NATS)
		if err == nil {
			err = nc.Ping()
		}
		if err != nil {
			zapLog.Warn("NATS unavailable, running without events", zap.Error(err))
			if nc != nil {
				nc.Close()
			}
		} else {
			conns.nats = nc
			layers.Events = events.NewPublisher(nc.Conn, cfg.Events.NATS.SubjectPrefix, log)
			zapLog.Info("NATS connected successfully", zap.String("subjectPrefix", cfg.Events.NATS.SubjectPrefix))
		}
	}

	if cfg.Notifications.Enabled() {
		notifier, err := buildNotifier(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Warn("AWS config failed, running without notifications", zap.Error(err))
		} else {
			layers.Notifier = notifier
		}
	}

	return jobstore.Wrap(backend, layers, log), conns, nil
}

func buildNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*notify.Notifier, error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	var (
		sesClient notify.SESService
		snsClient notify.SNSService
	)
	if cfg.Email.Enabled {
		sesClient = aws.NewSESClient(awsCfg)
	}
	if cfg.SMS.Enabled {
		snsClient = aws.NewSNSClient(awsCfg)
	}

	return notify.New(notify.Config{
		EmailEnabled: cfg.Email.Enabled,
		FromEmail:    cfg.Email.FromEmail,
		ToEmail:      cfg.Email.ToEmail,
		SMSEnabled:   cfg.SMS.Enabled,
		PhoneNumber:  cfg.SMS.PhoneNumber,
		TopicARN:     cfg.SMS.TopicARN,
	}, sesClient, snsClient, log), nil
}
