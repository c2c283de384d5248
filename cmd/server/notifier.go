package main

import (
	"context"
	"fmt"

	"internhub/internal/config"
	"internhub/internal/notifications"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// buildNotifier wires the configured transport. The returned stop function
// drains or closes whatever the transport started.
func buildNotifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (notifications.Dispatcher, func(), error) {
	templates, err := notifications.NewTemplateManager()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load notification templates: %w", err)
	}
	log.Info("notification templates loaded", zap.Any("kinds", templates.Kinds()))

	var sender notifications.Sender = notifications.LogSender{Logger: log}
	if cfg.SMTPConfigured() {
		sender = notifications.NewSMTPSender(notifications.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	} else {
		log.Warn("SMTP is not configured, notifications will only be logged")
	}
	deliverer := notifications.NewDeliverer(templates, sender, log)

	switch cfg.NotifyTransport {
	case config.TransportNone:
		log.Warn("notifications are disabled")
		return notifications.Noop{}, func() {}, nil

	case config.TransportRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		consumerCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		consumer := notifications.NewRedisConsumer(rdb, deliverer, log)
		go func() {
			defer close(done)
			consumer.Run(consumerCtx)
		}()
		log.Info("notification transport ready", zap.String("transport", "redis"), zap.String("addr", cfg.RedisAddr))
		return notifications.NewRedisDispatcher(rdb, log), func() {
			cancel()
			<-done
			rdb.Close()
		}, nil

	case config.TransportNATS:
		conn, err := notifications.ConnectNATS(cfg.NATSURL, cfg.NATSConnTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to nats at %s: %w", cfg.NATSURL, err)
		}
		subscriber := notifications.NewNATSSubscriber(conn, deliverer, log)
		if err := subscriber.Start(); err != nil {
			conn.Close()
			return nil, nil, err
		}
		log.Info("notification transport ready", zap.String("transport", "nats"), zap.String("url", cfg.NATSURL))
		return notifications.NewNATSDispatcher(conn, log), func() {
			if err := subscriber.Stop(); err != nil {
				log.Warn("failed to drain nats subscription", zap.Error(err))
			}
			conn.Close()
		}, nil

	default:
		dispatcher := notifications.NewAsyncDispatcher(deliverer, log, cfg.NotifyWorkers, cfg.NotifyQueueSize)
		dispatcher.Start()
		log.Info("notification transport ready", zap.String("transport", "memory"), zap.Int("workers", cfg.NotifyWorkers))
		return dispatcher, dispatcher.Stop, nil
	}
}
