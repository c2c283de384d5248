package notifications

import (
	"context"
	"fmt"

	"internhub/internal/metrics"

	"go.uber.org/zap"
)

// Deliverer renders a notification and hands it to a Sender. Every transport
// ends in a Deliverer.
type Deliverer struct {
	Templates *TemplateManager
	Sender    Sender
	Logger    *zap.Logger
}

func NewDeliverer(templates *TemplateManager, sender Sender, logger *zap.Logger) *Deliverer {
	return &Deliverer{Templates: templates, Sender: sender, Logger: logger}
}

func (d *Deliverer) Deliver(ctx context.Context, n Notification) error {
	subject, body, err := d.Templates.Render(n)
	if err != nil {
		metrics.Notification(string(n.Kind), metrics.OutcomeFailed)
		return err
	}
	if err := d.Sender.Send(ctx, n.Recipient, subject, body); err != nil {
		metrics.Notification(string(n.Kind), metrics.OutcomeFailed)
		return fmt.Errorf("send %s to %s: %w", n.Kind, n.Recipient, err)
	}
	metrics.Notification(string(n.Kind), metrics.OutcomeDelivered)
	return nil
}

// deliverAndLog is the shared tail of every consumer loop.
func (d *Deliverer) deliverAndLog(ctx context.Context, n Notification) {
	if err := d.Deliver(ctx, n); err != nil {
		d.Logger.Warn("notification delivery failed",
			zap.String("id", n.ID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
		return
	}
	d.Logger.Debug("notification delivered",
		zap.String("id", n.ID),
		zap.String("kind", string(n.Kind)))
}

// accept reports whether n has a recipient; empty recipients are dropped quietly.
func accept(logger *zap.Logger, n Notification) bool {
	if n.Recipient != "" {
		return true
	}
	metrics.Notification(string(n.Kind), metrics.OutcomeDropped)
	logger.Debug("notification without recipient dropped", zap.String("kind", string(n.Kind)))
	return false
}
