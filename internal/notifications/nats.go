package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"internhub/internal/metrics"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	NATSSubject    = "notifications.outbound"
	NATSQueueGroup = "internhub-notifier"
)

func ConnectNATS(url string, timeout time.Duration) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("internhub"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(url, opts...)
}

type NATSDispatcher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSDispatcher(conn *nats.Conn, logger *zap.Logger) *NATSDispatcher {
	return &NATSDispatcher{conn: conn, logger: logger}
}

func (d *NATSDispatcher) Dispatch(_ context.Context, n Notification) {
	if !accept(d.logger, n) {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		metrics.Notification(string(n.Kind), metrics.OutcomeFailed)
		d.logger.Error("failed to encode notification", zap.String("kind", string(n.Kind)), zap.Error(err))
		return
	}
	if err := d.conn.Publish(NATSSubject, data); err != nil {
		metrics.Notification(string(n.Kind), metrics.OutcomeFailed)
		d.logger.Error("failed to publish notification",
			zap.String("id", n.ID),
			zap.String("subject", NATSSubject),
			zap.Error(err))
		return
	}
	metrics.Notification(string(n.Kind), metrics.OutcomeQueued)
}

// NATSSubscriber delivers notifications published on NATSSubject. Instances
// share a queue group so each message is delivered once.
type NATSSubscriber struct {
	conn      *nats.Conn
	deliverer *Deliverer
	logger    *zap.Logger
	sub       *nats.Subscription
}

func NewNATSSubscriber(conn *nats.Conn, deliverer *Deliverer, logger *zap.Logger) *NATSSubscriber {
	return &NATSSubscriber{conn: conn, deliverer: deliverer, logger: logger}
}

func (s *NATSSubscriber) Start() error {
	sub, err := s.conn.QueueSubscribe(NATSSubject, NATSQueueGroup, s.handle)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", NATSSubject, err)
	}
	s.sub = sub
	s.logger.Info("subscribed to notifications", zap.String("subject", NATSSubject))
	return nil
}

func (s *NATSSubscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Drain()
}

func (s *NATSSubscriber) handle(msg *nats.Msg) {
	var n Notification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		s.logger.Error("failed to decode notification", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	s.deliverer.deliverAndLog(context.Background(), n)
}
