// Package notify delivers fire-and-forget registration notifications.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/damoang/eventhub-backend/pkg/tracing"
	"github.com/segmentio/kafka-go"
)

// Notification types
const (
	TypeRegistrationCreated   = "registration.created"
	TypeRegistrationCancelled = "registration.cancelled"
	TypeCheckoutCompleted     = "checkout.completed"
)

// Notification is the payload sent to the notification service
type Notification struct {
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	EventID    uint64    `json:"event_id"`
	Offering   string    `json:"offering,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier sends notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}

// New builds the notifier selected by cfg.Transport
func New(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Transport {
	case "":
		return Noop{}, nil
	case "http":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("notify: http transport needs an endpoint")
		}
		return NewHTTPNotifier(cfg.Endpoint, tracing.NewHTTPClient(cfg.Timeout)), nil
	case "kafka":
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("notify: kafka transport needs brokers and topic")
		}
		return NewKafkaNotifier(cfg.Brokers, cfg.Topic), nil
	}
	return nil, fmt.Errorf("notify: unknown transport %q", cfg.Transport)
}

// Noop discards notifications
type Noop struct{}

func (Noop) Notify(context.Context, Notification) error { return nil }
func (Noop) Close() error                               { return nil }

// HTTPNotifier POSTs JSON to an endpoint
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPNotifier 생성자
func NewHTTPNotifier(endpoint string, client *http.Client) *HTTPNotifier {
	return &HTTPNotifier{endpoint: endpoint, client: client}
}

// Notify sends n; any non-2xx status is an error
func (h *HTTPNotifier) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: status %d", resp.StatusCode)
	}
	return nil
}

func (h *HTTPNotifier) Close() error { return nil }

// KafkaNotifier publishes to a topic keyed by user id
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier 생성자
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

// Notify writes n synchronously
func (k *KafkaNotifier) Notify(ctx context.Context, n Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(n.UserID, 10)),
		Value: value,
		Time:  n.OccurredAt,
	})
}

func (k *KafkaNotifier) Close() error { return k.writer.Close() }
