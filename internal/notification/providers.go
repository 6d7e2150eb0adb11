package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// LogProvider writes every message to the process log.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Name() string { return "log" }

func (p *LogProvider) Send(ctx context.Context, msg Message) error {
	p.logger.InfoContext(ctx, "notification",
		"message_id", msg.ID,
		"event_type", msg.EventType,
		"recipient_id", msg.RecipientID,
		"email", msg.Email,
		"subject", msg.Subject)
	return nil
}

// WebhookProvider posts e-mail messages to an HTTP mail gateway.
type WebhookProvider struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhookProvider(url, token string) *WebhookProvider {
	return &WebhookProvider{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *WebhookProvider) Name() string { return "email-webhook" }

func (p *WebhookProvider) Send(ctx context.Context, msg Message) error {
	// recipients without an address are served by the other channels
	if msg.Email == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"channel":   "email",
		"recipient": msg.Email,
		"subject":   msg.Subject,
		"message":   msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail gateway rejected message: status %d", resp.StatusCode)
	}
	return nil
}

// MessageWriter is the part of *kafka.Writer the kafka provider needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer for a comma separated broker list. The
// topic is set per message.
func NewKafkaWriter(brokers string) *kafka.Writer {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// KafkaProvider publishes messages to a topic keyed by leave id so that the
// events of one leave stay ordered within a partition.
type KafkaProvider struct {
	writer MessageWriter
	topic  string
}

func NewKafkaProvider(writer MessageWriter, topic string) *KafkaProvider {
	return &KafkaProvider{writer: writer, topic: topic}
}

func (p *KafkaProvider) Name() string { return "kafka" }

func (p *KafkaProvider) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(msg.LeaveID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(msg.EventType)},
			{Key: "recipient_id", Value: []byte(msg.RecipientID)},
		},
	})
}

func (p *KafkaProvider) Close() error {
	return p.writer.Close()
}
