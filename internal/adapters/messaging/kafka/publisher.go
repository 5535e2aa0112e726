package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/config"
)

const (
	eventTypeHeader     = "event-type"
	checkInRecordedType = "attendance.checkin.recorded"
	defaultClientID     = "pointage"
	flushTimeout        = 10 * time.Second
	deliveryTimeout     = 30 * time.Second
)

type producer interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// Publisher は記録済みの打刻を Kafka トピックへ送信する attendance.Publisher の実装です。
// レコードのキーは協力者 ID で、同一協力者の打刻は同じパーティションに順序どおり並びます。
// 送信は非同期で、ブローカーの失敗はリクエストへ返さずログに残します。
type Publisher struct {
	client producer
	topic  string
	logger *slog.Logger
}

// CheckInMessage は送信するメッセージ本文です。
type CheckInMessage struct {
	EventID        string    `json:"event_id"`
	CollaboratorID string    `json:"collaborator_id"`
	CIN            string    `json:"cin"`
	LastName       string    `json:"last_name"`
	FirstName      string    `json:"first_name"`
	Kind           string    `json:"kind"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewPublisher は設定から franz-go クライアントを生成し、トピックが無ければ作成します。
func NewPublisher(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Publisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(deliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: create client: %w", err)
	}

	if err := ensureTopic(ctx, kadm.NewClient(client), cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}

	return newPublisher(client, cfg.Topic, logger), nil
}

func newPublisher(client producer, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, topic: topic, logger: logger}
}

func ensureTopic(ctx context.Context, admin *kadm.Client, topic string) error {
	resp, err := admin.CreateTopic(ctx, -1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("kafka: create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("kafka: create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// Publish は打刻1件を送信キューへ積み、配送を待たずに戻ります。
// エラーを返すのはメッセージを組み立てられなかった場合だけです。
func (p *Publisher) Publish(ctx context.Context, event *attendance.CheckInEvent, collaborator attendance.CollaboratorRef) error {
	record, err := p.record(event, collaborator)
	if err != nil {
		return err
	}

	eventID := event.ID
	collaboratorID := event.CollaboratorID
	// リクエストのキャンセルで送信中のレコードを破棄しない。
	p.client.TryProduce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("kafka: produce check-in failed",
				"event_id", eventID,
				"collaborator_id", collaboratorID,
				"topic", p.topic,
				"error", err,
			)
		}
	})
	return nil
}

// Close は送信中のレコードを待ってからクライアントを閉じます。
func (p *Publisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka: flush pending check-ins", "topic", p.topic, "error", err)
	}
	p.client.Close()
}

func (p *Publisher) record(event *attendance.CheckInEvent, collaborator attendance.CollaboratorRef) (*kgo.Record, error) {
	payload, err := json.Marshal(CheckInMessage{
		EventID:        event.ID,
		CollaboratorID: event.CollaboratorID,
		CIN:            collaborator.CIN,
		LastName:       collaborator.LastName,
		FirstName:      collaborator.FirstName,
		Kind:           string(event.Kind),
		OccurredAt:     event.OccurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka: encode check-in: %w", err)
	}

	return &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(event.CollaboratorID),
		Value:     payload,
		Timestamp: event.OccurredAt,
		Headers:   []kgo.RecordHeader{{Key: eventTypeHeader, Value: []byte(checkInRecordedType)}},
	}, nil
}
