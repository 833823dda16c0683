package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"techconnect/internal/domain/registration"
)

const produceTimeout = 5 * time.Second

// Producer is the part of a franz-go client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher writes failures as JSON records keyed by user id, so all
// failures of one account land on the same partition.
type KafkaPublisher struct {
	client Producer
	topic  string
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("audit: kafka brokers and topic are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	return newKafkaPublisher(client, topic, log), nil
}

func newKafkaPublisher(client Producer, topic string, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaPublisher{client: client, topic: topic, log: log.Named("audit")}
}

func (p *KafkaPublisher) ReportFollowUpFailure(ctx context.Context, f registration.FollowUpFailure) error {
	value, err := json.Marshal(recordOf(f))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), produceTimeout)
	defer cancel()

	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(f.UserID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "kind", Value: []byte(f.Kind)},
		},
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		p.log.Error("publish follow-up failure", zap.String("session_id", f.SessionID), zap.Error(err))
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}
