package sink

import (
	"encoding/json"
	"log"

	"github.com/eventhub/datagen/internal/models"
)

// RecordPublisher is the slice of pkg/rabbitmq.Publisher the sink needs.
type RecordPublisher interface {
	Publish(routingKey string, messageID string, payload any) error
}

// PublishingSink wraps another Sink and announces every durable append on a
// topic exchange as "<entity>.appended", so downstream consumers can ingest
// records while the pipeline is still running. Publish failures are logged and
// swallowed: the sink append already succeeded and generation must not stall
// on the broker.
type PublishingSink struct {
	inner Sink
	pub   RecordPublisher
}

func NewPublishingSink(inner Sink, pub RecordPublisher) *PublishingSink {
	return &PublishingSink{inner: inner, pub: pub}
}

func (s *PublishingSink) Append(entity models.EntityType, record models.Record) error {
	if err := s.inner.Append(entity, record); err != nil {
		return err
	}
	if s.pub != nil {
		if err := s.pub.Publish(string(entity)+".appended", record.RecordID(), record); err != nil {
			log.Printf("[Sink] publish %s %s: %v", entity, record.RecordID(), err)
		}
	}
	return nil
}

func (s *PublishingSink) ReadAll(entity models.EntityType) ([]json.RawMessage, error) {
	return s.inner.ReadAll(entity)
}

func (s *PublishingSink) Clear(entity models.EntityType) error {
	return s.inner.Clear(entity)
}

func (s *PublishingSink) Count(entity models.EntityType) (int, error) {
	return s.inner.Count(entity)
}
