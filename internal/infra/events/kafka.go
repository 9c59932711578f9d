package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Writer is the part of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AppointmentEvent is the payload published for every appointment write.
type AppointmentEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	TenantID       uint      `json:"tenant_id"`
	AppointmentID  uint      `json:"appointment_id"`
	ProfessionalID uint      `json:"professional_id"`
	Status         string    `json:"status"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher struct {
	writer Writer
	logger *logging.Logger
	now    func() time.Time
}

func NewPublisher(w Writer, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{writer: w, logger: logger, now: time.Now}
}

// NewKafkaPublisher returns nil when no broker is configured; a nil
// publisher drops events.
func NewKafkaPublisher(brokers []string, topic string, logger *logging.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Discard()
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Error("appointment events not delivered", "count", len(msgs), "error", err)
			}
		},
	}
	return NewPublisher(w, logger)
}

func (p *Publisher) Publish(ctx context.Context, ev AppointmentEvent) error {
	if p == nil {
		return nil
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	// one partition key per professional keeps its events ordered
	key := fmt.Sprintf("%d:%d", ev.TenantID, ev.ProfessionalID)

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Publisher) AppointmentChanged(ctx context.Context, ap *models.Appointment, action domain.Action) {
	if p == nil {
		return
	}

	ev := AppointmentEvent{
		ID:             uuid.NewString(),
		Type:           "appointment." + string(action),
		TenantID:       ap.TenantID,
		AppointmentID:  ap.ID,
		ProfessionalID: ap.ProfessionalID,
		Status:         ap.Status,
		StartTime:      ap.StartTime,
		EndTime:        ap.EndTime,
		OccurredAt:     p.now().UTC(),
	}

	if err := p.Publish(ctx, ev); err != nil {
		p.logger.Warn("appointment event publish failed",
			"appointment_id", ap.ID,
			"type", ev.Type,
			"error", err,
		)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

var _ domain.ChangeListener = (*Publisher)(nil)
