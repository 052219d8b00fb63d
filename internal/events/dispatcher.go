package events

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

// Dispatcher is the event sink for lifecycle transitions. Use cases publish
// only after their transaction has committed, so the audit trail never
// records a transition that was rolled back. Publication is asynchronous and
// lossy under pressure: a full queue drops the event rather than blocking
// the request.
type Dispatcher struct {
	db    *gorm.DB
	log   *zap.Logger
	queue chan domain.Event
}

func NewDispatcher(db *gorm.DB, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		db:    db,
		log:   log,
		queue: make(chan domain.Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.persist(ev); err != nil {
			d.log.Error("failed to persist event",
				zap.String("type", string(ev.Type)),
				zap.Uint("appointment_id", ev.Appointment.ID),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) persist(ev domain.Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	actorID := ev.ActorID
	entityID := ev.Appointment.ID

	entry := models.AuditLog{
		SalonID:  ev.SalonID,
		UserID:   &actorID,
		Action:   string(ev.Type),
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: metaJSON,
	}

	if err := d.db.Create(&entry).Error; err != nil {
		return err
	}

	d.log.Info("event",
		zap.String("type", string(ev.Type)),
		zap.Uint("salon_id", ev.SalonID),
		zap.Uint("appointment_id", ev.Appointment.ID),
		zap.String("status", ev.Appointment.Status),
		zap.Uint("actor_id", ev.ActorID),
	)

	return nil
}

func (d *Dispatcher) Publish(ev domain.Event) {
	select {
	case d.queue <- ev:
	default:
		// Never let a full audit queue break the API.
		d.log.Warn("event queue full, dropping event",
			zap.String("type", string(ev.Type)),
			zap.Uint("appointment_id", ev.Appointment.ID),
		)
	}
}

var _ domain.EventSink = (*Dispatcher)(nil)
