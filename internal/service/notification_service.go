package service

import (
	"context"
	"time"

	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/logger"
	"finverse-be/internal/websocket"
	"finverse-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// INotificationService bridges bus events to the websocket hub.
type INotificationService interface {
	Start(ctx context.Context) error
}

type notificationService struct {
	bus    *events.Bus
	hub    *websocket.Hub
	logger logger.ILogger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(bus *events.Bus, hub *websocket.Hub, log logger.ILogger) INotificationService {
	return &notificationService{
		bus:    bus,
		hub:    hub,
		logger: log,
	}
}

// Start subscribes to every pushed event type and relays each event until the
// context is cancelled or the bus closes.
func (ns *notificationService) Start(ctx context.Context) error {
	topics := []string{
		events.TypeComparisonSetChanged,
		events.TypeComparisonUpdated,
		events.TypeAssistantUnavailable,
		events.TypeSummaryFailed,
	}
	for _, topic := range topics {
		messages, err := ns.bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go ns.consume(messages)
	}
	return nil
}

func (ns *notificationService) consume(messages <-chan *message.Message) {
	for msg := range messages {
		evt, err := events.Decode(msg)
		if err != nil {
			ns.logger.Warn("NotificationService", "Dropping undecodable event", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}
		ns.dispatch(evt)
		msg.Ack()
	}
}

// dispatch converts one event into a notification push. Comparison set
// events concern every surface; failures target the surface that caused
// them when the payload names one.
func (ns *notificationService) dispatch(evt *events.BaseEvent) {
	notification := entity.Notification{
		ID:        uuid.New(),
		TypeCode:  evt.Type,
		Title:     notificationTitle(evt.Type),
		Message:   notificationMessage(evt.Type),
		Metadata:  evt.Data,
		CreatedAt: time.Now(),
	}

	if surfaceId, ok := evt.Data["surface_id"].(string); ok && surfaceId != "" {
		ns.hub.Send(surfaceId, notification)
		return
	}
	ns.hub.Broadcast(notification)
}

func notificationTitle(eventType string) string {
	switch eventType {
	case events.TypeComparisonSetChanged:
		return "Comparison updated"
	case events.TypeComparisonUpdated:
		return "Comparison refreshed"
	case events.TypeAssistantUnavailable:
		return "Assistant unavailable"
	case events.TypeSummaryFailed:
		return "Summary failed"
	default:
		return "Notification"
	}
}

func notificationMessage(eventType string) string {
	switch eventType {
	case events.TypeComparisonSetChanged:
		return "The shared comparison set changed."
	case events.TypeComparisonUpdated:
		return "A fresh comparison table is available."
	case events.TypeAssistantUnavailable:
		return "The assistant could not answer, please try again."
	case events.TypeSummaryFailed:
		return "The comparison summary could not be generated."
	default:
		return ""
	}
}
