package ws

import (
	"github.com/ignatzorin/escrow-backend/internal/service"
)

// EventAdapter адаптирует Hub к интерфейсу публикации событий сервисного слоя.
type EventAdapter struct {
	hub *Hub
}

// NewEventAdapter создаёт новый адаптер.
func NewEventAdapter(hub *Hub) *EventAdapter {
	return &EventAdapter{hub: hub}
}

// PublishEscrowEvent реализует интерфейс service.EventPublisher.
func (a *EventAdapter) PublishEscrowEvent(event service.EscrowEvent) {
	_ = a.hub.BroadcastAccountEvent(event.AccountID, event.EventType, event)
}
