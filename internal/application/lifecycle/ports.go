package lifecycle

import (
	"context"
	"time"
)

// Tipos de evento emitidos en los puntos de transición. Los consume el
// servicio de notificaciones (fuera de alcance: aquí solo el puerto).
const (
	EventEmployeeCreated   = "employee.created"
	EventOffboardingClosed = "offboarding.closed"
)

// Event payload publicado en cada transición relevante del ciclo de vida.
type Event struct {
	Type           string    `json:"type"`
	OrganizationID string    `json:"organization_id"`
	EntityID       string    `json:"entity_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher puerto hacia el bus de eventos. La clave agrupa los eventos
// de una misma entidad en la misma partición.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// NopPublisher descarta los eventos (tests y despliegues sin broker).
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }
