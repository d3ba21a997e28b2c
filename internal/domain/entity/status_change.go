package entity

import "time"

// Tipos de entidad con historial de estados.
const (
	EntityWeightRecord = "record"
	EntityIssue        = "issue"
)

// StatusChange fila append-only del historial de transiciones de estado.
type StatusChange struct {
	ID         int64
	EntityType string
	EntityID   int64
	OldStatus  string
	NewStatus  string
	ChangedBy  string
	Note       string
	CreatedAt  time.Time
}
