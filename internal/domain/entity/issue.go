package entity

import "time"

// Estados de una incidencia.
const (
	IssueStatusPending  = "pending"
	IssueStatusResolved = "resolved"
)

// Prioridades de incidencia.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Issue es una incidencia reportada por un usuario, opcionalmente ligada a un registro de peso.
// Su ciclo de vida (pending → resolved) es independiente del estado de aprobación del registro.
type Issue struct {
	ID          int64
	Title       string
	Description string
	IssueType   string
	Priority    string
	Status      string
	ReporterID  string
	ResolvedBy  *string
	ResolvedAt  *time.Time
	Resolution  *string
	RecordID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// ReporterName no se persiste; se completa al listar.
	ReporterName string
}

// ValidIssueStatus valida un estado de incidencia.
func ValidIssueStatus(s string) bool {
	return s == IssueStatusPending || s == IssueStatusResolved
}

// ValidPriority valida una prioridad.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// IssueFilter filtros de igualdad para listar incidencias.
type IssueFilter struct {
	Status     string
	ReporterID string
	RecordID   *int64
	Limit      int
	Offset     int
}
