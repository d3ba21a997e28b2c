package dto

import "time"

// CreateIssueRequest entrada para reportar una incidencia.
// Acepta "type" (nombre heredado) o "issue_type".
type CreateIssueRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,min=1,max=4000"`
	Type        string `json:"type" validate:"max=50"`
	IssueType   string `json:"issue_type" validate:"max=50"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	RecordID    *int64 `json:"record_id" validate:"omitempty,gt=0"`
}

// UpdateIssueRequest actualización parcial de una incidencia.
type UpdateIssueRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1,max=4000"`
	IssueType   *string `json:"issue_type" validate:"omitempty,max=50"`
	Type        *string `json:"type" validate:"omitempty,max=50"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending resolved"`
	Resolution  *string `json:"resolution" validate:"omitempty,max=4000"`
	ResolverID  *string `json:"resolver_id" validate:"omitempty,max=64"`
}

// IssueResponse salida de una incidencia.
type IssueResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	IssueType    string     `json:"issue_type"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	ReporterID   string     `json:"reporter_id"`
	ReporterName string     `json:"reporter_name,omitempty"`
	ResolvedBy   *string    `json:"resolved_by"`
	ResolvedAt   *time.Time `json:"resolved_at"`
	Resolution   *string    `json:"resolution"`
	RecordID     *int64     `json:"record_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IssueListResponse lista paginada de incidencias.
type IssueListResponse struct {
	Items []IssueResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
