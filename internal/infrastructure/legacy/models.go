package legacy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// weightRow tabla heredada weights: item_id es el material y timestamp la fecha de alta.
type weightRow struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	ItemID      *int64          `gorm:"column:item_id;index"`
	ItemName    string          `gorm:"column:item_name;size:200"`
	TotalWeight decimal.Decimal `gorm:"column:total_weight;type:decimal(14,3)"`
	Unit        string          `gorm:"column:unit;size:10;default:kg"`
	BatchNumber string          `gorm:"column:batch_number;size:100"`
	Source      string          `gorm:"column:source;size:200"`
	Destination string          `gorm:"column:destination;size:200"`
	Notes       string          `gorm:"column:notes;type:text"`
	Status      string          `gorm:"column:status;size:20;index;default:pending"`
	ApprovedBy  *string         `gorm:"column:approved_by;size:64"`
	ApprovedAt  *time.Time      `gorm:"column:approved_at"`
	Resolution  *string         `gorm:"column:resolution;type:text"`
	RecordedBy  string          `gorm:"column:recorded_by;size:64;index"`
	Timestamp   time.Time       `gorm:"column:timestamp;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (weightRow) TableName() string { return "weights" }

func weightFromEntity(r *entity.WeightRecord) weightRow {
	return weightRow{
		ID:          r.ID,
		ItemID:      r.MaterialID,
		ItemName:    r.ItemName,
		TotalWeight: r.TotalWeight,
		Unit:        r.Unit,
		BatchNumber: r.BatchNumber,
		Source:      r.Source,
		Destination: r.Destination,
		Notes:       r.Notes,
		Status:      r.Status,
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  r.ApprovedAt,
		Resolution:  r.Resolution,
		RecordedBy:  r.RecordedBy,
		Timestamp:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (w weightRow) toEntity() *entity.WeightRecord {
	unit := w.Unit
	if unit == "" {
		unit = entity.UnitKilogram
	}
	return &entity.WeightRecord{
		ID:          w.ID,
		MaterialID:  w.ItemID,
		ItemName:    w.ItemName,
		TotalWeight: w.TotalWeight,
		Unit:        unit,
		BatchNumber: w.BatchNumber,
		Source:      w.Source,
		Destination: w.Destination,
		Notes:       w.Notes,
		Status:      w.Status,
		ApprovedBy:  w.ApprovedBy,
		ApprovedAt:  w.ApprovedAt,
		Resolution:  w.Resolution,
		RecordedBy:  w.RecordedBy,
		CreatedAt:   w.Timestamp,
		UpdatedAt:   w.UpdatedAt,
	}
}

// issueRow tabla heredada issues: user_id es el reportante, type el tipo y resolver_id quien resolvió.
type issueRow struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"column:title;size:200"`
	Description string     `gorm:"column:description;type:text"`
	Type        string     `gorm:"column:type;size:50"`
	Priority    string     `gorm:"column:priority;size:20;default:medium"`
	Status      string     `gorm:"column:status;size:20;index;default:pending"`
	UserID      string     `gorm:"column:user_id;size:64;index"`
	ResolverID  *string    `gorm:"column:resolver_id;size:64"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
	Resolution  *string    `gorm:"column:resolution;type:text"`
	RecordID    *int64     `gorm:"column:record_id;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (issueRow) TableName() string { return "issues" }

func issueFromEntity(i *entity.Issue) issueRow {
	return issueRow{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Type:        i.IssueType,
		Priority:    i.Priority,
		Status:      i.Status,
		UserID:      i.ReporterID,
		ResolverID:  i.ResolvedBy,
		ResolvedAt:  i.ResolvedAt,
		Resolution:  i.Resolution,
		RecordID:    i.RecordID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (r issueRow) toEntity() *entity.Issue {
	priority := r.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	return &entity.Issue{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		IssueType:   r.Type,
		Priority:    priority,
		Status:      r.Status,
		ReporterID:  r.UserID,
		ResolvedBy:  r.ResolverID,
		ResolvedAt:  r.ResolvedAt,
		Resolution:  r.Resolution,
		RecordID:    r.RecordID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type materialRow struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Name           string          `gorm:"column:name;size:200;uniqueIndex"`
	StandardWeight decimal.Decimal `gorm:"column:standard_weight;type:decimal(14,3)"`
	PricePerUnit   decimal.Decimal `gorm:"column:price_per_unit;type:decimal(14,2)"`
	Unit           string          `gorm:"column:unit;size:10;default:kg"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (materialRow) TableName() string { return "ref_items" }

func materialFromEntity(m *entity.Material) materialRow {
	return materialRow{
		ID:             m.ID,
		Name:           m.Name,
		StandardWeight: m.StandardWeight,
		PricePerUnit:   m.PricePerUnit,
		Unit:           m.Unit,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (m materialRow) toEntity() *entity.Material {
	return &entity.Material{
		ID:             m.ID,
		Name:           m.Name,
		StandardWeight: m.StandardWeight,
		PricePerUnit:   m.PricePerUnit,
		Unit:           m.Unit,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type userRow struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Email        string    `gorm:"column:email;size:200;uniqueIndex"`
	PasswordHash string    `gorm:"column:password;size:200"`
	Name         string    `gorm:"column:name;size:200"`
	Role         string    `gorm:"column:role;size:20"`
	Status       string    `gorm:"column:status;size:20;default:active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (userRow) TableName() string { return "users" }

func userFromEntity(u *entity.User) userRow {
	return userRow{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (u userRow) toEntity() *entity.User {
	return &entity.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type deviceReadingRow struct {
	DeviceID  string    `gorm:"column:device_id;primaryKey;size:100"`
	Weight    string    `gorm:"column:weight;size:50"`
	RFIDID    string    `gorm:"column:rfid_id;size:100"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (deviceReadingRow) TableName() string { return "device_readings" }

type rfidLogRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	RecordID  int64     `gorm:"column:record_id;index"`
	RFIDID    string    `gorm:"column:rfid_id;size:100"`
	DeviceID  string    `gorm:"column:device_id;size:100"`
	ScannedAt time.Time `gorm:"column:scanned_at"`
}

func (rfidLogRow) TableName() string { return "rfid_logs" }

type statusChangeRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	EntityType string    `gorm:"column:entity_type;size:20;index:idx_status_entity"`
	EntityID   int64     `gorm:"column:entity_id;index:idx_status_entity"`
	OldStatus  string    `gorm:"column:old_status;size:20"`
	NewStatus  string    `gorm:"column:new_status;size:20"`
	ChangedBy  string    `gorm:"column:changed_by;size:64"`
	Note       string    `gorm:"column:note;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (statusChangeRow) TableName() string { return "status_changes" }
