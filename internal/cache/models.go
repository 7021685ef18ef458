package cache

import (
	"time"

	"gorm.io/gorm"

	"kaskita/internal/uuid"
)

// Entry is one cached snapshot slot, stored as JSON.
type Entry struct {
	Key        string `gorm:"column:cache_key;primaryKey;size:191"`
	Scope      string `gorm:"size:64;not null;index:idx_cache_entries_scope"`
	Payload    string `gorm:"type:text;not null"`
	Generation int64  `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName pins the table name used by the migrations.
func (Entry) TableName() string { return "cache_entries" }

// PendingImage is an attachment whose upload failed after its transaction was
// saved. Data is the prepared JPEG, base64-encoded.
type PendingImage struct {
	ID            string `gorm:"primaryKey;size:36"`
	TransactionID string `gorm:"size:64;not null;index:idx_pending_images_transaction"`
	Table         string `gorm:"column:table_name;size:64;not null"`
	Filename      string `gorm:"size:255;not null"`
	Data          string `gorm:"type:text;not null"`
	Attempts      int    `gorm:"not null;default:0"`
	LastError     string `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName pins the table name used by the migrations.
func (PendingImage) TableName() string { return "pending_images" }

// BeforeCreate assigns a UUIDv7 to new rows.
func (p *PendingImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// SessionRecord holds the sealed session. There is at most one row.
type SessionRecord struct {
	ID        int    `gorm:"primaryKey;autoIncrement:false"`
	Sealed    string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name used by the migrations.
func (SessionRecord) TableName() string { return "session_records" }

// AllModels lists every table for AutoMigrate in tests.
var AllModels = []interface{}{
	&Entry{},
	&PendingImage{},
	&SessionRecord{},
}
