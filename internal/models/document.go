package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentType represents the kind of vehicle document being tracked
type DocumentType string

const (
	DocumentInsurance  DocumentType = "insurance"
	DocumentInspection DocumentType = "inspection"
	DocumentLicensing  DocumentType = "licensing"
)

// Label returns the human-readable name used in notification texts
func (t DocumentType) Label() string {
	switch t {
	case DocumentInsurance:
		return "insurance policy"
	case DocumentInspection:
		return "vehicle inspection"
	case DocumentLicensing:
		return "vehicle licensing"
	default:
		return string(t)
	}
}

// Document represents a vehicle document with an expiry date. Documents are
// managed by the surrounding platform and are pure scan input here: the
// engine never mutates them.
type Document struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string       `gorm:"size:36;not null;index" json:"owner_id" binding:"required"`
	VehicleID *string      `gorm:"size:36" json:"vehicle_id,omitempty"`
	Type      DocumentType `gorm:"size:20;not null" json:"type" binding:"required,oneof=insurance inspection licensing"`
	Number    string       `gorm:"size:64" json:"number,omitempty"` // policy or registration number, shown in notifications
	ExpiresAt time.Time    `gorm:"not null;index" json:"expires_at" binding:"required"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new document
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}
	return nil
}

// BeforeSave hook is called before saving the document
func (d *Document) BeforeSave(tx *gorm.DB) error {
	d.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Document model
func (Document) TableName() string {
	return "document"
}
