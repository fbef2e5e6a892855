package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signature statuses
const (
	SignaturePending   = "pending"
	SignatureCompleted = "completed"
	SignatureRejected  = "rejected"
	SignatureExpired   = "expired"
)

// ContractSignature records one signature event.
// UserID is the system account that recorded it, SignerName/SignerEmail describe the physical signer.
type ContractSignature struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ContractID    string    `gorm:"size:36;not null;index" json:"contract_id"`
	UserID        string    `gorm:"size:64;not null" json:"user_id"`
	SignatureURL  string    `gorm:"size:1024" json:"signature_url"`
	SignatureDate time.Time `gorm:"not null" json:"signature_date"`
	SignerName    string    `gorm:"size:255" json:"signer_name"`
	SignerEmail   string    `gorm:"size:255" json:"signer_email"`
	Status        string    `gorm:"size:32;not null" json:"status"`
	Metadata      JSONMap   `json:"metadata"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides the table name for ContractSignature
func (ContractSignature) TableName() string {
	return "contract_signatures"
}

// BeforeCreate assigns an opaque id
func (s *ContractSignature) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
