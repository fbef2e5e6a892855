package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract statuses
const (
	StatusDraft            = "draft"
	StatusPublished        = "published"
	StatusArchived         = "archived"
	StatusSigned           = "signed"
	StatusPendingSignature = "pending_signature"
)

// ContractStatuses lists every valid contract status
var ContractStatuses = []string{
	StatusDraft, StatusPublished, StatusArchived, StatusSigned, StatusPendingSignature,
}

// Contract is the mutable current state of a contract.
// Version always equals the highest stored version number, or 1 when none is stored.
type Contract struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	Title        string              `gorm:"size:255;not null" json:"title"`
	UserID       string              `gorm:"size:64;not null;index:idx_contracts_user" json:"user_id"`
	ContractType string              `gorm:"size:64;not null" json:"contract_type"`
	Status       string              `gorm:"size:32;not null;index" json:"status"`
	Content      string              `json:"content"`
	FormData     JSONMap             `json:"form_data"`
	Metadata     JSONMap             `json:"metadata"`
	TemplateID   *string             `gorm:"size:36" json:"template_id"`
	IsTemplate   bool                `gorm:"not null" json:"is_template"`
	Version      int                 `gorm:"not null" json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Versions     []ContractVersion   `gorm:"foreignKey:ContractID" json:"versions,omitempty"`
	Signatures   []ContractSignature `gorm:"foreignKey:ContractID" json:"signatures,omitempty"`
}

// TableName overrides the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate assigns an opaque id
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ValidStatus reports whether s is a known contract status
func ValidStatus(s string) bool {
	for _, v := range ContractStatuses {
		if v == s {
			return true
		}
	}
	return false
}
