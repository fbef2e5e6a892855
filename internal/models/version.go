package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractVersion is an immutable snapshot of a contract.
// VersionNumber is unique per contract.
type ContractVersion struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	ContractID        string    `gorm:"size:36;not null;uniqueIndex:idx_contract_version,priority:1" json:"contract_id"`
	UserID            string    `gorm:"size:64;not null" json:"user_id"`
	VersionNumber     int       `gorm:"not null;uniqueIndex:idx_contract_version,priority:2" json:"version_number"`
	Content           string    `json:"content"`
	FormData          JSONMap   `json:"form_data"`
	Name              string    `gorm:"size:255" json:"name"`
	ChangeDescription string    `json:"change_description"`
	Metadata          JSONMap   `json:"metadata"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName overrides the table name for ContractVersion
func (ContractVersion) TableName() string {
	return "contract_versions"
}

// BeforeCreate assigns an opaque id
func (v *ContractVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
