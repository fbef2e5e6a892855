package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template statuses
const (
	TemplateDraft     = "draft"
	TemplatePublished = "published"
	TemplateArchived  = "archived"
)

// ContractTemplate is a reusable contract body.
// System templates have no owner and are visible to everyone.
type ContractTemplate struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255;not null;index" json:"name"`
	Description  string    `json:"description"`
	Content      string    `json:"content"`
	ContractType string    `gorm:"size:64;not null" json:"contract_type"`
	Variables    JSONMap   `json:"variables"`
	Metadata     JSONMap   `json:"metadata"`
	Status       string    `gorm:"size:32;not null" json:"status"`
	IsSystem     bool      `gorm:"not null" json:"is_system"`
	UserID       *string   `gorm:"size:64;index" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for ContractTemplate
func (ContractTemplate) TableName() string {
	return "contract_templates"
}

// BeforeCreate assigns an opaque id
func (t *ContractTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID may see the template
func (t *ContractTemplate) OwnedBy(userID string) bool {
	return t.IsSystem || t.EditableBy(userID)
}

// EditableBy reports whether userID may change or delete the template.
// System templates are only written by templatectl.
func (t *ContractTemplate) EditableBy(userID string) bool {
	return t.UserID != nil && *t.UserID == userID
}
