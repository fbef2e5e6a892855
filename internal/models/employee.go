package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee belongs to a business account
type Employee struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	BusinessID   string     `gorm:"size:64;not null;index" json:"business_id"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Position     string     `gorm:"size:255" json:"position"`
	Email        string     `gorm:"size:255" json:"email"`
	EmployeeFrom *time.Time `json:"employee_from"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName overrides the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate assigns an opaque id
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EmployeeContract associates an employee with a contract. The pair is unique.
type EmployeeContract struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string    `gorm:"size:36;not null;uniqueIndex:idx_employee_contract,priority:1" json:"employee_id"`
	ContractID string    `gorm:"size:36;not null;uniqueIndex:idx_employee_contract,priority:2" json:"contract_id"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the table name for EmployeeContract
func (EmployeeContract) TableName() string {
	return "employee_contracts"
}

// BeforeCreate assigns an opaque id
func (ec *EmployeeContract) BeforeCreate(tx *gorm.DB) error {
	if ec.ID == "" {
		ec.ID = uuid.NewString()
	}
	return nil
}
