// employees.go
//
// A contract lifecycle data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of contractsdb.
// contractsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// contractsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with contractsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"time"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/types"
	"gorm.io/gorm"
)

// EmployeeInput is the body accepted when creating an employee
type EmployeeInput struct {
	FullName     string     `json:"full_name"`
	Position     string     `json:"position"`
	Email        string     `json:"email"`
	EmployeeFrom *time.Time `json:"employee_from"`
}

// EmployeeUpdate carries the fields present in an employee update
type EmployeeUpdate struct {
	FullName     *string    `json:"full_name"`
	Position     *string    `json:"position"`
	Email        *string    `json:"email"`
	EmployeeFrom *time.Time `json:"employee_from"`
}

// EmployeeContractFilter selects associations. Empty fields are ignored.
type EmployeeContractFilter struct {
	EmployeeID string
	ContractID string
	BusinessID string
}

func (f EmployeeContractFilter) empty() bool {
	return f.EmployeeID == "" && f.ContractID == "" && f.BusinessID == ""
}

// CreateEmployee adds an employee to a business account
func CreateEmployee(ctx context.Context, db *gorm.DB, businessID string, in EmployeeInput) (*models.Employee, error) {
	employee := &models.Employee{
		BusinessID:   businessID,
		FullName:     in.FullName,
		Position:     in.Position,
		Email:        in.Email,
		EmployeeFrom: in.EmployeeFrom,
	}
	if err := db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

// GetEmployeeByID returns an employee, NotFound if absent or malformed
func GetEmployeeByID(ctx context.Context, db *gorm.DB, id string) (*models.Employee, error) {
	return getEmployee(db.WithContext(ctx), id)
}

func getEmployee(db *gorm.DB, id string) (*models.Employee, error) {
	if !validID(id) {
		return nil, types.NotFound("Employee not found")
	}

	var employee models.Employee
	if err := quiet(db).Where("id = ?", id).First(&employee).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("Employee not found")
		}
		return nil, err
	}
	return &employee, nil
}

// ListEmployees returns the employees of a business, by name
func ListEmployees(ctx context.Context, db *gorm.DB, businessID string) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := quiet(db.WithContext(ctx)).
		Where("business_id = ?", businessID).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

// UpdateEmployeeByID overwrites the fields present in upd
func UpdateEmployeeByID(ctx context.Context, db *gorm.DB, id string, upd EmployeeUpdate) (*models.Employee, error) {
	var employee *models.Employee

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := getEmployee(tx, id)
		if err != nil {
			return err
		}

		if upd.FullName != nil {
			e.FullName = *upd.FullName
		}
		if upd.Position != nil {
			e.Position = *upd.Position
		}
		if upd.Email != nil {
			e.Email = *upd.Email
		}
		if upd.EmployeeFrom != nil {
			e.EmployeeFrom = upd.EmployeeFrom
		}

		if err := tx.Save(e).Error; err != nil {
			return err
		}
		employee = e
		return nil
	})

	return employee, err
}

// DeleteEmployeeByID removes an employee and its contract associations
func DeleteEmployeeByID(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := getEmployee(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", e.ID).Delete(&models.EmployeeContract{}).Error; err != nil {
			return err
		}
		return tx.Delete(e).Error
	})
}

// CreateEmployeeContract associates an employee with a contract.
// Both must exist; a repeated pair fails with Conflict.
func CreateEmployeeContract(ctx context.Context, db *gorm.DB, employeeID, contractID string) (*models.EmployeeContract, error) {
	db = db.WithContext(ctx)

	if _, err := getEmployee(db, employeeID); err != nil {
		return nil, err
	}
	if _, err := GetContractByID(ctx, db, contractID, GetOptions{}); err != nil {
		return nil, err
	}

	association := &models.EmployeeContract{
		EmployeeID: employeeID,
		ContractID: contractID,
	}
	if err := db.Create(association).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, types.Conflict("Employee is already assigned to this contract")
		}
		return nil, err
	}

	return association, nil
}

// QueryEmployeeContracts returns associations with their employee and contract resolved
func QueryEmployeeContracts(ctx context.Context, db *gorm.DB, filter EmployeeContractFilter) ([]models.EmployeeContract, error) {
	query := quiet(db.WithContext(ctx)).
		Model(&models.EmployeeContract{}).
		Preload("Employee").
		Preload("Contract")

	if filter.EmployeeID != "" {
		query = query.Where("employee_contracts.employee_id = ?", filter.EmployeeID)
	}
	if filter.ContractID != "" {
		query = query.Where("employee_contracts.contract_id = ?", filter.ContractID)
	}
	if filter.BusinessID != "" {
		query = query.Joins("JOIN employees ON employees.id = employee_contracts.employee_id").
			Where("employees.business_id = ?", filter.BusinessID)
	}

	associations := []models.EmployeeContract{}
	err := query.Order("employee_contracts.created_at DESC").Find(&associations).Error
	return associations, err
}

// DeleteEmployeeContracts removes the matching associations, NotFound when none match
func DeleteEmployeeContracts(ctx context.Context, db *gorm.DB, filter EmployeeContractFilter) (int64, error) {
	if filter.empty() {
		return 0, types.InvalidArgument("An employee, contract or business filter is required")
	}

	db = db.WithContext(ctx)
	query := db.Model(&models.EmployeeContract{})
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ContractID != "" {
		query = query.Where("contract_id = ?", filter.ContractID)
	}
	if filter.BusinessID != "" {
		query = query.Where("employee_id IN (?)",
			db.Model(&models.Employee{}).Select("id").Where("business_id = ?", filter.BusinessID))
	}

	result := query.Delete(&models.EmployeeContract{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, types.NotFound("Employee contract not found")
	}

	return result.RowsAffected, nil
}
