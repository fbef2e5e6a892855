// contracts.go
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
	"log"
	"math"
	"strings"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// Listing defaults
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ContractInput is the body accepted when creating a contract
type ContractInput struct {
	Title        string         `json:"title"`
	ContractType string         `json:"contract_type"`
	Status       string         `json:"status"`
	Content      string         `json:"content"`
	FormData     models.JSONMap `json:"form_data"`
	Metadata     models.JSONMap `json:"metadata"`
	TemplateID   *string        `json:"template_id"`
	IsTemplate   bool           `json:"is_template"`
}

// ContractUpdate carries the fields present in an update body. Nil fields are left untouched.
type ContractUpdate struct {
	Title             *string        `json:"title"`
	ContractType      *string        `json:"contract_type"`
	Status            *string        `json:"status"`
	Content           *string        `json:"content"`
	FormData          models.JSONMap `json:"form_data"`
	Metadata          models.JSONMap `json:"metadata"`
	TemplateID        *string        `json:"template_id"`
	IsTemplate        *bool          `json:"is_template"`
	VersionName       *string        `json:"version_name"`
	ChangeDescription *string        `json:"change_description"`
	CreateVersion     types.FlexBool `json:"create_version"`
	AuthorID          string         `json:"-"`
}

// apply overwrites the contract fields present in the update
func (u *ContractUpdate) apply(c *models.Contract) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.ContractType != nil {
		c.ContractType = *u.ContractType
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.Content != nil {
		c.Content = *u.Content
	}
	if u.FormData != nil {
		c.FormData = u.FormData
	}
	if u.Metadata != nil {
		c.Metadata = u.Metadata
	}
	if u.TemplateID != nil {
		c.TemplateID = u.TemplateID
	}
	if u.IsTemplate != nil {
		c.IsTemplate = *u.IsTemplate
	}
}

// GetOptions selects the child collections attached by GetContractByID
type GetOptions struct {
	IncludeVersions   bool
	IncludeSignatures bool
}

// ContractFilter narrows ListUserContracts
type ContractFilter struct {
	Status       string
	ContractType string
	Search       string
	SortBy       string
	SortOrder    string
}

// ListOptions pages ListUserContracts
type ListOptions struct {
	Page  int
	Limit int
}

// ContractPage is one page of contracts
type ContractPage struct {
	Contracts  []models.Contract `json:"contracts"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// likeEscaper makes search input literal under ESCAPE '!'. '[' is a wildcard on sqlserver.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

var sortableColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"title":         true,
	"status":        true,
	"contract_type": true,
	"version":       true,
}

// lockContract loads a contract inside a transaction, holding its row for update
func lockContract(tx *gorm.DB, id string) (*models.Contract, error) {
	if !validID(id) {
		return nil, types.NotFound("Contract not found")
	}

	var contract models.Contract
	if err := quiet(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&contract).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("Contract not found")
		}
		return nil, err
	}

	return &contract, nil
}

// saveContract persists the scalar fields of a contract
func saveContract(tx *gorm.DB, c *models.Contract) error {
	return tx.Omit(clause.Associations).Save(c).Error
}

// CreateContract creates a contract owned by userID.
// When TemplateID resolves to a template, the template's content and contract_type
// replace whatever the caller supplied. Non-empty content is recorded as version 1.
func CreateContract(ctx context.Context, db *gorm.DB, userID string, in ContractInput) (*models.Contract, error) {
	db = db.WithContext(ctx)

	if in.TemplateID != nil && *in.TemplateID != "" {
		tmpl, err := GetTemplateByID(ctx, db, *in.TemplateID)
		switch {
		case err == nil:
			in.Content = tmpl.Content
			in.ContractType = tmpl.ContractType
		case types.IsNotFound(err):
			log.Printf("Template %s not found, creating contract without it", *in.TemplateID)
		default:
			return nil, err
		}
	}

	if in.Status == "" {
		in.Status = models.StatusDraft
	}

	contract := &models.Contract{
		Title:        in.Title,
		UserID:       userID,
		ContractType: in.ContractType,
		Status:       in.Status,
		Content:      in.Content,
		FormData:     in.FormData.OrEmpty(),
		Metadata:     in.Metadata.OrEmpty(),
		TemplateID:   in.TemplateID,
		IsTemplate:   in.IsTemplate,
		Version:      1,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}

		if contract.Content == "" {
			return nil
		}

		_, err := allocateVersion(tx, contract.ID, VersionInput{
			AuthorID:          userID,
			Content:           contract.Content,
			FormData:          contract.FormData,
			Name:              "Initial version",
			ChangeDescription: "Contract created",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return contract, nil
}

// GetContractByID returns a contract, optionally with its versions (newest first) and signatures.
// Malformed and missing ids both return NotFound.
func GetContractByID(ctx context.Context, db *gorm.DB, id string, opts GetOptions) (*models.Contract, error) {
	if !validID(id) {
		return nil, types.NotFound("Contract not found")
	}

	query := quiet(db.WithContext(ctx)).Where("id = ?", id)
	if opts.IncludeVersions {
		query = query.Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number DESC")
		})
	}
	if opts.IncludeSignatures {
		query = query.Preload("Signatures", func(db *gorm.DB) *gorm.DB {
			return db.Order("signature_date DESC")
		})
	}

	var contract models.Contract
	if err := query.First(&contract).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("Contract not found")
		}
		return nil, err
	}

	return &contract, nil
}

// UpdateContractByID overwrites the fields present in upd.
// With createVersion and non-empty content, a version is allocated and the contract's
// counter advances to it in the same transaction.
func UpdateContractByID(ctx context.Context, db *gorm.DB, id string, upd ContractUpdate, createVersion bool) (*models.Contract, error) {
	var contract *models.Contract

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockContract(tx, id)
		if err != nil {
			return err
		}

		if createVersion && upd.Content != nil && *upd.Content != "" {
			in := VersionInput{
				AuthorID: upd.AuthorID,
				Content:  *upd.Content,
				FormData: upd.FormData,
				Metadata: upd.Metadata,
			}
			if in.AuthorID == "" {
				in.AuthorID = c.UserID
			}
			if in.FormData == nil {
				in.FormData = c.FormData
			}
			if upd.VersionName != nil {
				in.Name = *upd.VersionName
			}
			if upd.ChangeDescription != nil {
				in.ChangeDescription = *upd.ChangeDescription
			}

			version, err := allocateVersion(tx, c.ID, in)
			if err != nil {
				return err
			}
			c.Version = version.VersionNumber
		}

		upd.apply(c)
		if err := saveContract(tx, c); err != nil {
			return err
		}

		contract = c
		return nil
	})

	return contract, err
}

// CreateContractVersion snapshots the given content as the contract's next version and makes it current
func CreateContractVersion(ctx context.Context, db *gorm.DB, contractID string, in VersionInput) (*models.ContractVersion, error) {
	var version *models.ContractVersion

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		if in.AuthorID == "" {
			in.AuthorID = c.UserID
		}
		if in.FormData == nil {
			in.FormData = c.FormData
		}

		v, err := allocateVersion(tx, c.ID, in)
		if err != nil {
			return err
		}

		c.Version = v.VersionNumber
		c.Content = v.Content
		c.FormData = v.FormData
		if err := saveContract(tx, c); err != nil {
			return err
		}

		version = v
		return nil
	})

	return version, err
}

// ArchiveContractByID soft deletes a contract by setting its status to archived
func ArchiveContractByID(ctx context.Context, db *gorm.DB, id string) (*models.Contract, error) {
	var contract *models.Contract

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockContract(tx, id)
		if err != nil {
			return err
		}
		c.Status = models.StatusArchived
		if err := saveContract(tx, c); err != nil {
			return err
		}
		contract = c
		return nil
	})

	return contract, err
}

// HardDeleteContractByID removes a contract with its versions, signatures and
// employee associations. There is no undo.
func HardDeleteContractByID(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockContract(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where("contract_id = ?", c.ID).Delete(&models.ContractVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", c.ID).Delete(&models.ContractSignature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", c.ID).Delete(&models.EmployeeContract{}).Error; err != nil {
			return err
		}

		return tx.Delete(c).Error
	})
}

// RestoreContractVersion copies a version's content and form data onto the contract.
// The version counter is not changed.
func RestoreContractVersion(ctx context.Context, db *gorm.DB, contractID, versionID string) (*models.Contract, error) {
	var contract *models.Contract

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		v, err := getVersionForContract(tx, c.ID, versionID)
		if err != nil {
			return err
		}

		c.Content = v.Content
		c.FormData = v.FormData
		if err := saveContract(tx, c); err != nil {
			return err
		}

		contract = c
		return nil
	})

	return contract, err
}

// ListUserContracts pages through a user's non-template contracts.
// Archived contracts are hidden unless filter.Status is "archived" or "all".
func ListUserContracts(ctx context.Context, db *gorm.DB, userID string, filter ContractFilter, opts ListOptions) (*ContractPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	query := quiet(db.WithContext(ctx)).Model(&models.Contract{})
	if query.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_contracts_user"))
	}
	query = query.Where("user_id = ? AND is_template = ?", userID, false)

	switch filter.Status {
	case "":
		query = query.Where("status <> ?", models.StatusArchived)
	case "all":
	default:
		query = query.Where("status = ?", filter.Status)
	}

	if filter.ContractType != "" {
		query = query.Where("contract_type = ?", filter.ContractType)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	order := clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}
	if sortableColumns[filter.SortBy] {
		order = clause.OrderByColumn{
			Column: clause.Column{Name: filter.SortBy},
			Desc:   filter.SortOrder == "desc",
		}
	}

	contracts := []models.Contract{}
	if err := query.Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contracts).Error; err != nil {
		return nil, err
	}

	return &ContractPage{
		Contracts:  contracts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}
