// versions.go
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
	"fmt"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/types"
	"gorm.io/gorm"
)

// VersionInput describes a snapshot to store in the version ledger
type VersionInput struct {
	AuthorID          string         `json:"-"`
	Content           string         `json:"content"`
	FormData          models.JSONMap `json:"form_data"`
	Name              string         `json:"name"`
	ChangeDescription string         `json:"change_description"`
	Metadata          models.JSONMap `json:"metadata"`
}

// AllocateAndCreateVersion stores a new snapshot for a contract, numbered max+1.
// It does not touch the contract record; callers that need the counter bumped use
// CreateContractVersion or UpdateContractByID, which do both in one transaction.
func AllocateAndCreateVersion(ctx context.Context, db *gorm.DB, contractID string, in VersionInput) (*models.ContractVersion, error) {
	var version *models.ContractVersion

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockContract(tx, contractID); err != nil {
			return err
		}
		v, err := allocateVersion(tx, contractID, in)
		if err != nil {
			return err
		}
		version = v
		return nil
	})

	return version, err
}

// allocateVersion computes the next version number and inserts the snapshot.
// The caller holds the contract row lock. A racing insert of the same number fails the
// unique index on (contract_id, version_number) and surfaces as Conflict.
func allocateVersion(tx *gorm.DB, contractID string, in VersionInput) (*models.ContractVersion, error) {
	var maxNumber int
	if err := tx.Model(&models.ContractVersion{}).
		Where("contract_id = ?", contractID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return nil, err
	}

	next := maxNumber + 1
	name := in.Name
	if name == "" {
		name = fmt.Sprintf("Version %d", next)
	}

	version := &models.ContractVersion{
		ContractID:        contractID,
		UserID:            in.AuthorID,
		VersionNumber:     next,
		Content:           in.Content,
		FormData:          in.FormData.OrEmpty(),
		Name:              name,
		ChangeDescription: in.ChangeDescription,
		Metadata:          in.Metadata.OrEmpty(),
	}

	if err := tx.Create(version).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, types.Conflict("Version %d already exists for this contract", next)
		}
		return nil, err
	}

	return version, nil
}

// ListVersions returns all versions of a contract, newest first
func ListVersions(ctx context.Context, db *gorm.DB, contractID string) ([]models.ContractVersion, error) {
	versions := []models.ContractVersion{}
	if !validID(contractID) {
		return versions, nil
	}

	err := quiet(db.WithContext(ctx)).
		Where("contract_id = ?", contractID).
		Order("version_number DESC").
		Find(&versions).Error

	return versions, err
}

// GetLatestVersion returns the highest numbered version, or NotFound when the contract has none
func GetLatestVersion(ctx context.Context, db *gorm.DB, contractID string) (*models.ContractVersion, error) {
	if !validID(contractID) {
		return nil, types.NotFound("No versions found")
	}

	var version models.ContractVersion
	err := quiet(db.WithContext(ctx)).
		Where("contract_id = ?", contractID).
		Order("version_number DESC").
		First(&version).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("No versions found")
		}
		return nil, err
	}

	return &version, nil
}

// GetVersionForContract returns a version only if it belongs to contractID
func GetVersionForContract(ctx context.Context, db *gorm.DB, contractID, versionID string) (*models.ContractVersion, error) {
	return getVersionForContract(db.WithContext(ctx), contractID, versionID)
}

func getVersionForContract(db *gorm.DB, contractID, versionID string) (*models.ContractVersion, error) {
	if !validID(contractID) || !validID(versionID) {
		return nil, types.NotFound("Version not found for this contract")
	}

	var version models.ContractVersion
	err := quiet(db).
		Where("id = ? AND contract_id = ?", versionID, contractID).
		First(&version).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("Version not found for this contract")
		}
		return nil, err
	}

	return &version, nil
}
