// signatures.go
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

// SignatureInput describes a signature event. SignerName and SignerEmail identify the
// physical signer, who may not hold an account.
type SignatureInput struct {
	SignatureURL  string         `json:"signature_url"`
	SignatureDate *time.Time     `json:"signature_date"`
	SignerName    string         `json:"signer_name"`
	SignerEmail   string         `json:"signer_email"`
	Status        string         `json:"status"`
	Metadata      models.JSONMap `json:"metadata"`
}

// ListSignatures returns a contract's signatures, newest first
func ListSignatures(ctx context.Context, db *gorm.DB, contractID string) ([]models.ContractSignature, error) {
	if !validID(contractID) {
		return nil, types.InvalidArgument("Invalid contract ID")
	}

	signatures := []models.ContractSignature{}
	err := quiet(db.WithContext(ctx)).
		Where("contract_id = ?", contractID).
		Order("signature_date DESC").
		Order("created_at DESC").
		Find(&signatures).Error

	return signatures, err
}

// AddSignature records a signature by systemUserID. A "completed" signature marks the
// contract signed in the same transaction; deleting the signature later does not undo it.
func AddSignature(ctx context.Context, db *gorm.DB, contractID, systemUserID string, in SignatureInput) (*models.ContractSignature, error) {
	signature := &models.ContractSignature{
		ContractID:   contractID,
		UserID:       systemUserID,
		SignatureURL: in.SignatureURL,
		SignerName:   in.SignerName,
		SignerEmail:  in.SignerEmail,
		Status:       in.Status,
		Metadata:     in.Metadata.OrEmpty(),
	}
	if signature.Status == "" {
		signature.Status = models.SignatureCompleted
	}
	if in.SignatureDate != nil {
		signature.SignatureDate = in.SignatureDate.UTC()
	} else {
		signature.SignatureDate = time.Now().UTC()
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		if err := tx.Create(signature).Error; err != nil {
			return err
		}

		if in.Status == models.SignatureCompleted {
			return tx.Model(c).Update("status", models.StatusSigned).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return signature, nil
}
