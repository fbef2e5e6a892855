// export.go
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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/types"
	"gorm.io/gorm"
)

// ObjectUploader stores export bundles
type ObjectUploader interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// ExportBundle is the archived form of a contract and its history
type ExportBundle struct {
	Contract      models.Contract            `json:"contract"`
	Versions      []models.ContractVersion   `json:"versions"`
	Signatures    []models.ContractSignature `json:"signatures"`
	ExportedAt    time.Time                  `json:"exported_at"`
	ContentSHA256 string                     `json:"content_sha256"`
}

// ExportResult locates an uploaded bundle
type ExportResult struct {
	Key           string `json:"key"`
	ContentSHA256 string `json:"content_sha256"`
	Size          int    `json:"size"`
}

// BuildExportBundle collects a contract with its versions and signatures
func BuildExportBundle(ctx context.Context, db *gorm.DB, id string) (*ExportBundle, error) {
	contract, err := GetContractByID(ctx, db, id, GetOptions{})
	if err != nil {
		return nil, err
	}

	versions, err := ListVersions(ctx, db, contract.ID)
	if err != nil {
		return nil, err
	}

	signatures, err := ListSignatures(ctx, db, contract.ID)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(contract.Content))

	return &ExportBundle{
		Contract:      *contract,
		Versions:      versions,
		Signatures:    signatures,
		ExportedAt:    time.Now().UTC(),
		ContentSHA256: hex.EncodeToString(sum[:]),
	}, nil
}

// ExportContract uploads a contract's export bundle to the object store
func ExportContract(ctx context.Context, db *gorm.DB, uploader ObjectUploader, id string) (*ExportResult, error) {
	if uploader == nil {
		return nil, types.Unavailable("Object storage is not configured")
	}

	bundle, err := BuildExportBundle(ctx, db, id)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export bundle: %w", err)
	}

	key := fmt.Sprintf("contracts/%s/export-%d.json", bundle.Contract.ID, bundle.ExportedAt.UnixNano())
	if err := uploader.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload export bundle: %w", err)
	}

	log.Printf("Exported contract %s to %s (%d bytes)", bundle.Contract.ID, key, len(body))

	return &ExportResult{
		Key:           key,
		ContentSHA256: bundle.ContentSHA256,
		Size:          len(body),
	}, nil
}
