// export_test.go
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

package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/testhelpers"
	"github.com/localnerve/contractsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	objects map[string][]byte
	err     error
}

func (r *recordingUploader) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if r.err != nil {
		return r.err
	}
	if r.objects == nil {
		r.objects = map[string][]byte{}
	}
	r.objects[key] = body
	return nil
}

func TestExportContract(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Exported", "v1")
	_, err := services.CreateContractVersion(ctx, db, contract.ID, services.VersionInput{Content: "v2"})
	require.NoError(t, err)
	_, err = services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{Status: models.SignatureCompleted})
	require.NoError(t, err)

	uploader := &recordingUploader{}
	result, err := services.ExportContract(ctx, db, uploader, contract.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "contracts/"+contract.ID+"/export-"))
	assert.Len(t, result.ContentSHA256, 64)

	body, ok := uploader.objects[result.Key]
	require.True(t, ok)
	assert.Equal(t, len(body), result.Size)

	var bundle services.ExportBundle
	require.NoError(t, json.Unmarshal(body, &bundle))
	assert.Equal(t, contract.ID, bundle.Contract.ID)
	assert.Equal(t, models.StatusSigned, bundle.Contract.Status)
	assert.Len(t, bundle.Versions, 2)
	assert.Len(t, bundle.Signatures, 1)
	assert.Equal(t, result.ContentSHA256, bundle.ContentSHA256)
}

func TestExportContractErrors(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Exported", "v1")

	_, err := services.ExportContract(ctx, db, nil, contract.ID)
	assert.True(t, types.IsUnavailable(err))

	_, err = services.ExportContract(ctx, db, &recordingUploader{}, "00000000-0000-0000-0000-000000000000")
	assert.True(t, types.IsNotFound(err))

	_, err = services.ExportContract(ctx, db, &recordingUploader{err: errors.New("bucket gone")}, contract.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}
