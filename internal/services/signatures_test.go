// signatures_test.go
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
	"testing"
	"time"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/testhelpers"
	"github.com/localnerve/contractsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletedSignatureMarksContractSigned(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Sign me", "body")

	sig, err := services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{
		SignerName:  "Dana Signer",
		SignerEmail: "dana@example.com",
		Status:      models.SignatureCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", sig.UserID)
	assert.Equal(t, "Dana Signer", sig.SignerName)
	assert.False(t, sig.SignatureDate.IsZero())

	got, err := services.GetContractByID(ctx, db, contract.ID, services.GetOptions{IncludeSignatures: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSigned, got.Status)
	assert.Len(t, got.Signatures, 1)
}

func TestPendingSignatureLeavesStatus(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Later", "body")

	_, err := services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{
		Status: models.SignaturePending,
	})
	require.NoError(t, err)

	got, err := services.GetContractByID(ctx, db, contract.ID, services.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestSignatureDefaults(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Defaults", "body")

	sig, err := services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{})
	require.NoError(t, err)
	assert.Equal(t, models.SignatureCompleted, sig.Status)
	assert.WithinDuration(t, time.Now(), sig.SignatureDate, time.Minute)

	// Only an explicit completed status moves the contract
	got, err := services.GetContractByID(ctx, db, contract.ID, services.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestListSignaturesNewestFirst(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Many", "body")
	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)

	_, err := services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{SignerName: "old", SignatureDate: &older, Status: models.SignaturePending})
	require.NoError(t, err)
	_, err = services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{SignerName: "new", SignatureDate: &newer, Status: models.SignaturePending})
	require.NoError(t, err)

	sigs, err := services.ListSignatures(ctx, db, contract.ID)
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, "new", sigs[0].SignerName)
	assert.Equal(t, "old", sigs[1].SignerName)
}

func TestSignatureErrors(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	_, err := services.ListSignatures(ctx, db, "nope")
	assert.True(t, types.IsInvalidArgument(err))

	_, err = services.AddSignature(ctx, db, "00000000-0000-0000-0000-000000000000", "user-1", services.SignatureInput{})
	assert.True(t, types.IsNotFound(err))
}
