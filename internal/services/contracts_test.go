// contracts_test.go
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
	"fmt"
	"testing"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/testhelpers"
	"github.com/localnerve/contractsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateContractTemplateWins(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	tmpl := testhelpers.CreateTestTemplate(t, db, "", "Standard NDA", "template body")

	contract, err := services.CreateContract(ctx, db, "user-1", services.ContractInput{
		Title:        "From template",
		ContractType: "lease",
		Content:      "caller body",
		TemplateID:   &tmpl.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "template body", contract.Content)
	assert.Equal(t, "nda", contract.ContractType)
	assert.Equal(t, models.StatusDraft, contract.Status)
	require.NotNil(t, contract.TemplateID)
	assert.Equal(t, tmpl.ID, *contract.TemplateID)

	latest, err := services.GetLatestVersion(ctx, db, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "template body", latest.Content)
}

func TestCreateContractMissingTemplateKeepsInput(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	contract, err := services.CreateContract(context.Background(), db, "user-1", services.ContractInput{
		Title:        "Orphan",
		ContractType: "lease",
		Content:      "caller body",
		TemplateID:   strPtr("00000000-0000-0000-0000-000000000000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "caller body", contract.Content)
	assert.Equal(t, "lease", contract.ContractType)
}

func TestGetContractByIDNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"", "garbage", "00000000-0000-0000-0000-000000000000"} {
		_, err := services.GetContractByID(ctx, db, id, services.GetOptions{})
		assert.True(t, types.IsNotFound(err), "id %q", id)
	}
}

func TestUpdateContractVersioning(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Draft", "v1")

	// No version without the flag
	updated, err := services.UpdateContractByID(ctx, db, contract.ID, services.ContractUpdate{
		Title:   strPtr("Renamed"),
		Content: strPtr("edited"),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, 1, updated.Version)

	// No version without content
	updated, err = services.UpdateContractByID(ctx, db, contract.ID, services.ContractUpdate{
		Status: strPtr(models.StatusPublished),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, models.StatusPublished, updated.Status)

	// Versioned update
	updated, err = services.UpdateContractByID(ctx, db, contract.ID, services.ContractUpdate{
		Content:           strPtr("v2"),
		VersionName:       strPtr("Second draft"),
		ChangeDescription: strPtr("tightened terms"),
		AuthorID:          "user-2",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "v2", updated.Content)

	latest, err := services.GetLatestVersion(ctx, db, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.VersionNumber)
	assert.Equal(t, "Second draft", latest.Name)
	assert.Equal(t, "tightened terms", latest.ChangeDescription)
	assert.Equal(t, "user-2", latest.UserID)
}

func TestUpdateContractNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	_, err := services.UpdateContractByID(context.Background(), db, "00000000-0000-0000-0000-000000000000",
		services.ContractUpdate{Title: strPtr("x")}, false)
	assert.True(t, types.IsNotFound(err))
}

func TestRestoreContractVersion(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract, err := services.CreateContract(ctx, db, "user-1", services.ContractInput{
		Title:        "Restorable",
		ContractType: "nda",
		Content:      "original",
		FormData:     models.JSONMap{"party": "Acme"},
	})
	require.NoError(t, err)

	_, err = services.CreateContractVersion(ctx, db, contract.ID, services.VersionInput{
		Content:  "revised",
		FormData: models.JSONMap{"party": "Globex"},
	})
	require.NoError(t, err)

	versions, err := services.ListVersions(ctx, db, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	first := versions[1]
	require.Equal(t, 1, first.VersionNumber)

	restored, err := services.RestoreContractVersion(ctx, db, contract.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", restored.Content)
	assert.Equal(t, "Acme", restored.FormData["party"])
	assert.Equal(t, 2, restored.Version, "restore does not advance the counter")

	after, err := services.ListVersions(ctx, db, contract.ID)
	require.NoError(t, err)
	assert.Len(t, after, 2, "restore does not create a version")
}

func TestRestoreVersionFromAnotherContract(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	a := testhelpers.CreateTestContract(t, db, "user-1", "A", "a1")
	b := testhelpers.CreateTestContract(t, db, "user-1", "B", "b1")

	bVersion, err := services.GetLatestVersion(ctx, db, b.ID)
	require.NoError(t, err)

	_, err = services.RestoreContractVersion(ctx, db, a.ID, bVersion.ID)
	assert.True(t, types.IsNotFound(err))

	got, err := services.GetContractByID(ctx, db, a.ID, services.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a1", got.Content)
}

func TestArchiveContract(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Old", "body")

	archived, err := services.ArchiveContractByID(ctx, db, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)

	// Archiving again is harmless
	_, err = services.ArchiveContractByID(ctx, db, contract.ID)
	require.NoError(t, err)

	page, err := services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{}, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{Status: models.StatusArchived}, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	versions, err := services.ListVersions(ctx, db, contract.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1, "archive keeps history")
}

func TestHardDeleteContract(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	contract := testhelpers.CreateTestContract(t, db, "user-1", "Doomed", "v1")
	_, err := services.CreateContractVersion(ctx, db, contract.ID, services.VersionInput{Content: "v2"})
	require.NoError(t, err)
	_, err = services.AddSignature(ctx, db, contract.ID, "user-1", services.SignatureInput{Status: models.SignatureCompleted})
	require.NoError(t, err)
	employee := testhelpers.CreateTestEmployee(t, db, "user-1", "Pat")
	_, err = services.CreateEmployeeContract(ctx, db, employee.ID, contract.ID)
	require.NoError(t, err)

	require.NoError(t, services.HardDeleteContractByID(ctx, db, contract.ID))

	_, err = services.GetContractByID(ctx, db, contract.ID, services.GetOptions{})
	assert.True(t, types.IsNotFound(err))

	var count int64
	db.Model(&models.ContractVersion{}).Where("contract_id = ?", contract.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.ContractSignature{}).Where("contract_id = ?", contract.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.EmployeeContract{}).Where("contract_id = ?", contract.ID).Count(&count)
	assert.Zero(t, count)

	// The employee itself survives
	_, err = services.GetEmployeeByID(ctx, db, employee.ID)
	assert.NoError(t, err)

	err = services.HardDeleteContractByID(ctx, db, contract.ID)
	assert.True(t, types.IsNotFound(err))
}

func TestListUserContractsPagination(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		testhelpers.CreateTestContract(t, db, "user-1", fmt.Sprintf("Contract %02d", i), "")
	}
	testhelpers.CreateTestContract(t, db, "user-2", "Someone else", "")

	page, err := services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{}, services.ListOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Contracts, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{}, services.ListOptions{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Contracts, 5)

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{}, services.ListOptions{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, services.MaxPageLimit, page.Limit)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Contracts, 25)
}

func TestListUserContractsFilters(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	testhelpers.CreateTestContract(t, db, "user-1", "Bravo Lease", "rent terms")
	testhelpers.CreateTestContract(t, db, "user-1", "Alpha NDA", "SECRET sauce")
	_, err := services.CreateContract(ctx, db, "user-1", services.ContractInput{
		Title:        "Charlie Offer",
		ContractType: "employment",
		Status:       models.StatusPublished,
	})
	require.NoError(t, err)
	_, err = services.CreateContract(ctx, db, "user-1", services.ContractInput{
		Title:        "Template copy",
		ContractType: "nda",
		IsTemplate:   true,
	})
	require.NoError(t, err)

	page, err := services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{}, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "template contracts are not listed")

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{Search: "secret"}, services.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Contracts, 1)
	assert.Equal(t, "Alpha NDA", page.Contracts[0].Title)

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{ContractType: "employment"}, services.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Contracts, 1)
	assert.Equal(t, "Charlie Offer", page.Contracts[0].Title)

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{Status: models.StatusPublished}, services.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, page.Contracts, 1)

	page, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{SortBy: "title", SortOrder: "asc"}, services.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Contracts, 3)
	assert.Equal(t, "Alpha NDA", page.Contracts[0].Title)
	assert.Equal(t, "Charlie Offer", page.Contracts[2].Title)

	// Unknown sort columns fall back to created_at
	_, err = services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{SortBy: "title; DROP TABLE contracts"}, services.ListOptions{})
	require.NoError(t, err)
}

func TestListUserContractsSearchIsLiteral(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	testhelpers.CreateTestContract(t, db, "user-1", "Discount 50% off", "promo")
	testhelpers.CreateTestContract(t, db, "user-1", "Discount 500 units", "bulk")
	testhelpers.CreateTestContract(t, db, "user-1", "Clause a_b", "underscore")
	testhelpers.CreateTestContract(t, db, "user-1", "Clause axb", "letter")

	cases := map[string]string{
		"50%": "Discount 50% off",
		"a_b": "Clause a_b",
	}
	for search, title := range cases {
		page, err := services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{Search: search}, services.ListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Contracts, 1, search)
		assert.Equal(t, title, page.Contracts[0].Title)
	}

	page, err := services.ListUserContracts(ctx, db, "user-1", services.ContractFilter{Search: "%"}, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
