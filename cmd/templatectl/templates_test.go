// templates_test.go
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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/localnerve/contractsdb/data"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuiltinCatalog(t *testing.T) {
	templates, err := parseTemplates(data.SystemTemplates)
	require.NoError(t, err)
	require.Len(t, templates, 3)

	for _, in := range templates {
		assert.True(t, in.IsSystem, in.Name)
		assert.NotEmpty(t, in.Content, in.Name)
		assert.NotEmpty(t, in.ContractType, in.Name)
	}
	assert.Equal(t, "Mutual Non-Disclosure Agreement", templates[0].Name)
	assert.Equal(t, 24, templates[0].Variables["term_months"])
}

func TestParseTemplatesErrors(t *testing.T) {
	cases := map[string]struct {
		yaml string
		err  string
	}{
		"empty": {
			yaml: "templates: []\n",
			err:  "no templates found",
		},
		"missing name": {
			yaml: "templates:\n  - contract_type: nda\n",
			err:  "template 1: name is required",
		},
		"missing type": {
			yaml: "templates:\n  - name: A\n",
			err:  `template "A": contract_type is required`,
		},
		"duplicate": {
			yaml: "templates:\n  - name: A\n    contract_type: nda\n  - name: A\n    contract_type: lease\n",
			err:  `template "A": duplicate name`,
		},
		"bad status": {
			yaml: "templates:\n  - name: A\n    contract_type: nda\n    status: live\n",
			err:  `template "A": invalid status "live"`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTemplates([]byte(tc.yaml))
			assert.EqualError(t, err, tc.err)
		})
	}

	_, err := parseTemplates([]byte("templates: [unclosed"))
	assert.ErrorContains(t, err, "parse templates")
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	templates, err := parseTemplates(data.SystemTemplates)
	require.NoError(t, err)

	ids := map[string]string{}
	for _, in := range templates {
		tmpl, created, err := services.UpsertSystemTemplate(ctx, db, in)
		require.NoError(t, err)
		assert.True(t, created)
		ids[in.Name] = tmpl.ID
	}

	for _, in := range templates {
		in.Description = "revised"
		tmpl, created, err := services.UpsertSystemTemplate(ctx, db, in)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, ids[in.Name], tmpl.ID)
		assert.Equal(t, "revised", tmpl.Description)
	}

	list, err := services.ListTemplates(ctx, db, services.TemplateFilter{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestSeedCommandRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - name: Only\n"), 0o600))

	for _, args := range [][]string{
		{"seed", "-f", filepath.Join(t.TempDir(), "missing.yaml")},
		{"seed", "-f", path},
	} {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)

		err := cmd.Execute()
		assert.Error(t, err, args)
		assert.Empty(t, out.String())
	}
}
