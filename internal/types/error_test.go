// error_test.go
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

package types

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		is   func(error) bool
	}{
		{NotFound("Contract %s not found", "abc"), http.StatusNotFound, IsNotFound},
		{Forbidden("nope"), http.StatusForbidden, IsForbidden},
		{Conflict("Version %d already exists", 3), http.StatusConflict, IsConflict},
		{InvalidArgument("bad id"), http.StatusBadRequest, IsInvalidArgument},
		{Unavailable("down"), http.StatusServiceUnavailable, IsUnavailable},
	}

	for _, tc := range cases {
		ce, ok := AsCustomError(tc.err)
		require.True(t, ok)
		assert.Equal(t, tc.code, ce.Code)
		assert.True(t, tc.is(tc.err))
	}

	ce, _ := AsCustomError(NotFound("Contract %s not found", "abc"))
	assert.Equal(t, "Contract abc not found", ce.Message)
	assert.False(t, IsConflict(NotFound("x")))
}

func TestWrappedCustomError(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", Conflict("taken"))

	assert.True(t, IsConflict(wrapped))
	ce, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "taken", ce.Message)

	_, ok = AsCustomError(fmt.Errorf("plain"))
	assert.False(t, ok)
	assert.False(t, IsNotFound(nil))
}
