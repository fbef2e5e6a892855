// setup_test.go
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

package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/contractsdb/internal/handlers"
	"github.com/localnerve/contractsdb/internal/middleware"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/testhelpers"
	"gorm.io/gorm"
)

const (
	alice = "alice-session"
	bob   = "bob-session"
)

// setupApp mounts the API over a fresh database with two known sessions
func setupApp(t *testing.T, uploader services.ObjectUploader) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testhelpers.NewTestDB(t)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	auth := middleware.AuthWith(testhelpers.FakeSessions(map[string]string{
		alice: "user-alice",
		bob:   "user-bob",
	}), "user")
	handlers.New(db, uploader).Register(app.Group("/api"), auth)
	app.Use(handlers.NotFound)

	return app, db
}

// do sends a request as the given session. An empty session sends no cookie.
func do(t *testing.T, app *fiber.App, method, path, session string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "cookie_session", Value: session})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}
