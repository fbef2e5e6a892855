// fixtures.go
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

package testhelpers

import (
	"context"
	"testing"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"gorm.io/gorm"
)

// CreateTestContract creates a draft contract owned by userID
func CreateTestContract(t *testing.T, db *gorm.DB, userID, title, content string) *models.Contract {
	t.Helper()
	contract, err := services.CreateContract(context.Background(), db, userID, services.ContractInput{
		Title:        title,
		ContractType: "nda",
		Content:      content,
	})
	if err != nil {
		t.Fatalf("Failed to create contract %q: %v", title, err)
	}
	return contract
}

// CreateTestTemplate creates a published template. An empty userID makes it a system template.
func CreateTestTemplate(t *testing.T, db *gorm.DB, userID, name, content string) *models.ContractTemplate {
	t.Helper()
	tmpl, err := services.CreateTemplate(context.Background(), db, userID, services.TemplateInput{
		Name:         name,
		Content:      content,
		ContractType: "nda",
		IsSystem:     userID == "",
	})
	if err != nil {
		t.Fatalf("Failed to create template %q: %v", name, err)
	}
	return tmpl
}

// CreateTestEmployee creates an employee of businessID
func CreateTestEmployee(t *testing.T, db *gorm.DB, businessID, name string) *models.Employee {
	t.Helper()
	emp, err := services.CreateEmployee(context.Background(), db, businessID, services.EmployeeInput{
		FullName: name,
		Position: "Engineer",
	})
	if err != nil {
		t.Fatalf("Failed to create employee %q: %v", name, err)
	}
	return emp
}
