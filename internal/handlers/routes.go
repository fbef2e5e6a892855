// routes.go
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

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/types"
	"gorm.io/gorm"
)

// Handlers bundles the API handlers over one database
type Handlers struct {
	Contracts  *ContractHandler
	Signatures *SignatureHandler
	Templates  *TemplateHandler
	Employees  *EmployeeHandler
}

// New creates the API handlers. uploader may be nil, which disables export.
func New(db *gorm.DB, uploader services.ObjectUploader) *Handlers {
	return &Handlers{
		Contracts:  &ContractHandler{DB: db, Uploader: uploader},
		Signatures: &SignatureHandler{DB: db},
		Templates:  &TemplateHandler{DB: db},
		Employees:  &EmployeeHandler{DB: db},
	}
}

// Register mounts the API routes on api, all behind auth
func (h *Handlers) Register(api fiber.Router, auth fiber.Handler) {
	contracts := api.Group("/contracts", auth)

	// Templates before /:contractId so "templates" is not taken as an id
	contracts.Get("/templates", h.Templates.ListTemplates)
	contracts.Post("/templates", h.Templates.CreateTemplate)
	contracts.Get("/templates/:templateId", h.Templates.GetTemplate)
	contracts.Patch("/templates/:templateId", h.Templates.UpdateTemplate)
	contracts.Delete("/templates/:templateId", h.Templates.DeleteTemplate)

	contracts.Get("/", h.Contracts.ListContracts)
	contracts.Post("/", h.Contracts.CreateContract)
	contracts.Get("/:contractId", h.Contracts.GetContract)
	contracts.Patch("/:contractId", h.Contracts.UpdateContract)
	contracts.Delete("/:contractId", h.Contracts.DeleteContract)
	contracts.Post("/:contractId/export", h.Contracts.ExportContract)

	contracts.Get("/:contractId/versions", h.Contracts.ListVersions)
	contracts.Post("/:contractId/versions", h.Contracts.CreateVersion)
	contracts.Post("/:contractId/versions/:versionId/restore", h.Contracts.RestoreVersion)

	contracts.Get("/:contractId/signatures", h.Signatures.ListSignatures)
	contracts.Post("/:contractId/signatures", h.Signatures.AddSignature)

	employees := api.Group("/employees", auth)
	employees.Get("/", h.Employees.ListEmployees)
	employees.Post("/", h.Employees.CreateEmployee)
	employees.Get("/:employeeId", h.Employees.GetEmployee)
	employees.Patch("/:employeeId", h.Employees.UpdateEmployee)
	employees.Delete("/:employeeId", h.Employees.DeleteEmployee)

	assignments := api.Group("/employee-contracts", auth)
	assignments.Get("/", h.Employees.QueryContracts)
	assignments.Post("/", h.Employees.AssignContract)
	assignments.Delete("/", h.Employees.RemoveContracts)
}

// NotFound renders unmatched routes
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   "[404] Resource Not Found",
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// ErrorHandler handles errors globally
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if ce, ok := types.AsCustomError(err); ok {
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
