// templates.go
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
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"gorm.io/gorm"
)

// TemplateHandler handles contract template requests
type TemplateHandler struct {
	DB *gorm.DB
}

var templateStatuses = map[string]bool{
	models.TemplateDraft:     true,
	models.TemplatePublished: true,
	models.TemplateArchived:  true,
}

func (h *TemplateHandler) visibleTemplate(c *fiber.Ctx, userID string) (*models.ContractTemplate, error) {
	tmpl, err := services.GetTemplateByID(c.UserContext(), h.DB, c.Params("templateId"))
	if err != nil {
		return nil, errorResponse(c, err, "templates.get")
	}
	if !tmpl.OwnedBy(userID) {
		return nil, forbidden(c, "You do not have access to this template")
	}
	return tmpl, nil
}

func (h *TemplateHandler) editableTemplate(c *fiber.Ctx, userID string) (*models.ContractTemplate, error) {
	tmpl, err := services.GetTemplateByID(c.UserContext(), h.DB, c.Params("templateId"))
	if err != nil {
		return nil, errorResponse(c, err, "templates.get")
	}
	if !tmpl.EditableBy(userID) {
		return nil, forbidden(c, "You do not have permission to modify this template")
	}
	return tmpl, nil
}

// ListTemplates handles GET /api/contracts/templates
// @Summary List templates
// @Description System templates plus the caller's own. Status defaults to published; "all" disables the filter.
// @Tags Templates
// @Produce json
// @Param contract_type query string false "Contract type"
// @Param status query string false "Status or 'all'"
// @Success 200 {array} models.ContractTemplate
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/templates [get]
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	templates, err := services.ListTemplates(c.UserContext(), h.DB, services.TemplateFilter{
		UserID:       userID,
		ContractType: first(c, "contract_type", "contractType"),
		Status:       c.Query("status"),
	})
	if err != nil {
		return errorResponse(c, err, "templates.list")
	}

	return c.Status(fiber.StatusOK).JSON(templates)
}

// CreateTemplate handles POST /api/contracts/templates
// @Summary Create a template
// @Tags Templates
// @Accept json
// @Produce json
// @Param body body services.TemplateInput true "Template"
// @Success 201 {object} models.ContractTemplate
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/templates [post]
func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	var in services.TemplateInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid input")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.ContractType) == "" {
		return badRequest(c, "name and contract_type are required")
	}
	if in.Status != "" && !templateStatuses[in.Status] {
		return badRequest(c, "invalid status")
	}
	// System templates are seeded by templatectl only
	in.IsSystem = false

	tmpl, err := services.CreateTemplate(c.UserContext(), h.DB, userID, in)
	if err != nil {
		return errorResponse(c, err, "templates.create")
	}

	return c.Status(fiber.StatusCreated).JSON(tmpl)
}

// GetTemplate handles GET /api/contracts/templates/:templateId
// @Summary Get a template
// @Tags Templates
// @Produce json
// @Param templateId path string true "Template ID"
// @Success 200 {object} models.ContractTemplate
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/templates/{templateId} [get]
func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	tmpl, err := h.visibleTemplate(c, userID)
	if tmpl == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tmpl)
}

// UpdateTemplate handles PATCH /api/contracts/templates/:templateId
// @Summary Update a template
// @Tags Templates
// @Accept json
// @Produce json
// @Param templateId path string true "Template ID"
// @Param body body services.TemplateUpdate true "Fields to update"
// @Success 200 {object} models.ContractTemplate
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/templates/{templateId} [patch]
func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	tmpl, err := h.editableTemplate(c, userID)
	if tmpl == nil {
		return err
	}

	var upd services.TemplateUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "Invalid input")
	}
	if upd.Status != nil && !templateStatuses[*upd.Status] {
		return badRequest(c, "invalid status")
	}

	updated, err := services.UpdateTemplateByID(c.UserContext(), h.DB, tmpl.ID, upd)
	if err != nil {
		return errorResponse(c, err, "templates.update")
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteTemplate handles DELETE /api/contracts/templates/:templateId
// @Summary Delete a template
// @Tags Templates
// @Param templateId path string true "Template ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/templates/{templateId} [delete]
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	tmpl, err := h.editableTemplate(c, userID)
	if tmpl == nil {
		return err
	}

	if err := services.DeleteTemplateByID(c.UserContext(), h.DB, tmpl.ID); err != nil {
		return errorResponse(c, err, "templates.delete")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
