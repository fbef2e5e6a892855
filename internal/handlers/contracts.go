// contracts.go
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
	"github.com/localnerve/contractsdb/internal/types"
	"github.com/localnerve/contractsdb/internal/utils"
	"gorm.io/gorm"
)

// ContractHandler handles contract, version and export requests
type ContractHandler struct {
	DB       *gorm.DB
	Uploader services.ObjectUploader
}

// ownedContract loads a contract and checks that userID owns it
func (h *ContractHandler) ownedContract(c *fiber.Ctx, userID, id string, opts services.GetOptions) (*models.Contract, error) {
	contract, err := services.GetContractByID(c.UserContext(), h.DB, id, opts)
	if err != nil {
		return nil, errorResponse(c, err, "contracts.get")
	}
	if contract.UserID != userID {
		return nil, forbidden(c, "You do not have access to this contract")
	}
	return contract, nil
}

func validateContractInput(in *services.ContractInput) string {
	if strings.TrimSpace(in.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(in.ContractType) == "" && (in.TemplateID == nil || *in.TemplateID == "") {
		return "contract_type is required"
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return "invalid status"
	}
	return ""
}

func validateContractUpdate(upd *services.ContractUpdate) string {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return "title must not be empty"
	}
	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		return "invalid status"
	}
	return ""
}

// ListContracts handles GET /api/contracts
// @Summary List contracts
// @Description List the caller's contracts. Archived contracts are excluded unless status is "archived" or "all".
// @Tags Contracts
// @Produce json
// @Param status query string false "Status filter or 'all'"
// @Param contract_type query string false "Contract type"
// @Param search query string false "Case-insensitive title or content search"
// @Param sort_by query string false "created_at, updated_at, title, status, contract_type, version"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size, max 100"
// @Success 200 {object} services.ContractPage
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts [get]
func (h *ContractHandler) ListContracts(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	filter := services.ContractFilter{
		Status:       c.Query("status"),
		ContractType: first(c, "contract_type", "contractType"),
		Search:       c.Query("search"),
		SortBy:       first(c, "sort_by", "sortBy"),
		SortOrder:    strings.ToLower(first(c, "sort_order", "sortOrder")),
	}
	opts := services.ListOptions{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", services.DefaultPageLimit),
	}

	page, err := services.ListUserContracts(c.UserContext(), h.DB, userID, filter, opts)
	if err != nil {
		return errorResponse(c, err, "contracts.list")
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

// CreateContract handles POST /api/contracts
// @Summary Create a contract
// @Description Create a contract. When template_id names a template, its content and contract_type replace the supplied values.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param body body services.ContractInput true "Contract"
// @Success 201 {object} models.Contract
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct "No session, or template_id names another user's template"
// @Security CookieAuth
// @Router /contracts [post]
func (h *ContractHandler) CreateContract(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	var in services.ContractInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid input")
	}
	if msg := validateContractInput(&in); msg != "" {
		return badRequest(c, msg)
	}

	// The template's content is copied, so the caller must be able to see it
	if in.TemplateID != nil && *in.TemplateID != "" {
		tmpl, err := services.GetTemplateByID(c.UserContext(), h.DB, *in.TemplateID)
		switch {
		case err == nil:
			if !tmpl.OwnedBy(userID) {
				return forbidden(c, "You do not have access to this template")
			}
		case !types.IsNotFound(err):
			return errorResponse(c, err, "contracts.create")
		}
	}

	contract, err := services.CreateContract(c.UserContext(), h.DB, userID, in)
	if err != nil {
		return errorResponse(c, err, "contracts.create")
	}

	return c.Status(fiber.StatusCreated).JSON(contract)
}

// GetContract handles GET /api/contracts/:contractId
// @Summary Get a contract
// @Tags Contracts
// @Produce json
// @Param contractId path string true "Contract ID"
// @Param includeVersions query bool false "Attach versions, newest first"
// @Param includeSignatures query bool false "Attach signatures"
// @Success 200 {object} models.Contract
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId} [get]
func (h *ContractHandler) GetContract(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	includeVersions, _ := queryBool(c, "includeVersions", "include_versions")
	includeSignatures, _ := queryBool(c, "includeSignatures", "include_signatures")

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{
		IncludeVersions:   includeVersions,
		IncludeSignatures: includeSignatures,
	})
	if contract == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(contract)
}

// UpdateContract handles PATCH /api/contracts/:contractId
// @Summary Update a contract
// @Description Overwrite the fields present in the body. With createVersion and content, a new version is recorded.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contractId path string true "Contract ID"
// @Param createVersion query bool false "Record a version when content is present"
// @Param body body services.ContractUpdate true "Fields to update"
// @Success 200 {object} models.Contract
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId} [patch]
func (h *ContractHandler) UpdateContract(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{})
	if contract == nil {
		return err
	}

	var upd services.ContractUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "Invalid input")
	}
	if msg := validateContractUpdate(&upd); msg != "" {
		return badRequest(c, msg)
	}
	upd.AuthorID = userID

	createVersion := upd.CreateVersion.Bool()
	if value, ok := queryBool(c, "createVersion", "create_version"); ok {
		createVersion = value
	}

	updated, err := services.UpdateContractByID(c.UserContext(), h.DB, contract.ID, upd, createVersion)
	if err != nil {
		return errorResponse(c, err, "contracts.update")
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteContract handles DELETE /api/contracts/:contractId
// @Summary Archive or permanently delete a contract
// @Description Archives by default. With permanent=true the contract, its versions, signatures and employee associations are removed and cannot be recovered.
// @Tags Contracts
// @Produce json
// @Param contractId path string true "Contract ID"
// @Param permanent query bool false "Hard delete"
// @Success 200 {object} models.Contract
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId} [delete]
func (h *ContractHandler) DeleteContract(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{})
	if contract == nil {
		return err
	}

	if permanent, _ := queryBool(c, "permanent"); permanent {
		if err := services.HardDeleteContractByID(c.UserContext(), h.DB, contract.ID); err != nil {
			return errorResponse(c, err, "contracts.delete")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}

	archived, err := services.ArchiveContractByID(c.UserContext(), h.DB, contract.ID)
	if err != nil {
		return errorResponse(c, err, "contracts.archive")
	}

	return c.Status(fiber.StatusOK).JSON(archived)
}

// ListVersions handles GET /api/contracts/:contractId/versions
// @Summary List contract versions
// @Tags Versions
// @Produce json
// @Param contractId path string true "Contract ID"
// @Success 200 {array} models.ContractVersion
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId}/versions [get]
func (h *ContractHandler) ListVersions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{})
	if contract == nil {
		return err
	}

	versions, err := services.ListVersions(c.UserContext(), h.DB, contract.ID)
	if err != nil {
		return errorResponse(c, err, "versions.list")
	}

	return c.Status(fiber.StatusOK).JSON(versions)
}

// CreateVersion handles POST /api/contracts/:contractId/versions
// @Summary Create a contract version
// @Description Snapshot content as the next version and make it the contract's current content.
// @Tags Versions
// @Accept json
// @Produce json
// @Param contractId path string true "Contract ID"
// @Param body body services.VersionInput true "Snapshot"
// @Success 201 {object} models.ContractVersion
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId}/versions [post]
func (h *ContractHandler) CreateVersion(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{})
	if contract == nil {
		return err
	}

	var in services.VersionInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid input")
	}
	if in.Content == "" {
		return badRequest(c, "content is required")
	}
	in.AuthorID = userID

	version, err := services.CreateContractVersion(c.UserContext(), h.DB, contract.ID, in)
	if err != nil {
		return errorResponse(c, err, "versions.create")
	}

	return c.Status(fiber.StatusCreated).JSON(version)
}

// RestoreVersion handles POST /api/contracts/:contractId/versions/:versionId/restore
// @Summary Restore a contract version
// @Description Copy the version's content and form data onto the contract. The version counter is unchanged.
// @Tags Versions
// @Produce json
// @Param contractId path string true "Contract ID"
// @Param versionId path string true "Version ID"
// @Success 200 {object} models.Contract
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId}/versions/{versionId}/restore [post]
func (h *ContractHandler) RestoreVersion(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{})
	if contract == nil {
		return err
	}

	restored, err := services.RestoreContractVersion(c.UserContext(), h.DB, contract.ID, c.Params("versionId"))
	if err != nil {
		return errorResponse(c, err, "versions.restore")
	}

	return c.Status(fiber.StatusOK).JSON(restored)
}

// ExportContract handles POST /api/contracts/:contractId/export
// @Summary Export a contract bundle to object storage
// @Tags Contracts
// @Produce json
// @Param contractId path string true "Contract ID"
// @Success 201 {object} services.ExportResult
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId}/export [post]
func (h *ContractHandler) ExportContract(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := h.ownedContract(c, userID, c.Params("contractId"), services.GetOptions{})
	if contract == nil {
		return err
	}

	result, err := services.ExportContract(c.UserContext(), h.DB, h.Uploader, contract.ID)
	if err != nil {
		return errorResponse(c, err, "contracts.export")
	}

	return utils.SuccessResponse(c, result, fiber.StatusCreated)
}
