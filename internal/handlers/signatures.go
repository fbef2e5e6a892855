// signatures.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"gorm.io/gorm"
)

// SignatureHandler handles contract signature requests
type SignatureHandler struct {
	DB *gorm.DB
}

var signatureStatuses = map[string]bool{
	models.SignaturePending:   true,
	models.SignatureCompleted: true,
	models.SignatureRejected:  true,
	models.SignatureExpired:   true,
}

// ListSignatures handles GET /api/contracts/:contractId/signatures
// @Summary List contract signatures
// @Tags Signatures
// @Produce json
// @Param contractId path string true "Contract ID"
// @Success 200 {array} models.ContractSignature
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId}/signatures [get]
func (h *SignatureHandler) ListSignatures(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contractID := c.Params("contractId")
	signatures, err := services.ListSignatures(c.UserContext(), h.DB, contractID)
	if err != nil {
		return errorResponse(c, err, "signatures.list")
	}

	contract, err := services.GetContractByID(c.UserContext(), h.DB, contractID, services.GetOptions{})
	if err != nil {
		return errorResponse(c, err, "signatures.list")
	}
	if contract.UserID != userID {
		return forbidden(c, "You do not have access to this contract")
	}

	return c.Status(fiber.StatusOK).JSON(signatures)
}

// AddSignature handles POST /api/contracts/:contractId/signatures
// @Summary Sign a contract
// @Description Record a signature. A "completed" signature marks the contract signed.
// @Tags Signatures
// @Accept json
// @Produce json
// @Param contractId path string true "Contract ID"
// @Param body body services.SignatureInput true "Signature"
// @Success 201 {object} models.ContractSignature
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contracts/{contractId}/signatures [post]
func (h *SignatureHandler) AddSignature(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	contract, err := services.GetContractByID(c.UserContext(), h.DB, c.Params("contractId"), services.GetOptions{})
	if err != nil {
		return errorResponse(c, err, "signatures.add")
	}
	if contract.UserID != userID {
		return forbidden(c, "You do not have access to this contract")
	}

	var in services.SignatureInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid input")
	}
	if in.Status != "" && !signatureStatuses[in.Status] {
		return badRequest(c, "invalid status")
	}

	signature, err := services.AddSignature(c.UserContext(), h.DB, contract.ID, userID, in)
	if err != nil {
		return errorResponse(c, err, "signatures.add")
	}

	return c.Status(fiber.StatusCreated).JSON(signature)
}
