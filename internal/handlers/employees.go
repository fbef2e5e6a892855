// employees.go
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
	"github.com/localnerve/contractsdb/internal/utils"
	"gorm.io/gorm"
)

// EmployeeHandler handles employee and employee-contract requests.
// The caller's user id is the business account that owns its employees.
type EmployeeHandler struct {
	DB *gorm.DB
}

// employeeContractBody is the body for assigning an employee to a contract
type employeeContractBody struct {
	EmployeeID string `json:"employee_id"`
	ContractID string `json:"contract_id"`
}

func (h *EmployeeHandler) ownedEmployee(c *fiber.Ctx, businessID, id string) (*models.Employee, error) {
	employee, err := services.GetEmployeeByID(c.UserContext(), h.DB, id)
	if err != nil {
		return nil, errorResponse(c, err, "employees.get")
	}
	if employee.BusinessID != businessID {
		return nil, forbidden(c, "You do not have access to this employee")
	}
	return employee, nil
}

// ListEmployees handles GET /api/employees
// @Summary List employees
// @Tags Employees
// @Produce json
// @Success 200 {array} models.Employee
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employees [get]
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	employees, err := services.ListEmployees(c.UserContext(), h.DB, businessID)
	if err != nil {
		return errorResponse(c, err, "employees.list")
	}

	return c.Status(fiber.StatusOK).JSON(employees)
}

// CreateEmployee handles POST /api/employees
// @Summary Create an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param body body services.EmployeeInput true "Employee"
// @Success 201 {object} models.Employee
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	var in services.EmployeeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid input")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return badRequest(c, "full_name is required")
	}

	employee, err := services.CreateEmployee(c.UserContext(), h.DB, businessID, in)
	if err != nil {
		return errorResponse(c, err, "employees.create")
	}

	return c.Status(fiber.StatusCreated).JSON(employee)
}

// GetEmployee handles GET /api/employees/:employeeId
// @Summary Get an employee
// @Tags Employees
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employees/{employeeId} [get]
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	employee, err := h.ownedEmployee(c, businessID, c.Params("employeeId"))
	if employee == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(employee)
}

// UpdateEmployee handles PATCH /api/employees/:employeeId
// @Summary Update an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param body body services.EmployeeUpdate true "Fields to update"
// @Success 200 {object} models.Employee
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employees/{employeeId} [patch]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	employee, err := h.ownedEmployee(c, businessID, c.Params("employeeId"))
	if employee == nil {
		return err
	}

	var upd services.EmployeeUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "Invalid input")
	}
	if upd.FullName != nil && strings.TrimSpace(*upd.FullName) == "" {
		return badRequest(c, "full_name must not be empty")
	}

	updated, err := services.UpdateEmployeeByID(c.UserContext(), h.DB, employee.ID, upd)
	if err != nil {
		return errorResponse(c, err, "employees.update")
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteEmployee handles DELETE /api/employees/:employeeId
// @Summary Delete an employee and its contract assignments
// @Tags Employees
// @Param employeeId path string true "Employee ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employees/{employeeId} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	employee, err := h.ownedEmployee(c, businessID, c.Params("employeeId"))
	if employee == nil {
		return err
	}

	if err := services.DeleteEmployeeByID(c.UserContext(), h.DB, employee.ID); err != nil {
		return errorResponse(c, err, "employees.delete")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AssignContract handles POST /api/employee-contracts
// @Summary Assign an employee to a contract
// @Tags EmployeeContracts
// @Accept json
// @Produce json
// @Param body body employeeContractBody true "Assignment"
// @Success 201 {object} models.EmployeeContract
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employee-contracts [post]
func (h *EmployeeHandler) AssignContract(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	var body employeeContractBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid input")
	}
	if body.EmployeeID == "" || body.ContractID == "" {
		return badRequest(c, "employee_id and contract_id are required")
	}

	employee, err := h.ownedEmployee(c, businessID, body.EmployeeID)
	if employee == nil {
		return err
	}

	contract, err := services.GetContractByID(c.UserContext(), h.DB, body.ContractID, services.GetOptions{})
	if err != nil {
		return errorResponse(c, err, "employeeContracts.create")
	}
	if contract.UserID != businessID {
		return forbidden(c, "You do not have access to this contract")
	}

	association, err := services.CreateEmployeeContract(c.UserContext(), h.DB, employee.ID, contract.ID)
	if err != nil {
		return errorResponse(c, err, "employeeContracts.create")
	}

	return c.Status(fiber.StatusCreated).JSON(association)
}

// QueryContracts handles GET /api/employee-contracts
// @Summary Query employee contract assignments
// @Description Assignments of the caller's employees, with employee and contract resolved.
// @Tags EmployeeContracts
// @Produce json
// @Param employee_id query string false "Employee ID"
// @Param contract_id query string false "Contract ID"
// @Success 200 {array} models.EmployeeContract
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employee-contracts [get]
func (h *EmployeeHandler) QueryContracts(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	associations, err := services.QueryEmployeeContracts(c.UserContext(), h.DB, services.EmployeeContractFilter{
		EmployeeID: first(c, "employee_id", "employeeId"),
		ContractID: first(c, "contract_id", "contractId"),
		BusinessID: businessID,
	})
	if err != nil {
		return errorResponse(c, err, "employeeContracts.query")
	}

	return c.Status(fiber.StatusOK).JSON(associations)
}

// RemoveContracts handles DELETE /api/employee-contracts
// @Summary Remove employee contract assignments
// @Tags EmployeeContracts
// @Produce json
// @Param employee_id query string false "Employee ID"
// @Param contract_id query string false "Contract ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /employee-contracts [delete]
func (h *EmployeeHandler) RemoveContracts(c *fiber.Ctx) error {
	businessID, err := getUserID(c)
	if err != nil {
		return forbidden(c, err.Error())
	}

	filter := services.EmployeeContractFilter{
		EmployeeID: first(c, "employee_id", "employeeId"),
		ContractID: first(c, "contract_id", "contractId"),
		BusinessID: businessID,
	}
	if filter.EmployeeID == "" && filter.ContractID == "" {
		return badRequest(c, "employee_id or contract_id is required")
	}

	affected, err := services.DeleteEmployeeContracts(c.UserContext(), h.DB, filter)
	if err != nil {
		return errorResponse(c, err, "employeeContracts.delete")
	}

	return utils.MutationSuccessResponse(c, "Employee contract removed", affected)
}
