package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/dto"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/services"
	"github.com/yukikurage/pms-api/internal/utils"
)

// EmployeeHandler serves employee profiles.
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// ListEmployees returns the employees visible to the caller. Can filter by manager_id
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	employees, total, err := h.employeeService.List(c.Request.Context(), actor, services.ListEmployeesInput{
		ManagerID:  queryRef(c, "manager_id"),
		Pagination: params,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	listResponse(c, "employees", dto.ToEmployeeDTOs(employees), params, total)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	type CreateEmployeeRequest struct {
		UserID     string  `json:"user_id" binding:"required,uuid"`
		ManagerID  *string `json:"manager_id"`
		FirstName  string  `json:"first_name" binding:"required,max=100"`
		LastName   string  `json:"last_name" binding:"required,max=100"`
		Department *string `json:"department" binding:"omitempty,max=100"`
		Position   *string `json:"position" binding:"omitempty,max=100"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), actor, services.CreateEmployeeInput{
		UserID:     req.UserID,
		ManagerID:  req.ManagerID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeDTO(*employee))
}

// UpdateEmployee updates an employee. "manager_id": "" removes the manager.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	type UpdateEmployeeRequest struct {
		ManagerID  *string `json:"manager_id"`
		FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
		LastName   *string `json:"last_name" binding:"omitempty,max=100"`
		Department *string `json:"department" binding:"omitempty,max=100"`
		Position   *string `json:"position" binding:"omitempty,max=100"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), actor, c.Param("id"), services.UpdateEmployeeInput{
		ManagerID:  req.ManagerID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
