package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/dto"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/services"
	"github.com/yukikurage/pms-api/internal/utils"
)

type TimelogHandler struct {
	timelogService *services.TimelogService
}

func NewTimelogHandler(timelogService *services.TimelogService) *TimelogHandler {
	return &TimelogHandler{timelogService: timelogService}
}

// ListTimelogs returns the timelogs visible to the caller. Can filter by
// timesheet_id and task_id
func (h *TimelogHandler) ListTimelogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	timelogs, total, err := h.timelogService.List(c.Request.Context(), actor, services.ListTimelogsInput{
		TimesheetID: queryRef(c, "timesheet_id"),
		TaskID:      queryRef(c, "task_id"),
		Pagination:  params,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	listResponse(c, "timelogs", dto.ToTimelogDTOs(timelogs), params, total)
}

func (h *TimelogHandler) GetTimelog(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	timelog, err := h.timelogService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimelogDTO(*timelog))
}

// CreateTimelog records hours and refreshes the timesheet total.
func (h *TimelogHandler) CreateTimelog(c *gin.Context) {
	type CreateTimelogRequest struct {
		TimesheetID string   `json:"timesheet_id" binding:"required"`
		TaskID      string   `json:"task_id" binding:"required"`
		EmployeeID  string   `json:"employee_id" binding:"required"`
		Date        string   `json:"date" binding:"required"`
		Hours       *float64 `json:"hours" binding:"required"`
		Notes       *string  `json:"notes"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateTimelogRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	timelog, err := h.timelogService.Create(c.Request.Context(), actor, services.CreateTimelogInput{
		TimesheetID: req.TimesheetID,
		TaskID:      req.TaskID,
		EmployeeID:  req.EmployeeID,
		Date:        date,
		Hours:       *req.Hours,
		Notes:       req.Notes,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimelogDTO(*timelog))
}

func (h *TimelogHandler) UpdateTimelog(c *gin.Context) {
	type UpdateTimelogRequest struct {
		Date  *string  `json:"date"`
		Hours *float64 `json:"hours"`
		Notes *string  `json:"notes"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateTimelogRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateTimelogInput{Hours: req.Hours, Notes: req.Notes}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		input.Date = &date
	}

	timelog, err := h.timelogService.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimelogDTO(*timelog))
}

// DeleteTimelog deletes a timelog and refreshes the timesheet total.
func (h *TimelogHandler) DeleteTimelog(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.timelogService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Timelog deleted successfully"})
}
