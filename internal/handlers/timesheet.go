package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/dto"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/services"
	"github.com/yukikurage/pms-api/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TimesheetHandler struct {
	timesheetService *services.TimesheetService
	exportService    *services.ExportService
}

func NewTimesheetHandler(timesheetService *services.TimesheetService, exportService *services.ExportService) *TimesheetHandler {
	return &TimesheetHandler{
		timesheetService: timesheetService,
		exportService:    exportService,
	}
}

// ListTimesheets returns the timesheets visible to the caller. Can filter by
// employee_id and status
func (h *TimesheetHandler) ListTimesheets(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input := services.ListTimesheetsInput{
		EmployeeID: queryRef(c, "employee_id"),
		Pagination: utils.GetPaginationParams(c),
	}
	if status := queryRef(c, "status"); status != nil {
		s := models.TimesheetStatus(*status)
		input.Status = &s
	}

	timesheets, total, err := h.timesheetService.List(c.Request.Context(), actor, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	listResponse(c, "timesheets", dto.ToTimesheetDTOs(timesheets), input.Pagination, total)
}

func (h *TimesheetHandler) GetTimesheet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	timesheet, err := h.timesheetService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimesheetDTO(*timesheet))
}

// CreateTimesheet creates a timesheet. total_hours, when given, is stored as is.
func (h *TimesheetHandler) CreateTimesheet(c *gin.Context) {
	type CreateTimesheetRequest struct {
		EmployeeID  string                 `json:"employee_id" binding:"required"`
		PeriodStart string                 `json:"period_start" binding:"required"`
		PeriodEnd   string                 `json:"period_end" binding:"required"`
		TotalHours  *float64               `json:"total_hours"`
		Status      models.TimesheetStatus `json:"status"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateTimesheetRequest
	if !bindJSON(c, &req) {
		return
	}

	periodStart, err := parseDate("period_start", req.PeriodStart)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	periodEnd, err := parseDate("period_end", req.PeriodEnd)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	timesheet, err := h.timesheetService.Create(c.Request.Context(), actor, services.CreateTimesheetInput{
		EmployeeID:  req.EmployeeID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalHours:  req.TotalHours,
		Status:      req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimesheetDTO(*timesheet))
}

func (h *TimesheetHandler) UpdateTimesheet(c *gin.Context) {
	type UpdateTimesheetRequest struct {
		PeriodStart *string                 `json:"period_start"`
		PeriodEnd   *string                 `json:"period_end"`
		TotalHours  *float64                `json:"total_hours"`
		Status      *models.TimesheetStatus `json:"status"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateTimesheetRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateTimesheetInput{TotalHours: req.TotalHours, Status: req.Status}
	if req.PeriodStart != nil {
		periodStart, err := parseDate("period_start", *req.PeriodStart)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		input.PeriodStart = &periodStart
	}
	if req.PeriodEnd != nil {
		periodEnd, err := parseDate("period_end", *req.PeriodEnd)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		input.PeriodEnd = &periodEnd
	}

	timesheet, err := h.timesheetService.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimesheetDTO(*timesheet))
}

// DeleteTimesheet deletes a timesheet together with its timelogs.
func (h *TimesheetHandler) DeleteTimesheet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.timesheetService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Timesheet deleted successfully"})
}

// ExportTimesheets downloads the visible timesheets as an xlsx workbook.
func (h *TimesheetHandler) ExportTimesheets(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	buf, err := h.exportService.ExportTimesheets(c.Request.Context(), actor)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	filename := fmt.Sprintf("timesheets-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
