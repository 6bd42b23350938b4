package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
)

const timesheetSheet = "Timesheets"

var timesheetColumns = []struct {
	header string
	width  float64
}{
	{"ID", 38},
	{"Employee ID", 38},
	{"Employee", 28},
	{"Period Start", 14},
	{"Period End", 14},
	{"Total Hours", 12},
	{"Status", 12},
}

// ExportService renders the timesheets visible to an actor as a workbook.
type ExportService struct {
	timesheets repository.TimesheetRepository
	access     *access.Engine
}

// NewExportService creates a new ExportService
func NewExportService(timesheets repository.TimesheetRepository, engine *access.Engine) *ExportService {
	return &ExportService{timesheets: timesheets, access: engine}
}

// ExportTimesheets writes one row per timesheet the actor may list.
func (s *ExportService) ExportTimesheets(ctx context.Context, actor *access.Actor) (*bytes.Buffer, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceTimesheet, access.OpList)
	if err != nil {
		return nil, err
	}

	timesheets, _, err := s.timesheets.List(ctx, repository.TimesheetFilter{
		Scope:        scopeOf(decision),
		WithEmployee: true,
	})
	if err != nil {
		return nil, storeError(err, nil, "list timesheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timesheetSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range timesheetColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(timesheetSheet, cell, col.header)
		f.SetCellStyle(timesheetSheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(timesheetSheet, colName, colName, col.width)
	}

	for i, ts := range timesheets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(timesheetSheet, cell, &[]interface{}{
			ts.ID,
			ts.EmployeeID,
			employeeName(ts.Employee),
			utils.FormatDate(ts.PeriodStart),
			utils.FormatDate(ts.PeriodEnd),
			ts.TotalHours,
			string(ts.Status),
		}); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf, nil
}

func employeeName(e *models.Employee) string {
	if e == nil {
		return ""
	}
	return e.FirstName + " " + e.LastName
}
