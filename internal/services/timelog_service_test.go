package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/models"
)

type TimelogServiceTestSuite struct {
	serviceSuite
}

func TestTimelogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimelogServiceTestSuite))
}

type timelogFixture struct {
	employee  *models.Employee
	task      *models.Task
	timesheet *models.Timesheet
}

func (s *TimelogServiceTestSuite) fixture() timelogFixture {
	pm := s.createEmployee(models.RolePM, nil)
	employee := s.createEmployee(models.RoleEmployee, &pm.ID)
	project := s.createProject(&pm.ID)
	return timelogFixture{
		employee:  employee,
		task:      s.createTask(project.ID, &employee.ID),
		timesheet: s.createTimesheet(employee.ID),
	}
}

func (s *TimelogServiceTestSuite) logHours(f timelogFixture, hours float64) *models.Timelog {
	timelog, err := s.timelogService.Create(s.ctx, s.adminActor(), CreateTimelogInput{
		TimesheetID: f.timesheet.ID,
		TaskID:      f.task.ID,
		EmployeeID:  f.employee.ID,
		Date:        s.date("2024-01-02"),
		Hours:       hours,
	})
	s.Require().NoError(err)
	return timelog
}

func (s *TimelogServiceTestSuite) TestTotalFollowsCreateAndDelete() {
	f := s.fixture()
	s.Equal(0.0, s.storedTotal(f.timesheet.ID))

	first := s.logHours(f, 3.5)
	s.Equal(3.5, s.storedTotal(f.timesheet.ID))

	s.logHours(f, 4.0)
	s.Equal(7.5, s.storedTotal(f.timesheet.ID))

	s.Require().NoError(s.timelogService.Delete(s.ctx, s.adminActor(), first.ID))
	s.Equal(4.0, s.storedTotal(f.timesheet.ID))
}

func (s *TimelogServiceTestSuite) TestUpdateRecomputesTotal() {
	f := s.fixture()
	timelog := s.logHours(f, 2)
	s.logHours(f, 1.25)

	updated, err := s.timelogService.Update(s.ctx, s.adminActor(), timelog.ID, UpdateTimelogInput{
		Hours: ptr(6.0),
		Notes: ptr("pairing session"),
	})
	s.Require().NoError(err)
	s.Equal(6.0, updated.Hours)
	s.Require().NotNil(updated.Notes)
	s.Equal("pairing session", *updated.Notes)
	s.Equal(7.25, s.storedTotal(f.timesheet.ID))
}

func (s *TimelogServiceTestSuite) TestCreateRejectsForeignTimesheet() {
	f := s.fixture()
	s.logHours(f, 3)
	other := s.createEmployee(models.RoleEmployee, nil)

	_, err := s.timelogService.Create(s.ctx, s.adminActor(), CreateTimelogInput{
		TimesheetID: f.timesheet.ID,
		TaskID:      f.task.ID,
		EmployeeID:  other.ID,
		Date:        s.date("2024-01-03"),
		Hours:       5,
	})
	s.ErrorIs(err, ErrTimesheetOwnership)
	s.ErrorIs(err, apierrors.ErrValidation)

	s.Equal(3.0, s.storedTotal(f.timesheet.ID))
	logs, total, err := s.timelogService.List(s.ctx, s.adminActor(), ListTimelogsInput{TimesheetID: &f.timesheet.ID})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(logs, 1)
}

func (s *TimelogServiceTestSuite) TestCreateMissingReferences() {
	f := s.fixture()
	missing := "00000000-0000-0000-0000-000000000000"
	admin := s.adminActor()

	cases := []struct {
		name  string
		input CreateTimelogInput
		want  error
	}{
		{"timesheet", CreateTimelogInput{TimesheetID: missing, TaskID: f.task.ID, EmployeeID: f.employee.ID}, ErrTimesheetNotFound},
		{"task", CreateTimelogInput{TimesheetID: f.timesheet.ID, TaskID: missing, EmployeeID: f.employee.ID}, ErrTaskNotFound},
		{"employee", CreateTimelogInput{TimesheetID: f.timesheet.ID, TaskID: f.task.ID, EmployeeID: missing}, ErrEmployeeNotFound},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			tc.input.Date = s.date("2024-01-02")
			tc.input.Hours = 1
			_, err := s.timelogService.Create(s.ctx, admin, tc.input)
			s.ErrorIs(err, tc.want)
			s.ErrorIs(err, apierrors.ErrNotFound)
		})
	}
	s.Equal(0.0, s.storedTotal(f.timesheet.ID))
}

func (s *TimelogServiceTestSuite) TestHoursOutOfRange() {
	f := s.fixture()
	for _, hours := range []float64{-1, 100} {
		_, err := s.timelogService.Create(s.ctx, s.adminActor(), CreateTimelogInput{
			TimesheetID: f.timesheet.ID,
			TaskID:      f.task.ID,
			EmployeeID:  f.employee.ID,
			Date:        s.date("2024-01-02"),
			Hours:       hours,
		})
		s.ErrorIs(err, ErrInvalidHours)
	}
}

func (s *TimelogServiceTestSuite) TestOnlyAdminWrites() {
	f := s.fixture()
	timelog := s.logHours(f, 2)

	pm := s.actorFor(s.mustManagerUser(f.employee))
	_, err := s.timelogService.Create(s.ctx, pm, CreateTimelogInput{
		TimesheetID: f.timesheet.ID,
		TaskID:      f.task.ID,
		EmployeeID:  f.employee.ID,
		Date:        s.date("2024-01-02"),
		Hours:       1,
	})
	s.ErrorIs(err, apierrors.ErrInsufficientPermission)

	err = s.timelogService.Delete(s.ctx, s.employeeActor(f.employee), timelog.ID)
	s.ErrorIs(err, apierrors.ErrInsufficientPermission)
	s.Equal(2.0, s.storedTotal(f.timesheet.ID))
}

func (s *TimelogServiceTestSuite) TestScopedReads() {
	f := s.fixture()
	own := s.logHours(f, 2)

	stranger := s.createEmployee(models.RoleEmployee, nil)
	strangerSheet := s.createTimesheet(stranger.ID)
	foreign, err := s.timelogService.Create(s.ctx, s.adminActor(), CreateTimelogInput{
		TimesheetID: strangerSheet.ID,
		TaskID:      f.task.ID,
		EmployeeID:  stranger.ID,
		Date:        s.date("2024-01-02"),
		Hours:       1,
	})
	s.Require().NoError(err)

	employee := s.employeeActor(f.employee)
	logs, total, err := s.timelogService.List(s.ctx, employee, ListTimelogsInput{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(own.ID, logs[0].ID)

	_, err = s.timelogService.Get(s.ctx, employee, foreign.ID)
	s.ErrorIs(err, apierrors.ErrInsufficientPermission)

	// PM sees the logs of direct reports only
	pm := s.actorFor(s.mustManagerUser(f.employee))
	logs, _, err = s.timelogService.List(s.ctx, pm, ListTimelogsInput{})
	s.Require().NoError(err)
	s.Len(logs, 1)
	s.Equal(own.ID, logs[0].ID)
}

// TestTotalsMatchSumsUnderRandomWrites drives a seeded sequence of creates,
// updates and deletes and checks every timesheet after each step.
func (s *TimelogServiceTestSuite) TestTotalsMatchSumsUnderRandomWrites() {
	rng := rand.New(rand.NewSource(42))
	admin := s.adminActor()

	f := s.fixture()
	second := s.createTimesheet(f.employee.ID)
	sheets := []*models.Timesheet{f.timesheet, second}
	var live []string

	for step := 0; step < 60; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			sheet := sheets[rng.Intn(len(sheets))]
			timelog, err := s.timelogService.Create(s.ctx, admin, CreateTimelogInput{
				TimesheetID: sheet.ID,
				TaskID:      f.task.ID,
				EmployeeID:  f.employee.ID,
				Date:        s.date("2024-01-02"),
				Hours:       float64(rng.Intn(1000)) / 100,
			})
			s.Require().NoError(err)
			live = append(live, timelog.ID)
		case op == 1:
			id := live[rng.Intn(len(live))]
			_, err := s.timelogService.Update(s.ctx, admin, id, UpdateTimelogInput{
				Hours: ptr(float64(rng.Intn(1000)) / 100),
			})
			s.Require().NoError(err)
		default:
			i := rng.Intn(len(live))
			s.Require().NoError(s.timelogService.Delete(s.ctx, admin, live[i]))
			live = append(live[:i], live[i+1:]...)
		}

		for _, sheet := range sheets {
			s.InDelta(s.sumHours(sheet.ID), s.storedTotal(sheet.ID), 0.001, "step %d", step)
		}
	}
}

func (s *TimelogServiceTestSuite) TestTaskDeleteRecomputesTotals() {
	f := s.fixture()
	otherTask := s.createTask(f.task.ProjectID, nil)
	s.logHours(f, 3)
	_, err := s.timelogService.Create(s.ctx, s.adminActor(), CreateTimelogInput{
		TimesheetID: f.timesheet.ID,
		TaskID:      otherTask.ID,
		EmployeeID:  f.employee.ID,
		Date:        s.date("2024-01-04"),
		Hours:       2,
	})
	s.Require().NoError(err)
	s.Equal(5.0, s.storedTotal(f.timesheet.ID))

	s.Require().NoError(s.taskService.Delete(s.ctx, s.adminActor(), f.task.ID))
	s.Equal(2.0, s.storedTotal(f.timesheet.ID))

	s.Require().NoError(s.projectService.Delete(s.ctx, s.adminActor(), f.task.ProjectID))
	s.Equal(0.0, s.storedTotal(f.timesheet.ID))
}

// mustManagerUser returns the user id of the employee's manager.
func (s *TimelogServiceTestSuite) mustManagerUser(employee *models.Employee) string {
	s.Require().NotNil(employee.ManagerID)
	manager, err := s.employees.FindByID(s.ctx, *employee.ManagerID)
	s.Require().NoError(err)
	return manager.UserID
}
