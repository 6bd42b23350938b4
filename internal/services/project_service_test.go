package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/models"
)

type ProjectServiceTestSuite struct {
	serviceSuite
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func (s *ProjectServiceTestSuite) TestPMCreateBecomesManager() {
	pm := s.createEmployee(models.RolePM, nil)
	other := s.createEmployee(models.RolePM, nil)

	project, err := s.projectService.Create(s.ctx, s.employeeActor(pm), CreateProjectInput{
		Name: "Website",
		PMID: &other.ID,
	})
	s.Require().NoError(err)
	s.Require().NotNil(project.PMID)
	s.Equal(pm.ID, *project.PMID)
	s.Equal(models.ProjectStatusPlanning, project.Status)

	_, err = s.projectService.Get(s.ctx, s.employeeActor(pm), project.ID)
	s.NoError(err)
}

func (s *ProjectServiceTestSuite) TestAdminCreate() {
	admin := s.adminActor()
	pm := s.createEmployee(models.RolePM, nil)

	project, err := s.projectService.Create(s.ctx, admin, CreateProjectInput{Name: "Ops", PMID: &pm.ID})
	s.Require().NoError(err)
	s.Equal(&pm.ID, project.PMID)
	s.Require().NotNil(project.PM)
	s.Equal(pm.ID, project.PM.ID)

	unmanaged, err := s.projectService.Create(s.ctx, admin, CreateProjectInput{Name: "Orphan"})
	s.Require().NoError(err)
	s.Nil(unmanaged.PMID)

	_, err = s.projectService.Create(s.ctx, admin, CreateProjectInput{Name: "Ghost", PMID: ptr("00000000-0000-0000-0000-000000000000")})
	s.ErrorIs(err, ErrProjectManagerNotFound)

	_, err = s.projectService.Create(s.ctx, admin, CreateProjectInput{Name: " "})
	s.ErrorIs(err, ErrProjectNameRequired)

	_, err = s.projectService.Create(s.ctx, admin, CreateProjectInput{Name: "Late", StartDate: ptr(s.date("2024-02-01")), EndDate: ptr(s.date("2024-01-01"))})
	s.ErrorIs(err, ErrInvalidDateRange)

	_, err = s.projectService.Create(s.ctx, admin, CreateProjectInput{Name: "Odd", Status: "Paused"})
	s.ErrorIs(err, ErrInvalidProjectStatus)
}

func (s *ProjectServiceTestSuite) TestPMUpdateKeepsManager() {
	pm := s.createEmployee(models.RolePM, nil)
	other := s.createEmployee(models.RolePM, nil)
	project := s.createProject(&pm.ID)

	updated, err := s.projectService.Update(s.ctx, s.employeeActor(pm), project.ID, UpdateProjectInput{
		Name:   ptr("Renamed"),
		PMID:   &other.ID,
		Status: ptr(models.ProjectStatusInProgress),
	})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
	s.Equal(models.ProjectStatusInProgress, updated.Status)
	s.Equal(&pm.ID, updated.PMID)

	reassigned, err := s.projectService.Update(s.ctx, s.adminActor(), project.ID, UpdateProjectInput{PMID: &other.ID})
	s.Require().NoError(err)
	s.Equal(&other.ID, reassigned.PMID)

	_, err = s.projectService.Update(s.ctx, s.employeeActor(pm), project.ID, UpdateProjectInput{Name: ptr("again")})
	s.ErrorIs(err, apierrors.ErrInsufficientPermission)
}

func (s *ProjectServiceTestSuite) TestScopes() {
	pm := s.createEmployee(models.RolePM, nil)
	other := s.createEmployee(models.RolePM, nil)
	employee := s.createEmployee(models.RoleEmployee, &pm.ID)
	own := s.createProject(&pm.ID)
	foreign := s.createProject(&other.ID)

	projects, total, err := s.projectService.List(s.ctx, s.employeeActor(pm), ListProjectsInput{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(own.ID, projects[0].ID)

	err = s.projectService.Delete(s.ctx, s.employeeActor(pm), foreign.ID)
	s.ErrorIs(err, apierrors.ErrInsufficientPermission)

	projects, total, err = s.projectService.List(s.ctx, s.employeeActor(employee), ListProjectsInput{})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(projects, 2)

	_, err = s.projectService.Create(s.ctx, s.employeeActor(employee), CreateProjectInput{Name: "mine"})
	s.ErrorIs(err, apierrors.ErrInsufficientPermission)
}

func (s *ProjectServiceTestSuite) TestDeleteCascadesTasks() {
	pm := s.createEmployee(models.RolePM, nil)
	project := s.createProject(&pm.ID)
	task := s.createTask(project.ID, nil)

	s.Require().NoError(s.projectService.Delete(s.ctx, s.employeeActor(pm), project.ID))

	_, err := s.taskService.Get(s.ctx, s.adminActor(), task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	err = s.projectService.Delete(s.ctx, s.adminActor(), project.ID)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ProjectServiceTestSuite) TestManagerDeleteUnassignsProject() {
	pm := s.createEmployee(models.RolePM, nil)
	project := s.createProject(&pm.ID)

	s.Require().NoError(s.employeeService.Delete(s.ctx, s.adminActor(), pm.ID))

	found, err := s.projectService.Get(s.ctx, s.adminActor(), project.ID)
	s.Require().NoError(err)
	s.Nil(found.PMID)
}
