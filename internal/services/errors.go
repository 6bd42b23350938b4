package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/pms-api/internal/constants"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = apierrors.NewConflict("Username already in use")
	ErrInvalidCredentials = apierrors.NewUnauthenticated("Invalid credentials")
	ErrUsernameLength     = apierrors.NewValidation(fmt.Sprintf("Username must be between %d and %d characters", constants.MinUsernameLength, constants.MaxUsernameLength))
	ErrPasswordTooShort   = apierrors.NewValidation(fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	ErrPasswordTooLong    = apierrors.NewValidation(fmt.Sprintf("Password must be at most %d bytes", constants.MaxPasswordBytes))
	ErrInvalidRole        = apierrors.NewValidation("Invalid role")
	ErrUserNotFound       = apierrors.NewNotFound("User not found")

	ErrEmployeeNotFound     = apierrors.NewNotFound("Employee not found")
	ErrEmployeeUserNotFound = apierrors.NewNotFound("User not found for employee")
	ErrEmployeeExists       = apierrors.NewConflict("Employee already exists for this user")
	ErrManagerNotFound      = apierrors.NewNotFound("Manager not found")
	ErrManagerCycle         = apierrors.NewValidation("Manager assignment would create a reporting cycle")
	ErrNameRequired         = apierrors.NewValidation("First and last name are required")

	ErrProjectNotFound        = apierrors.NewNotFound("Project not found")
	ErrProjectManagerNotFound = apierrors.NewNotFound("Project manager not found")
	ErrProjectNotManaged      = apierrors.NewForbidden("Project not accessible for this user")
	ErrProjectNameRequired    = apierrors.NewValidation("Name is required")
	ErrInvalidProjectStatus   = apierrors.NewValidation("Invalid project status")
	ErrInvalidDateRange       = apierrors.NewValidation("End date must not be before start date")

	ErrTaskNotFound      = apierrors.NewNotFound("Task not found")
	ErrAssigneeNotFound  = apierrors.NewNotFound("Assignee not found")
	ErrTitleRequired     = apierrors.NewValidation("Title is required")
	ErrInvalidTaskStatus = apierrors.NewValidation("Invalid task status")
	ErrInvalidPriority   = apierrors.NewValidation("Invalid task priority")

	ErrAIServiceNotConfigured = apierrors.NewUnavailable("AI service is not configured")
	ErrAINoTasksGenerated     = apierrors.NewValidation("AI did not generate any tasks")
	ErrAINoValidTasks         = apierrors.NewValidation("No valid tasks could be created from AI output")

	ErrTimesheetNotFound      = apierrors.NewNotFound("Timesheet not found")
	ErrInvalidPeriod          = apierrors.NewValidation("Period end must not be before period start")
	ErrInvalidTotalHours      = apierrors.NewValidation("Total hours must be between 0 and 999.99")
	ErrInvalidTimesheetStatus = apierrors.NewValidation("Invalid timesheet status")

	ErrTimelogNotFound    = apierrors.NewNotFound("Timelog not found")
	ErrInvalidHours       = apierrors.NewValidation(fmt.Sprintf("Hours must be between 0 and %.2f", constants.MaxTimelogHours))
	ErrTimesheetOwnership = apierrors.NewValidation("Employee does not own the provided timesheet")

	ErrConcurrentModification = apierrors.NewConflict("The record was modified concurrently, please retry")
	ErrValueOutOfRange        = apierrors.NewValidation("Value out of range")
	ErrReferenceNotFound      = apierrors.NewValidation("Referenced record does not exist")
)

// maxTotalHours is the largest value a DECIMAL(5,2) total column holds.
const maxTotalHours = 999.99

// storeError maps a repository failure onto the service error taxonomy.
// notFound replaces gorm.ErrRecordNotFound when non-nil.
func storeError(err error, notFound error, action string) error {
	if err == nil {
		return nil
	}

	var de *apierrors.DomainError
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repository.ErrSerialization):
		return ErrConcurrentModification
	case errors.Is(err, repository.ErrOutOfRange):
		return ErrValueOutOfRange
	case errors.Is(err, repository.ErrForeignKey):
		return ErrReferenceNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// findOr returns notFound for a missing record and wraps other failures.
func findOr[T any](record *T, err error, notFound error, action string) (*T, error) {
	if err != nil {
		return nil, storeError(err, notFound, action)
	}
	return record, nil
}
