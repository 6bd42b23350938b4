package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
	"gorm.io/gorm"
)

// UserService manages accounts. Every operation is Admin-only by policy.
type UserService struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	tx        repository.TxManager
	access    *access.Engine
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository, employees repository.EmployeeRepository, tx repository.TxManager, engine *access.Engine) *UserService {
	return &UserService{users: users, employees: employees, tx: tx, access: engine}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Username string
	Password string
	Role     models.Role
}

// UpdateUserInput represents input for updating a user
type UpdateUserInput struct {
	Password *string
	Role     *models.Role
}

func (s *UserService) List(ctx context.Context, actor *access.Actor, page utils.PaginationParams) ([]models.User, int64, error) {
	if _, err := s.access.Authorize(ctx, actor, access.ResourceUser, access.OpList); err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.List(ctx, &page)
	if err != nil {
		return nil, 0, storeError(err, nil, "list users")
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, actor *access.Actor, id string) (*models.User, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceUser, access.OpGet, id); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	return findOr(user, err, ErrUserNotFound, "find user")
}

// Create creates a user. Non-admin roles get a placeholder employee profile
// in the same transaction.
func (s *UserService) Create(ctx context.Context, actor *access.Actor, input CreateUserInput) (*models.User, error) {
	if _, err := s.access.Authorize(ctx, actor, access.ResourceUser, access.OpCreate); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = models.RoleEmployee
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: hash, Role: input.Role}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if user.Role == models.RoleAdmin {
			return nil
		}
		return s.employees.Create(ctx, placeholderEmployee(user))
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, storeError(err, nil, "create user")
	}

	logger.InfoLog(ctx, "user %s created by %s", user.ID, actor.UserID)
	return user, nil
}

// Update changes password and/or role. Moving to a non-admin role creates
// the missing employee profile.
func (s *UserService) Update(ctx context.Context, actor *access.Actor, id string, input UpdateUserInput) (*models.User, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceUser, access.OpUpdate, id); err != nil {
		return nil, err
	}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var user *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.users.FindByID(ctx, id)
		if err != nil {
			return storeError(err, ErrUserNotFound, "find user")
		}
		user = found

		if input.Password != nil {
			hash, err := hashPassword(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		if input.Role != nil {
			user.Role = *input.Role
		}

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		if user.Role == models.RoleAdmin {
			return nil
		}

		_, err = s.employees.FindByUserID(ctx, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.employees.Create(ctx, placeholderEmployee(user))
		}
		return err
	})
	if err != nil {
		return nil, storeError(err, ErrUserNotFound, "update user")
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if _, err := s.access.Check(ctx, actor, access.ResourceUser, access.OpDelete, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(err, ErrUserNotFound, "delete user")
	}
	logger.InfoLog(ctx, "user %s deleted by %s", id, actor.UserID)
	return nil
}

func placeholderEmployee(user *models.User) *models.Employee {
	position := string(user.Role)
	return &models.Employee{
		UserID:    user.ID,
		FirstName: user.Username,
		LastName:  "User",
		Position:  &position,
	}
}
