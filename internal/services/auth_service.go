package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/pms-api/internal/auth"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrFailedToHashPassword is returned when bcrypt rejects the password.
var ErrFailedToHashPassword = errors.New("failed to hash password")

// AuthService handles authentication related business logic.
type AuthService struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	tx        repository.TxManager
	tokens    *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, employees repository.EmployeeRepository, tx repository.TxManager, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:     users,
		employees: employees,
		tx:        tx,
		tokens:    tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User     *models.User
	Employee *models.Employee
	Token    string
}

// Register creates an Employee-role user together with its employee profile
// in one transaction and issues a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, err
	}

	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleEmployee,
	}
	employee := &models.Employee{
		FirstName: username,
		LastName:  "User",
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		employee.UserID = user.ID
		return s.employees.Create(ctx, employee)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, storeError(err, nil, "complete registration")
	}

	logger.InfoLog(ctx, "registered user %s", user.ID)
	return s.result(user, employee)
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	employee, err := s.employees.FindByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return s.result(user, employee)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	return findOr(user, err, ErrUserNotFound, "find user")
}

func (s *AuthService) result(user *models.User, employee *models.Employee) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Employee: employee, Token: token}, nil
}

func (s *AuthService) ensureUsernameFree(ctx context.Context, username string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

func validateCredentials(username, password string) error {
	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return ErrUsernameLength
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > constants.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}
