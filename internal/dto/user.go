package dto

import (
	"time"

	"github.com/yukikurage/pms-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EmployeeSummaryDTO is the short form of an employee embedded in other resources
type EmployeeSummaryDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ManagerID  *string   `json:"manager_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Department *string   `json:"department"`
	Position   *string   `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       *UserDTO  `json:"user,omitempty"`
}

// MeDTO describes the authenticated user with the linked employee, if any
type MeDTO struct {
	UserDTO
	Employee *EmployeeDTO `json:"employee"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token    string       `json:"token"`
	User     UserDTO      `json:"user"`
	Employee *EmployeeDTO `json:"employee,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToEmployeeDTO converts an Employee model to EmployeeDTO
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         employee.ID,
		UserID:     employee.UserID,
		ManagerID:  employee.ManagerID,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		Department: employee.Department,
		Position:   employee.Position,
		CreatedAt:  employee.CreatedAt,
		UpdatedAt:  employee.UpdatedAt,
	}

	// Include user if preloaded
	if employee.User != nil {
		user := ToUserDTO(*employee.User)
		dto.User = &user
	}

	return dto
}

// ToEmployeeDTOs converts a slice of employees
func ToEmployeeDTOs(employees []models.Employee) []EmployeeDTO {
	items := make([]EmployeeDTO, len(employees))
	for i, employee := range employees {
		items[i] = ToEmployeeDTO(employee)
	}
	return items
}

func toEmployeeSummary(employee *models.Employee) *EmployeeSummaryDTO {
	if employee == nil {
		return nil
	}
	return &EmployeeSummaryDTO{
		ID:        employee.ID,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
	}
}

// ToMeDTO converts the current user and optional employee profile
func ToMeDTO(user models.User, employee *models.Employee) MeDTO {
	me := MeDTO{UserDTO: ToUserDTO(user)}
	if employee != nil {
		e := ToEmployeeDTO(*employee)
		e.User = nil
		me.Employee = &e
	}
	return me
}

// ToAuthResponse builds the register/login response
func ToAuthResponse(token string, user models.User, employee *models.Employee) AuthResponse {
	resp := AuthResponse{Token: token, User: ToUserDTO(user)}
	if employee != nil {
		e := ToEmployeeDTO(*employee)
		e.User = nil
		resp.Employee = &e
	}
	return resp
}
