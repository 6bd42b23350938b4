package access

import (
	"context"
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
)

// ErrUnknownUser is returned when a credential names a user that no longer exists.
var ErrUnknownUser = apierrors.NewUnauthenticated("Authentication required")

// Actor is the authenticated caller of one request. Employee is nil when no
// profile is linked to the user, which is valid for any role.
type Actor struct {
	UserID   string
	Username string
	Role     models.Role
	Employee *models.Employee
}

// EmployeeID returns the actor's employee id, or "" without a profile.
func (a *Actor) EmployeeID() string {
	if a == nil || a.Employee == nil {
		return ""
	}
	return a.Employee.ID
}

// HasProfile reports whether an employee is linked to the actor.
func (a *Actor) HasProfile() bool {
	return a != nil && a.Employee != nil
}

// UserFinder loads users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EmployeeFinder loads the employee linked to a user.
type EmployeeFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.Employee, error)
}

// IdentityResolver turns a verified user id into an Actor. Role and profile
// are read fresh on every call.
type IdentityResolver struct {
	users     UserFinder
	employees EmployeeFinder
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(users UserFinder, employees EmployeeFinder) *IdentityResolver {
	return &IdentityResolver{users: users, employees: employees}
}

// ResolveEmployee returns the employee linked to userID, or nil when none is.
func (r *IdentityResolver) ResolveEmployee(ctx context.Context, userID string) (*models.Employee, error) {
	employee, err := r.employees.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve employee: %w", err)
	}
	return employee, nil
}

// Resolve builds the actor for userID.
func (r *IdentityResolver) Resolve(ctx context.Context, userID string) (*Actor, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	employee, err := r.ResolveEmployee(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Actor{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Employee: employee,
	}, nil
}

type actorContextKey struct{}

// WithActor stores the actor in ctx.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(*Actor)
	return actor, ok && actor != nil
}
