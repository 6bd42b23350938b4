package access

import (
	"context"
	"fmt"

	apierrors "github.com/yukikurage/pms-api/internal/errors"
)

var (
	ErrNotAuthenticated = apierrors.NewUnauthenticated("Authentication required")
	ErrPermissionDenied = apierrors.NewForbidden("Insufficient permissions")
	ErrProfileNotFound  = apierrors.NewForbidden("Employee profile not found")
)

// Decision is the outcome of an authorization check. For scoped decisions
// IDs holds every record of the resource the actor may touch.
type Decision struct {
	Resource     Resource
	Scope        Scope
	Unrestricted bool
	EmployeeID   string
	IDs          IDSet
	// ProjectIDs holds the projects whose tasks are in scope, for task decisions
	ProjectIDs IDSet
}

// Allows reports whether the record id is inside the decision.
func (d Decision) Allows(id string) bool {
	return d.Unrestricted || d.IDs.Has(id)
}

// AllowsProject reports whether tasks may be created under projectID.
func (d Decision) AllowsProject(projectID string) bool {
	return d.Unrestricted || d.ProjectIDs.Has(projectID)
}

// VisibleIDs returns the scoped ids in sorted order, nil when unrestricted.
func (d Decision) VisibleIDs() []string {
	if d.Unrestricted {
		return nil
	}
	return d.IDs.Slice()
}

// Engine is the single gate consulted before any read or write.
type Engine struct {
	policy Policy
	graph  *Graph
}

// NewEngine creates a new Engine
func NewEngine(policy Policy, graph *Graph) *Engine {
	return &Engine{policy: policy, graph: graph}
}

// Graph exposes the ownership graph the engine resolves scopes against.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// Authorize decides whether actor may perform op on resource and, for scoped
// access, which records it covers. A PM or Employee without a profile gets an
// empty decision for lists and ErrProfileNotFound otherwise.
func (e *Engine) Authorize(ctx context.Context, actor *Actor, resource Resource, op Operation) (Decision, error) {
	if actor == nil {
		return Decision{}, ErrNotAuthenticated
	}

	scope := e.policy.Lookup(actor.Role, resource, op)
	decision := Decision{
		Resource:   resource,
		Scope:      scope,
		EmployeeID: actor.EmployeeID(),
		IDs:        IDSet{},
		ProjectIDs: IDSet{},
	}

	switch scope {
	case ScopeDeny:
		return Decision{}, ErrPermissionDenied
	case ScopeAll:
		decision.Unrestricted = true
		return decision, nil
	}

	if !actor.HasProfile() {
		if op == OpList {
			return decision, nil
		}
		return Decision{}, ErrProfileNotFound
	}

	if err := e.resolve(ctx, &decision); err != nil {
		return Decision{}, fmt.Errorf("failed to resolve %s scope: %w", scope, err)
	}
	return decision, nil
}

// Check authorizes op on the record id. Scoped actors get ErrPermissionDenied
// for any id outside their scope, whether or not the record exists.
func (e *Engine) Check(ctx context.Context, actor *Actor, resource Resource, op Operation, id string) (Decision, error) {
	decision, err := e.Authorize(ctx, actor, resource, op)
	if err != nil {
		return Decision{}, err
	}
	if !decision.Allows(id) {
		return Decision{}, apierrors.NewForbidden(fmt.Sprintf("%s not accessible for this user", resource.Label()))
	}
	return decision, nil
}

func (e *Engine) resolve(ctx context.Context, d *Decision) error {
	self := d.EmployeeID

	switch d.Scope {
	case ScopeSelf:
		d.IDs = NewIDSet(self)

	case ScopeSelfAndReports:
		reports, err := e.graph.DirectReports(ctx, self)
		if err != nil {
			return err
		}
		d.IDs = reports.Union(NewIDSet(self))

	case ScopeManagedProjects:
		projects, err := e.graph.ManagedProjects(ctx, self)
		if err != nil {
			return err
		}
		d.IDs = projects
		d.ProjectIDs = projects

	case ScopeManagedProjectTasks:
		projects, err := e.graph.ManagedProjects(ctx, self)
		if err != nil {
			return err
		}
		tasks, err := e.graph.TasksOfProjects(ctx, projects)
		if err != nil {
			return err
		}
		d.ProjectIDs = projects
		d.IDs = tasks

	case ScopeAssignedTasks:
		tasks, err := e.graph.AssignedTasks(ctx, self)
		if err != nil {
			return err
		}
		d.IDs = tasks

	case ScopeOwnRecords:
		return e.resolveRecords(ctx, d, NewIDSet(self))

	case ScopeReportsRecords:
		reports, err := e.graph.DirectReports(ctx, self)
		if err != nil {
			return err
		}
		return e.resolveRecords(ctx, d, reports)

	default:
		return fmt.Errorf("unsupported scope %s", d.Scope)
	}
	return nil
}

// resolveRecords fills timesheet or timelog ids owned by employees.
func (e *Engine) resolveRecords(ctx context.Context, d *Decision, employees IDSet) error {
	var (
		ids IDSet
		err error
	)
	switch d.Resource {
	case ResourceTimesheet:
		ids, err = e.graph.TimesheetsOfEmployees(ctx, employees)
	case ResourceTimelog:
		ids, err = e.graph.TimelogsOfEmployees(ctx, employees)
	default:
		return fmt.Errorf("scope %s does not apply to %s", d.Scope, d.Resource)
	}
	if err != nil {
		return err
	}
	d.IDs = ids
	return nil
}
