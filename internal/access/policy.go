package access

import "github.com/yukikurage/pms-api/internal/models"

type Resource string

const (
	ResourceUser      Resource = "user"
	ResourceEmployee  Resource = "employee"
	ResourceProject   Resource = "project"
	ResourceTask      Resource = "task"
	ResourceTimesheet Resource = "timesheet"
	ResourceTimelog   Resource = "timelog"
)

// Label is the capitalized resource name used in messages.
func (r Resource) Label() string {
	switch r {
	case ResourceUser:
		return "User"
	case ResourceEmployee:
		return "Employee"
	case ResourceProject:
		return "Project"
	case ResourceTask:
		return "Task"
	case ResourceTimesheet:
		return "Timesheet"
	case ResourceTimelog:
		return "Timelog"
	}
	return string(r)
}

type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Scope names the slice of the ownership graph an operation may touch.
type Scope int

const (
	// ScopeDeny forbids the operation.
	ScopeDeny Scope = iota
	// ScopeAll allows every record.
	ScopeAll
	// ScopeSelf covers the actor's own employee record.
	ScopeSelf
	// ScopeSelfAndReports covers the actor and its direct reports.
	ScopeSelfAndReports
	// ScopeManagedProjects covers projects whose PM is the actor.
	ScopeManagedProjects
	// ScopeManagedProjectTasks covers tasks of projects whose PM is the actor.
	ScopeManagedProjectTasks
	// ScopeAssignedTasks covers tasks assigned to the actor.
	ScopeAssignedTasks
	// ScopeOwnRecords covers timesheets or timelogs owned by the actor.
	ScopeOwnRecords
	// ScopeReportsRecords covers timesheets or timelogs of the actor's direct reports.
	ScopeReportsRecords
)

func (s Scope) String() string {
	switch s {
	case ScopeDeny:
		return "deny"
	case ScopeAll:
		return "all"
	case ScopeSelf:
		return "self"
	case ScopeSelfAndReports:
		return "self_and_reports"
	case ScopeManagedProjects:
		return "managed_projects"
	case ScopeManagedProjectTasks:
		return "managed_project_tasks"
	case ScopeAssignedTasks:
		return "assigned_tasks"
	case ScopeOwnRecords:
		return "own_records"
	case ScopeReportsRecords:
		return "reports_records"
	}
	return "unknown"
}

// Rules maps operations on one resource to scopes.
type Rules map[Operation]Scope

// Policy is the role -> resource -> operation -> scope table. Missing
// entries deny.
type Policy map[models.Role]map[Resource]Rules

// Lookup returns the scope for the triple, ScopeDeny when absent.
func (p Policy) Lookup(role models.Role, resource Resource, op Operation) Scope {
	resources, ok := p[role]
	if !ok {
		return ScopeDeny
	}
	rules, ok := resources[resource]
	if !ok {
		return ScopeDeny
	}
	scope, ok := rules[op]
	if !ok {
		return ScopeDeny
	}
	return scope
}

func allOps(scope Scope) Rules {
	return Rules{OpList: scope, OpGet: scope, OpCreate: scope, OpUpdate: scope, OpDelete: scope}
}

func readOnly(scope Scope) Rules {
	return Rules{OpList: scope, OpGet: scope}
}

// DefaultPolicy is the access table enforced by the API.
var DefaultPolicy = Policy{
	models.RoleAdmin: {
		ResourceUser:      allOps(ScopeAll),
		ResourceEmployee:  allOps(ScopeAll),
		ResourceProject:   allOps(ScopeAll),
		ResourceTask:      allOps(ScopeAll),
		ResourceTimesheet: allOps(ScopeAll),
		ResourceTimelog:   allOps(ScopeAll),
	},
	models.RolePM: {
		ResourceEmployee:  readOnly(ScopeSelfAndReports),
		ResourceProject:   allOps(ScopeManagedProjects),
		ResourceTask:      allOps(ScopeManagedProjectTasks),
		ResourceTimesheet: readOnly(ScopeReportsRecords),
		ResourceTimelog:   readOnly(ScopeReportsRecords),
	},
	models.RoleEmployee: {
		ResourceEmployee:  readOnly(ScopeSelf),
		ResourceProject:   readOnly(ScopeAll),
		ResourceTask:      readOnly(ScopeAssignedTasks),
		ResourceTimesheet: readOnly(ScopeOwnRecords),
		ResourceTimelog:   readOnly(ScopeOwnRecords),
	},
}
