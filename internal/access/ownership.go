package access

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
)

// IDSet is an unordered set of entity ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, skipping empty strings.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s IDSet) Union(other IDSet) IDSet {
	out := make(IDSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Slice returns the members in sorted order.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// GraphReader supplies the raw id lookups for Graph.
type GraphReader interface {
	EmployeeIDsByManager(ctx context.Context, managerID string) ([]string, error)
	ProjectIDsByPM(ctx context.Context, pmID string) ([]string, error)
	TaskIDsByProjects(ctx context.Context, projectIDs []string) ([]string, error)
	TaskIDsByAssignee(ctx context.Context, employeeID string) ([]string, error)
	TimesheetIDsByEmployees(ctx context.Context, employeeIDs []string) ([]string, error)
	TimelogIDsByEmployees(ctx context.Context, employeeIDs []string) ([]string, error)
	ManagerIDOf(ctx context.Context, employeeID string) (*string, error)
}

// Graph answers ownership questions over manager -> employee -> project ->
// task -> timesheet -> timelog. An empty employee id yields an empty set.
type Graph struct {
	reader GraphReader
}

// NewGraph creates a new Graph
func NewGraph(reader GraphReader) *Graph {
	return &Graph{reader: reader}
}

// DirectReports returns employees whose manager is employeeID. Single hop.
func (g *Graph) DirectReports(ctx context.Context, employeeID string) (IDSet, error) {
	if employeeID == "" {
		return IDSet{}, nil
	}
	ids, err := g.reader.EmployeeIDsByManager(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// ManagedProjects returns projects whose PM is employeeID.
func (g *Graph) ManagedProjects(ctx context.Context, employeeID string) (IDSet, error) {
	if employeeID == "" {
		return IDSet{}, nil
	}
	ids, err := g.reader.ProjectIDsByPM(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// TasksOfProjects returns every task belonging to the given projects.
func (g *Graph) TasksOfProjects(ctx context.Context, projectIDs IDSet) (IDSet, error) {
	if len(projectIDs) == 0 {
		return IDSet{}, nil
	}
	ids, err := g.reader.TaskIDsByProjects(ctx, projectIDs.Slice())
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// AssignedTasks returns tasks assigned to employeeID.
func (g *Graph) AssignedTasks(ctx context.Context, employeeID string) (IDSet, error) {
	if employeeID == "" {
		return IDSet{}, nil
	}
	ids, err := g.reader.TaskIDsByAssignee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// TimesheetsOfEmployees returns timesheets owned by any of employeeIDs.
func (g *Graph) TimesheetsOfEmployees(ctx context.Context, employeeIDs IDSet) (IDSet, error) {
	if len(employeeIDs) == 0 {
		return IDSet{}, nil
	}
	ids, err := g.reader.TimesheetIDsByEmployees(ctx, employeeIDs.Slice())
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// TimelogsOfEmployees returns timelogs recorded by any of employeeIDs.
func (g *Graph) TimelogsOfEmployees(ctx context.Context, employeeIDs IDSet) (IDSet, error) {
	if len(employeeIDs) == 0 {
		return IDSet{}, nil
	}
	ids, err := g.reader.TimelogIDsByEmployees(ctx, employeeIDs.Slice())
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// ManagerChain walks manager links upward from employeeID, nearest manager
// first. It stops at a missing manager or at the first repeated id, so a
// cycle already present in storage cannot loop forever.
func (g *Graph) ManagerChain(ctx context.Context, employeeID string) ([]string, error) {
	chain := []string{}
	visited := NewIDSet(employeeID)

	current := employeeID
	for current != "" {
		managerID, err := g.reader.ManagerIDOf(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if managerID == nil || *managerID == "" || visited.Has(*managerID) {
			break
		}
		chain = append(chain, *managerID)
		visited.Add(*managerID)
		current = *managerID
	}
	return chain, nil
}

// WouldCreateCycle reports whether making managerID the manager of
// employeeID closes a loop in the reporting graph.
func (g *Graph) WouldCreateCycle(ctx context.Context, employeeID, managerID string) (bool, error) {
	if managerID == "" {
		return false, nil
	}
	if managerID == employeeID {
		return true, nil
	}
	chain, err := g.ManagerChain(ctx, managerID)
	if err != nil {
		return false, err
	}
	for _, id := range chain {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}
