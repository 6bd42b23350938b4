package access

import (
	"context"

	"gorm.io/gorm"
)

// fakeGraph is an in-memory GraphReader.
type fakeGraph struct {
	managers   map[string]string   // employee -> manager
	pms        map[string]string   // project -> pm
	projects   map[string]string   // task -> project
	assignees  map[string]string   // task -> assignee
	timesheets map[string]string   // timesheet -> employee
	timelogs   map[string]string   // timelog -> employee
	employees  map[string]struct{} // known employees
	calls      int
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		managers:   map[string]string{},
		pms:        map[string]string{},
		projects:   map[string]string{},
		assignees:  map[string]string{},
		timesheets: map[string]string{},
		timelogs:   map[string]string{},
		employees:  map[string]struct{}{},
	}
}

func (f *fakeGraph) addEmployee(id, manager string) {
	f.employees[id] = struct{}{}
	if manager != "" {
		f.managers[id] = manager
	}
}

func keysWhere(m map[string]string, match func(string) bool) []string {
	out := []string{}
	for k, v := range m {
		if match(v) {
			out = append(out, k)
		}
	}
	return out
}

func in(ids []string) func(string) bool {
	set := NewIDSet(ids...)
	return set.Has
}

func eq(id string) func(string) bool {
	return func(v string) bool { return v == id }
}

func (f *fakeGraph) EmployeeIDsByManager(_ context.Context, managerID string) ([]string, error) {
	f.calls++
	return keysWhere(f.managers, eq(managerID)), nil
}

func (f *fakeGraph) ProjectIDsByPM(_ context.Context, pmID string) ([]string, error) {
	f.calls++
	return keysWhere(f.pms, eq(pmID)), nil
}

func (f *fakeGraph) TaskIDsByProjects(_ context.Context, projectIDs []string) ([]string, error) {
	f.calls++
	return keysWhere(f.projects, in(projectIDs)), nil
}

func (f *fakeGraph) TaskIDsByAssignee(_ context.Context, employeeID string) ([]string, error) {
	f.calls++
	return keysWhere(f.assignees, eq(employeeID)), nil
}

func (f *fakeGraph) TimesheetIDsByEmployees(_ context.Context, employeeIDs []string) ([]string, error) {
	f.calls++
	return keysWhere(f.timesheets, in(employeeIDs)), nil
}

func (f *fakeGraph) TimelogIDsByEmployees(_ context.Context, employeeIDs []string) ([]string, error) {
	f.calls++
	return keysWhere(f.timelogs, in(employeeIDs)), nil
}

func (f *fakeGraph) ManagerIDOf(_ context.Context, employeeID string) (*string, error) {
	f.calls++
	if _, ok := f.employees[employeeID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	manager, ok := f.managers[employeeID]
	if !ok {
		return nil, nil
	}
	return &manager, nil
}
