package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/pms-api/internal/models"
)

func TestDefaultPolicy(t *testing.T) {
	tests := []struct {
		role     models.Role
		resource Resource
		op       Operation
		want     Scope
	}{
		{models.RoleAdmin, ResourceUser, OpDelete, ScopeAll},
		{models.RoleAdmin, ResourceTimelog, OpCreate, ScopeAll},
		{models.RolePM, ResourceUser, OpList, ScopeDeny},
		{models.RolePM, ResourceEmployee, OpList, ScopeSelfAndReports},
		{models.RolePM, ResourceEmployee, OpCreate, ScopeDeny},
		{models.RolePM, ResourceProject, OpCreate, ScopeManagedProjects},
		{models.RolePM, ResourceProject, OpDelete, ScopeManagedProjects},
		{models.RolePM, ResourceTask, OpUpdate, ScopeManagedProjectTasks},
		{models.RolePM, ResourceTimesheet, OpGet, ScopeReportsRecords},
		{models.RolePM, ResourceTimesheet, OpUpdate, ScopeDeny},
		{models.RolePM, ResourceTimelog, OpCreate, ScopeDeny},
		{models.RoleEmployee, ResourceUser, OpGet, ScopeDeny},
		{models.RoleEmployee, ResourceEmployee, OpGet, ScopeSelf},
		{models.RoleEmployee, ResourceProject, OpList, ScopeAll},
		{models.RoleEmployee, ResourceProject, OpCreate, ScopeDeny},
		{models.RoleEmployee, ResourceTask, OpList, ScopeAssignedTasks},
		{models.RoleEmployee, ResourceTask, OpDelete, ScopeDeny},
		{models.RoleEmployee, ResourceTimesheet, OpList, ScopeOwnRecords},
		{models.RoleEmployee, ResourceTimelog, OpUpdate, ScopeDeny},
		{models.Role("Guest"), ResourceProject, OpList, ScopeDeny},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.resource)+"/"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPolicy.Lookup(tt.role, tt.resource, tt.op))
		})
	}
}

func TestIDSet(t *testing.T) {
	s := NewIDSet("b", "a", "", "b")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has(""))
	assert.Equal(t, []string{"a", "b"}, s.Slice())
	assert.Equal(t, []string{"a", "b", "c"}, s.Union(NewIDSet("c")).Slice())
}
