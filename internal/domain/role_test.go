package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Can(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, PermCategoryCreate, true},
		{RoleAdmin, PermCategoryUpdate, true},
		{RoleAdmin, PermCategoryDelete, true},
		{RoleUser, PermCategoryCreate, false},
		{RoleAuditor, PermCategoryDelete, false},
		{RoleAdministrator, PermCategoryCreate, false},
		{RoleUser, PermFileUpload, true},
		{RoleAuditor, PermFileList, true},
		{Role("ROOT"), PermFileRead, false},
		{RoleAdmin, Permission("unknown"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.Can(tt.perm), "%s %s", tt.role, tt.perm)
	}
}

func TestParseFilesRole(t *testing.T) {
	t.Parallel()

	r, ok := ParseFilesRole("PROFESSOR")
	assert.True(t, ok)
	assert.Equal(t, RoleProfessor, r)

	_, ok = ParseFilesRole("ADMIN")
	assert.False(t, ok)
	_, ok = ParseFilesRole("")
	assert.False(t, ok)
}

func TestUpstreamRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RoleAdministrator, UpstreamRole(RoleAdmin))
	assert.Equal(t, RoleUser, UpstreamRole(RoleUser))
}

func TestRole_Classes(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAuditor.IsAccountRole())
	assert.False(t, RoleProfessor.IsAccountRole())
	assert.True(t, RoleProfessor.IsFilesRole())
	assert.False(t, RoleUser.IsFilesRole())
}
