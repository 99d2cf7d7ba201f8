package tables

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"both parts", "Ada", "Lovelace", "Ada Lovelace"},
		{"first only", "Ada", "", "Ada"},
		{"last only", "", "Lovelace", "Lovelace"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FirstName: tt.first, LastName: tt.last}
			assert.Equal(t, tt.want, u.FullName())
		})
	}
}

func TestUserRoleHelpers(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	manager := &User{Role: RoleManager}
	regular := &User{Role: RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsStaff())
	assert.False(t, admin.IsManager())

	assert.True(t, manager.IsManager())
	assert.True(t, manager.IsStaff())
	assert.False(t, manager.IsAdmin())

	assert.False(t, regular.IsStaff())
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := &User{Username: "ada", PasswordHash: "$argon2id$..."}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "argon2id")
	assert.NotContains(t, string(data), "password_hash")
}
