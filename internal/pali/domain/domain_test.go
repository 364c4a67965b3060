package domain

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	require.True(t, RoleAdmin.Can(CapabilityManageKeys))
	require.True(t, RoleAdmin.Can(CapabilityUseResources))
	require.True(t, RoleClient.Can(CapabilityUseResources))
	require.False(t, RoleClient.Can(CapabilityManageKeys))
	require.False(t, Role("root").Can(CapabilityUseResources))

	require.Equal(t, []string{"resources:use", "keys:manage"}, RoleAdmin.Scopes())
	require.Equal(t, []string{"resources:use"}, RoleClient.Scopes())
	require.Empty(t, Role("root").Scopes())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Admin ")
	require.True(t, ok)
	require.Equal(t, RoleAdmin, r)

	r, ok = ParseRole("client")
	require.True(t, ok)
	require.Equal(t, RoleClient, r)

	_, ok = ParseRole("superuser")
	require.False(t, ok)

	require.True(t, RoleClient.Valid())
	require.False(t, Role("Admin").Valid())
}

func TestTodoPatchApply(t *testing.T) {
	desc := "old"
	todo := Todo{Title: "a", Description: &desc, Priority: 2}

	require.False(t, TodoPatch{}.Apply(&todo))

	done := true
	require.True(t, TodoPatch{Completed: &done}.Apply(&todo))
	require.True(t, todo.Completed)
	require.Equal(t, "a", todo.Title)
	require.Equal(t, "old", *todo.Description)
	require.Equal(t, 2, todo.Priority)

	title, prio := "b", 4
	due := time.Unix(1700000000, 0).UTC()
	require.True(t, TodoPatch{Title: &title, Priority: &prio, DueDate: &due}.Apply(&todo))
	require.Equal(t, "b", todo.Title)
	require.Equal(t, 4, todo.Priority)
	require.True(t, due.Equal(*todo.DueDate))
}

func TestKeyRoleValidation(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterWithValidator(v))

	type req struct {
		Role Role `validate:"required,key_role"`
	}
	require.NoError(t, v.Struct(req{Role: RoleAdmin}))
	require.NoError(t, v.Struct(req{Role: RoleClient}))
	require.Error(t, v.Struct(req{Role: "root"}))
	require.Error(t, v.Struct(req{}))
}
