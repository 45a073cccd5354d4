package service

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	alice := env.createUser(t, "alice", model.RoleUser)

	promoted, err := env.user.ChangeRole(alice.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	// 有两名管理员时降级没问题
	demoted, err := env.user.ChangeRole(admin.ID, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, demoted.Role)

	// alice 现在是最后一名管理员
	_, err = env.user.ChangeRole(alice.ID, model.RoleUser)
	assert.ErrorIs(t, err, util.ErrLastAdmin)

	_, err = env.user.ChangeRole(alice.ID, "superuser")
	assert.True(t, util.IsValidation(err))

	_, err = env.user.ChangeRole(9999, model.RoleAdmin)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUpdateUsername(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)

	// 自己改自己
	updated, err := env.user.UpdateUsername(claimsFor(alice), alice.ID, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	// 管理员改别人
	updated, err = env.user.UpdateUsername(claimsFor(admin), bob.ID, "bob2")
	require.NoError(t, err)
	assert.Equal(t, "bob2", updated.Username)

	// 普通用户改别人不行
	_, err = env.user.UpdateUsername(claimsFor(alice), bob.ID, "hacked")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.user.UpdateUsername(claimsFor(alice), alice.ID, "")
	assert.True(t, util.IsValidation(err))
}
