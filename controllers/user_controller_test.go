package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/permissions"
)

func TestUserSearch(t *testing.T) {
	users := newFakeUserDirectory()
	users.users[1] = &models.User{ID: 1, Name: "Alice", Email: "alice@diu.edu.bd"}
	users.users[2] = &models.User{ID: 2, Name: "Bob", Email: "bob@diu.edu.bd"}
	users.nextID = 3
	ctrl := NewUserController(users)

	ctx, w := newTestContext(t, http.MethodGet, "/users/search?q=ali", nil)
	asAdmin(ctx)
	ctrl.Search(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	items, ok := env.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestUserSearchRequiresManageUsers(t *testing.T) {
	ctrl := NewUserController(newFakeUserDirectory())

	// Moderators hold blog and upload capabilities but not the directory.
	ctx, w := newTestContext(t, http.MethodGet, "/users/search?q=ali", nil)
	asModerator(ctx)
	ctrl.Search(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, permissions.DeniedMessage, env.Error)
}
