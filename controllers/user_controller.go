package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/permissions"
	"github.com/cpclub/clubhub/utils"
)

// UserController exposes the member directory to administrators.
type UserController struct {
	users UserDirectory
}

// NewUserController creates a UserController.
func NewUserController(users UserDirectory) *UserController {
	return &UserController{users: users}
}

// Search returns users matching q on name, email or student id.
func (u *UserController) Search(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageUsers); !ok {
		return
	}

	users, err := u.users.Search(ctx.Request.Context(), ctx.Query("q"), 20)
	if err != nil {
		internalError(ctx, "search users", err)
		return
	}
	utils.Success(ctx, users)
}
