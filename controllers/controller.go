package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/middleware"
	"github.com/cpclub/clubhub/permissions"
	"github.com/cpclub/clubhub/utils"
)

// internalMessage is the only text an unexpected error may surface.
const internalMessage = "Something went wrong"

// requireCapability extracts the principal and runs the permission gate.
// On failure it writes the generic denial envelope; the capability name is
// never echoed to the client.
func requireCapability(ctx *gin.Context, capability string) (middleware.Principal, bool) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return middleware.Principal{}, false
	}
	if !permissions.Allowed(principal.Role, capability) {
		utils.Fail(ctx, http.StatusForbidden, permissions.DeniedMessage)
		return middleware.Principal{}, false
	}
	return principal, true
}

// internalError logs the cause server-side and returns the generic envelope.
func internalError(ctx *gin.Context, action string, err error) {
	if utils.Sugar != nil {
		utils.Sugar.Errorw("action failed", "action", action, "error", err)
	}
	utils.Fail(ctx, http.StatusInternalServerError, internalMessage)
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
