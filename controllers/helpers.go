package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/modentca/modentca-api/middleware"
	"github.com/modentca/modentca-api/utils"
)

// getUserID extracts the authenticated user ID placed by the auth middleware.
// It writes a 401 and returns false when the ID is missing.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "authentication required")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid authentication context")
		return 0, false
	}
	return id, true
}

// parseUintParam parses a numeric path parameter, writing a 400 on failure.
func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}
