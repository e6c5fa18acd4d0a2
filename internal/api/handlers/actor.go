package handlers

import (
	"errors"
	"net/http"

	"firetrack-backend/internal/services"
	"firetrack-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the service-layer actor from the identity the auth
// middleware stored on the context.
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		ID:          c.GetString("user_id"),
		DisplayName: c.GetString("display_name"),
		Role:        c.GetString("role"),
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.ErrorResponse(c, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrAuthorization):
		utils.ErrorResponse(c, http.StatusForbidden, message, err)
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrNoOpenAnomaly):
		// Double-resolve from a stale screen is harmless; report the no-op.
		utils.ErrorResponse(c, http.StatusConflict, "Nothing to resolve", err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
