// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"github.com/crucial-sub/sub-board/internal/delivery/http/middleware"
	"github.com/crucial-sub/sub-board/internal/delivery/http/response"
	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// currentUserID reads the authenticated user's ID set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrAccessTokenInvalid
	}

	return userID, nil
}

// pathUUID parses a path parameter as a UUID.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name)
	}

	return id, nil
}

// parseUUID parses a UUID carried in a request body field.
func parseUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + field)
	}

	return id, nil
}

// sessionMetadata captures the request provenance stored on new sessions.
func sessionMetadata(c echo.Context) entity.SessionMetadata {
	return entity.SessionMetadata{
		UserAgent: c.Request().UserAgent(),
		IPAddress: c.RealIP(),
	}
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
