package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "github.com/crucial-sub/sub-board/internal/delivery/context"
	"github.com/crucial-sub/sub-board/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// heartbeatInterval paces the comment lines that keep proxies from idling
// the stream out.
const heartbeatInterval = 25 * time.Second

// NotificationHandler bridges the in-process hub to SSE connections.
type NotificationHandler struct {
	hub    service.NotificationHub
	logger *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler, injected by Fx.
func NewNotificationHandler(hub service.NotificationHub, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		hub:    hub,
		logger: logger,
	}
}

// Stream holds the connection open and forwards the user's events as SSE
// frames. One hub subscription per connection; it is released when the
// client goes away.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	sub := h.hub.Subscribe(userID)
	defer sub.Close()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.C():
			if !ok {
				return nil
			}

			payload, err := json.Marshal(event)
			if err != nil {
				logger.Warn("Failed to encode notification event", slog.Any("error", err))

				continue
			}

			fmt.Fprintf(res, "data: %s\n\n", payload)
			res.Flush()
		case <-ticker.C:
			fmt.Fprint(res, ": ping\n\n")
			res.Flush()
		}
	}
}
