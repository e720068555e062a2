package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pistanero/storefront/internal/notify"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// publish pushes a domain event with a bounded timeout; delivery failures
// are logged and never surfaced to the caller.
func publish(c echo.Context, sink notify.EventSink, topic, key string, event map[string]any) {
	if sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := sink.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
