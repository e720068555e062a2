package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pistanero/storefront/internal/orders"
)

// OrderNotifier fans a status change into the order_events topic and the
// email queue. Both legs are best-effort; the caller only ever logs the
// returned error.
type OrderNotifier struct {
	Events EventSink
	Mailer *Mailer
	Log    *slog.Logger
}

func (n *OrderNotifier) OrderStatusChanged(ctx context.Context, notice orders.StatusNotice) error {
	if n.Events != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":     "order_status_changed",
			"order_id": notice.OrderID,
			"status":   notice.Status,
			"total":    notice.Total,
		}
		if err := n.Events.PublishEvent(ctx, "order_events", fmt.Sprint(notice.OrderID), event); err != nil {
			n.Log.Warn("order event publish failed", "order_id", notice.OrderID, "err", err)
		}
	}

	if n.Mailer != nil && notice.Email != "" {
		n.Mailer.Enqueue(StatusEmail{
			To:      notice.Email,
			Name:    notice.Name,
			OrderID: notice.OrderID,
			Status:  notice.Status,
			Total:   notice.Total,
		})
	}
	return nil
}
