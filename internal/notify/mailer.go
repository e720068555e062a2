package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pistanero/storefront/internal/models"
)

var statusMessages = map[models.OrderStatus]struct {
	Subject string
	Message string
}{
	models.OrderStatusPending: {
		Subject: "Order Received - Payment Pending Verification",
		Message: "We have received your order and are verifying your payment. We'll update you once confirmed.",
	},
	models.OrderStatusProcessing: {
		Subject: "Payment Verified - Order Processing",
		Message: "Your payment has been verified! Your order is now being processed and will be ready for pickup/delivery soon.",
	},
	models.OrderStatusDelivered: {
		Subject: "Order Delivered",
		Message: "Your order has been delivered! Thank you for shopping with Pistanero. We hope to see you again!",
	},
}

type StatusEmail struct {
	To      string
	Name    string
	OrderID uint
	Status  models.OrderStatus
	Total   float64
}

type MailerConfig struct {
	Endpoint string
	APIKey   string
	From     string
}

// Mailer delivers status emails off the request path. Enqueue never
// blocks; the worker retries a few times with backoff and then drops the
// email with a log line. At-most-once, no stronger guarantee.
type Mailer struct {
	cfg     MailerConfig
	client  *http.Client
	queue   chan StatusEmail
	log     *slog.Logger
	wg      sync.WaitGroup
	once    sync.Once
	retries int
	backoff time.Duration
}

func NewMailer(cfg MailerConfig, log *slog.Logger) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		queue:   make(chan StatusEmail, 64),
		log:     log,
		retries: 3,
		backoff: 2 * time.Second,
	}
	m.wg.Add(1)
	go m.worker()
	return m
}

func (m *Mailer) Enqueue(e StatusEmail) {
	select {
	case m.queue <- e:
	default:
		m.log.Warn("mail queue full, dropping status email",
			"order_id", e.OrderID, "status", e.Status)
	}
}

func (m *Mailer) Close() {
	m.once.Do(func() { close(m.queue) })
	m.wg.Wait()
}

func (m *Mailer) worker() {
	defer m.wg.Done()
	for e := range m.queue {
		var err error
		for attempt := 1; attempt <= m.retries; attempt++ {
			if err = m.send(e); err == nil {
				break
			}
			m.log.Warn("status email attempt failed",
				"order_id", e.OrderID, "attempt", attempt, "err", err)
			if attempt < m.retries {
				time.Sleep(m.backoff)
			}
		}
		if err != nil {
			m.log.Error("status email dropped after retries",
				"order_id", e.OrderID, "status", e.Status, "err", err)
		} else {
			m.log.Info("status email sent",
				"order_id", e.OrderID, "status", e.Status)
		}
	}
}

func (m *Mailer) send(e StatusEmail) error {
	if m.cfg.APIKey == "" {
		m.log.Info("mail api key not set, skipping status email",
			"order_id", e.OrderID, "status", e.Status)
		return nil
	}

	tpl, ok := statusMessages[e.Status]
	if !ok {
		tpl = statusMessages[models.OrderStatusPending]
	}

	payload := map[string]any{
		"from":    m.cfg.From,
		"to":      []string{e.To},
		"subject": fmt.Sprintf("Pistanero - %s", tpl.Subject),
		"html":    renderStatusHTML(e, tpl.Message),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail api returned %s", resp.Status)
	}
	return nil
}

func renderStatusHTML(e StatusEmail, message string) string {
	return fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<p>Hi <strong>%s</strong>,</p>
<p>%s</p>
<table style="width:100%%;border-collapse:collapse">
<tr><td>Order</td><td style="text-align:right;font-family:monospace">#%d</td></tr>
<tr><td>Status</td><td style="text-align:right;font-weight:bold">%s</td></tr>
<tr><td>Total</td><td style="text-align:right;font-weight:bold">%.2f</td></tr>
</table>
<p style="color:#888;font-size:11px">Pistanero - The Home of Sports</p>
</div>`,
		e.Name, message, e.OrderID, e.Status, e.Total,
	)
}
