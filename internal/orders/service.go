// Package orders turns a cart plus a checkout session into a persisted
// order and drives the admin status lifecycle.
package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/cart"
	"github.com/pistanero/storefront/internal/checkout"
	"github.com/pistanero/storefront/internal/models"
)

var (
	ErrEmptyCart = errors.New("orders: cart is empty")
	ErrNotFound  = errors.New("orders: order not found")
	ErrBadStatus = errors.New("orders: unknown status")
)

// StatusNotice carries what the customer-facing notification needs.
type StatusNotice struct {
	OrderID uint
	Email   string
	Name    string
	Status  models.OrderStatus
	Total   float64
}

// Notifier delivers status notices best-effort. A returned error is logged
// and otherwise ignored; it never affects the triggering operation.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, n StatusNotice) error
}

type Service struct {
	DB       *gorm.DB
	Cart     *cart.Store
	Sessions checkout.SessionStore
	Notifier Notifier
	Log      *slog.Logger
}

// Place converts the user's cart and session into an order. The snapshot,
// order insert and cart clear happen in one transaction; a failure leaves
// cart and session untouched. On success the session is discarded.
func (s *Service) Place(ctx context.Context, user *models.User, sess *checkout.Session) (*models.Order, error) {
	if err := sess.ReadyToSubmit(); err != nil {
		return nil, err
	}

	var order models.Order
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", user.ID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{
			UserID:         user.ID,
			Total:          cart.TotalPrice(items),
			Status:         models.OrderStatusPending,
			TransactionID:  sess.TransactionID,
			DeliveryMethod: string(sess.DeliveryMethod),
			CustomerName:   user.FullName,
			CustomerEmail:  user.Email,
			Phone:          user.Phone,
			CreatedAt:      time.Now(),
		}
		for _, it := range items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.Sessions.Delete(ctx, user.ID); err != nil {
		s.Log.Warn("checkout session cleanup failed", "user_id", user.ID, "err", err)
	}

	s.notify(ctx, &order)
	return &order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (s *Service) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetStatus persists the new status and then notifies best-effort. Any
// status is settable from any status; admins use this to correct records.
// Notification failure never rolls the change back.
func (s *Service) SetStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrBadStatus
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status

	s.notify(ctx, order)
	return order, nil
}

func (s *Service) notify(ctx context.Context, order *models.Order) {
	if s.Notifier == nil || order.CustomerEmail == "" {
		return
	}
	notice := StatusNotice{
		OrderID: order.ID,
		Email:   order.CustomerEmail,
		Name:    order.CustomerName,
		Status:  order.Status,
		Total:   order.Total,
	}
	if err := s.Notifier.OrderStatusChanged(ctx, notice); err != nil {
		s.Log.Warn("order notification failed",
			"order_id", order.ID, "status", order.Status, "err", err)
	}
}

type Stats struct {
	TotalOrders int64   `json:"total_orders"`
	GrossSales  float64 `json:"gross_sales"`
	Pending     int64   `json:"pending"`
	Processing  int64   `json:"processing"`
	Delivered   int64   `json:"delivered"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var rows []struct {
		Status models.OrderStatus
		N      int64
		Sales  float64
	}
	err := s.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS n, COALESCE(SUM(total), 0) AS sales").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, r := range rows {
		st.TotalOrders += r.N
		st.GrossSales += r.Sales
		switch r.Status {
		case models.OrderStatusPending:
			st.Pending = r.N
		case models.OrderStatusProcessing:
			st.Processing = r.N
		case models.OrderStatusDelivered:
			st.Delivered = r.N
		}
	}
	return st, nil
}
