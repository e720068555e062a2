package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/cart"
	"github.com/pistanero/storefront/internal/checkout"
	authmw "github.com/pistanero/storefront/internal/middleware/auth"
	"github.com/pistanero/storefront/internal/models"
	"github.com/pistanero/storefront/internal/notify"
	"github.com/pistanero/storefront/internal/orders"
)

type CheckoutHandler struct {
	DB       *gorm.DB
	Cart     *cart.Store
	Sessions checkout.SessionStore
	Orders   *orders.Service
	Events   notify.EventSink
}

func (h *CheckoutHandler) session(c echo.Context) (*checkout.Session, error) {
	sess, err := h.Sessions.Get(c.Request().Context(), authmw.UserID(c))
	if errors.Is(err, checkout.ErrSessionNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no active checkout")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return sess, nil
}

func (h *CheckoutHandler) save(c echo.Context, sess *checkout.Session) error {
	if err := h.Sessions.Save(c.Request().Context(), sess); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sess)
}

// Begin starts (or resumes) a checkout for the caller's cart. The route
// sits behind RequireUser, so an unauthenticated caller never gets here.
func (h *CheckoutHandler) Begin(c echo.Context) error {
	userID := authmw.UserID(c)
	ctx := c.Request().Context()

	items, err := h.Cart.Items(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	sess, err := h.Sessions.Get(ctx, userID)
	if errors.Is(err, checkout.ErrSessionNotFound) {
		sess = checkout.NewSession(userID)
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	} else {
		sess.Resume()
	}

	return h.save(c, sess)
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *CheckoutHandler) SetDelivery(c echo.Context) error {
	var req struct {
		DeliveryMethod string `json:"delivery_method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if err := sess.SetDeliveryMethod(checkout.DeliveryMethod(req.DeliveryMethod)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.save(c, sess)
}

func (h *CheckoutHandler) SetTransaction(c echo.Context) error {
	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.session(c)
	if err != nil {
		return err
	}
	sess.SetTransactionID(req.TransactionID)
	return h.save(c, sess)
}

// BackToCart is always permitted; entered details stay on the session.
func (h *CheckoutHandler) BackToCart(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	sess.Back()
	return h.save(c, sess)
}

func (h *CheckoutHandler) Abandon(c echo.Context) error {
	if err := h.Sessions.Delete(c.Request().Context(), authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Submit turns the session and cart into an order. Validation failures
// are client errors with zero side effects; a persistence failure leaves
// cart and session untouched and is retryable.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	userID := authmw.UserID(c)

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
	}

	sess, err := h.session(c)
	if err != nil {
		return err
	}

	order, err := h.Orders.Place(c.Request().Context(), &user, sess)
	switch {
	case errors.Is(err, checkout.ErrTransactionID),
		errors.Is(err, checkout.ErrNotAtCheckoutStep),
		errors.Is(err, orders.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to place order, please try again")
	}

	publish(c, h.Events, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.Total,
	})
	return c.JSON(http.StatusCreated, order)
}
