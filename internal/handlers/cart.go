package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/cart"
	authmw "github.com/pistanero/storefront/internal/middleware/auth"
	"github.com/pistanero/storefront/internal/models"
	"github.com/pistanero/storefront/internal/notify"
)

type CartHandler struct {
	DB     *gorm.DB
	Cart   *cart.Store
	Events notify.EventSink
}

func (h *CartHandler) cartView(c echo.Context, userID uint) error {
	items, err := h.Cart.Items(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":       items,
		"total_items": cart.TotalItems(items),
		"total_price": cart.TotalPrice(items),
	})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return h.cartView(c, authmw.UserID(c))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID := authmw.UserID(c)

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item, err := h.Cart.AddItem(c.Request().Context(), userID, &product)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Events, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": product.ID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID := authmw.UserID(c)

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Cart.UpdateQuantity(c.Request().Context(), userID, uint(productID), req.Quantity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Events, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":      "cart_quantity_updated",
		"userID":    userID,
		"productID": productID,
		"quantity":  req.Quantity,
	})
	return h.cartView(c, userID)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID := authmw.UserID(c)

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Cart.RemoveItem(c.Request().Context(), userID, uint(productID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Events, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return h.cartView(c, userID)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID := authmw.UserID(c)

	if err := h.Cart.Clear(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Events, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return h.cartView(c, userID)
}
