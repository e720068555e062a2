// Package cart maintains the per-user durable cart. Rows live in the
// relational store so a cart survives reloads and new sessions; name and
// unit price are snapshotted at add time.
package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/models"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem appends a new line with quantity 1, or increments the quantity
// when the product is already in the cart. It never fails on duplicates.
func (s *Store) AddItem(ctx context.Context, userID uint, p *models.Product) (models.CartItem, error) {
	var item models.CartItem
	tx := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, p.ID).
		First(&item)
	if tx.Error == nil {
		item.Quantity += 1
		if err := s.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return models.CartItem{}, err
		}
		return item, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return models.CartItem{}, tx.Error
	}

	imageURL := ""
	if len(p.ImageURLs) > 0 {
		imageURL = p.ImageURLs[0]
	}
	item = models.CartItem{
		UserID:    userID,
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
		ImageURL:  imageURL,
	}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// RemoveItem deletes the line for the product; absent lines are a no-op.
func (s *Store) RemoveItem(ctx context.Context, userID, productID uint) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

// UpdateQuantity sets the line quantity. A quantity of zero or below
// removes the line, same as RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	var item models.CartItem
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	item.Quantity = uint(quantity)
	return s.DB.WithContext(ctx).Save(&item).Error
}

func (s *Store) Clear(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// TotalItems is the unit count across all lines, shown as the cart badge.
func TotalItems(items []models.CartItem) uint {
	var n uint
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is always derived from the lines, never stored.
func TotalPrice(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
