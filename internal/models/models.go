package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered:
		return true
	}
	return false
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Price       float64   `gorm:"not null"                  json:"price"`
	Category    string    `gorm:"not null;index"            json:"category"`
	Section     string    `gorm:"not null;index"            json:"section"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Size        string    `json:"size"`
	ImageURLs   []string  `gorm:"serializer:json"           json:"image_urls"`
	IsFeatured  bool      `gorm:"default:false;index"       json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRole grants elevated access by presence of a row; a user without an
// "admin" row is an ordinary customer.
type UserRole struct {
	ID     uint   `gorm:"primaryKey"                         json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role   string `gorm:"not null;uniqueIndex:idx_user_role" json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// CartItem snapshots name and unit price at add time so cart totals do not
// drift when an admin edits the product afterwards.
type CartItem struct {
	ID        uint    `gorm:"primaryKey"                                 json:"id"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Name      string  `gorm:"not null"                                   json:"name"`
	UnitPrice float64 `gorm:"not null"                                   json:"unit_price"`
	Quantity  uint    `gorm:"not null;default:1;check:quantity>0"        json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

// Order is immutable after creation except for Status.
type Order struct {
	ID             uint        `gorm:"primaryKey"         json:"id"`
	UserID         uint        `gorm:"index;not null"     json:"user_id"`
	Total          float64     `gorm:"not null"           json:"total"`
	Status         OrderStatus `gorm:"not null"           json:"status"`
	TransactionID  string      `gorm:"not null"           json:"transaction_id"`
	DeliveryMethod string      `gorm:"not null"           json:"delivery_method"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	Phone          string      `json:"phone"`
	CreatedAt      time.Time   `json:"created_at"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                json:"id"`
	OrderID   uint    `gorm:"index;not null"            json:"order_id"`
	ProductID uint    `gorm:"not null"                  json:"product_id"`
	Name      string  `gorm:"not null"                  json:"name"`
	UnitPrice float64 `gorm:"not null"                  json:"unit_price"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
}

type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null"   json:"title"`
	Excerpt   string    `json:"excerpt"`
	Tag       string    `gorm:"not null"   json:"tag"`
	DateLabel string    `json:"date_label"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
