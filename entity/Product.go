package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name     string          `gorm:"not null" json:"name"`
	SKU      string          `gorm:"size:64;uniqueIndex" json:"sku"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	IsActive bool            `gorm:"not null;default:true" json:"isActive"`

	CategoryID uint     `json:"categoryId"`
	Category   Category `json:"-"` // preload เฉพาะตอนต้องการชื่อหมวด

	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}
