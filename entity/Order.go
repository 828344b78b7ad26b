package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	InvoiceNo    string      `gorm:"size:32;uniqueIndex;not null" json:"invoiceNo"`
	Status       OrderStatus `gorm:"size:16;not null;default:open" json:"status"`
	PaymentType  PaymentType `gorm:"size:16;not null;default:cash" json:"paymentType"`
	CustomerName string      `json:"customerName"`
	CancelReason string      `json:"cancelReason,omitempty"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"taxAmount"`
	Shipping      decimal.Decimal `gorm:"type:decimal(12,2)" json:"shipping"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount"`
	ExtraDiscount decimal.Decimal `gorm:"type:decimal(12,2)" json:"extraDiscount"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`

	// โต๊ะคงอยู่แม้ออเดอร์ปิดแล้ว (ไว้ทำรายงาน) — occupancy อิงจาก status เท่านั้น
	TableID *uint  `json:"tableId"`
	Table   *Table `json:"-"`

	Items []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
