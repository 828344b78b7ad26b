package entity

import (
	"gorm.io/gorm"
)

// KitchenTicket เป็น mirror ของครัว — core นี้ย้าย table_id ให้ตอน transfer เท่านั้น
// (ตัวป้อนคิวครัวจริงเป็น consumer ของ pos.events)
type KitchenTicket struct {
	gorm.Model
	TableID uint `gorm:"index;not null" json:"tableId"`
	OrderID uint `gorm:"index;not null" json:"orderId"`

	ProductName string `json:"productName"`
	Qty         int    `json:"qty"`
	Status      string `gorm:"size:16;default:queued" json:"status"`
}
