package entity

import (
	"gorm.io/gorm"
)

type Table struct {
	gorm.Model
	TableNumber int  `gorm:"uniqueIndex;not null" json:"tableNumber"`
	IsOccupied  bool `gorm:"not null;default:false" json:"isOccupied"`

	// preload เฉพาะตอนต้องการประวัติของโต๊ะ
	Orders []Order `json:"-"`
}
