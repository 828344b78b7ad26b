package entity

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	Name  string `gorm:"not null;index" json:"name"`
	Phone string `json:"phone"`
}
