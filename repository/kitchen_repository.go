package repository

import (
	"pos-backend/entity"

	"gorm.io/gorm"
)

type KitchenRepository struct{ DB *gorm.DB }

func NewKitchenRepository(db *gorm.DB) *KitchenRepository { return &KitchenRepository{DB: db} }

// ย้าย ticket ของครัวไปโต๊ะใหม่ — เรียกจาก Transfer เท่านั้น อยู่ใน tx เดียวกับ orders/tables
func (r *KitchenRepository) MoveTickets(tx *gorm.DB, fromTableID, toTableID uint) error {
	return tx.Model(&entity.KitchenTicket{}).
		Where("table_id = ?", fromTableID).
		Update("table_id", toTableID).Error
}

func (r *KitchenRepository) TicketsForTable(tableID uint) ([]entity.KitchenTicket, error) {
	var out []entity.KitchenTicket
	err := r.DB.Where("table_id = ?", tableID).Order("id ASC").Find(&out).Error
	return out, err
}
