package repository

import (
	"pos-backend/entity"

	"gorm.io/gorm"
)

type TableRepository struct{ DB *gorm.DB }

func NewTableRepository(db *gorm.DB) *TableRepository { return &TableRepository{DB: db} }

func (r *TableRepository) GetTable(tx *gorm.DB, id uint) (*entity.Table, error) {
	var t entity.Table
	if err := tx.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// flag ความไม่ว่างเปลี่ยนได้จาก transition ของ SessionService เท่านั้น ให้ flag ตรงกับออเดอร์จริงเสมอ
func (r *TableRepository) SetOccupied(tx *gorm.DB, tableID uint, occupied bool) (int64, error) {
	res := tx.Model(&entity.Table{}).Where("id = ?", tableID).
		Update("is_occupied", occupied)
	return res.RowsAffected, res.Error
}

func (r *TableRepository) ListTables() ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.Order("table_number ASC").Find(&out).Error
	return out, err
}

func (r *TableRepository) ListEmpty() ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.Where("is_occupied = ?", false).
		Order("table_number ASC").Find(&out).Error
	return out, err
}

// โต๊ะที่ flag ว่าไม่ว่างตอนนี้ (cache ฝั่ง tables)
func (r *TableRepository) ListOccupied() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&entity.Table{}).Where("is_occupied = ?", true).
		Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// ความจริงจากฝั่ง orders: โต๊ะที่มีออเดอร์ open/held ค้างอยู่
// ใช้ตอน RefreshOccupancy — อ่านอย่างเดียว ไม่แตะ orders
func (r *TableRepository) OpenTableIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&entity.Order{}).
		Distinct("table_id").
		Where("status IN ? AND table_id IS NOT NULL",
			[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld}).
		Order("table_id ASC").
		Pluck("table_id", &ids).Error
	return ids, err
}
