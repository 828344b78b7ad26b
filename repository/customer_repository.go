package repository

import (
	"pos-backend/entity"

	"gorm.io/gorm"
)

type CustomerRepository struct{ DB *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{DB: db} }

// autocomplete ลูกค้า ตามชื่อ, สูงสุด 10 รายการ
func (r *CustomerRepository) Search(q string) ([]entity.Customer, error) {
	db := r.DB.Model(&entity.Customer{})
	if q != "" {
		db = db.Where("name LIKE ?", "%"+q+"%")
	}
	var out []entity.Customer
	err := db.Order("name ASC").Limit(10).Find(&out).Error
	return out, err
}
