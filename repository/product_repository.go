package repository

import (
	"pos-backend/entity"

	"gorm.io/gorm"
)

type ProductRepository struct{ DB *gorm.DB }

func NewProductRepository(db *gorm.DB) *ProductRepository { return &ProductRepository{DB: db} }

// autocomplete: ค้นจากชื่อหรือ SKU, เรียงตามชื่อ, สูงสุด 10 รายการ
func (r *ProductRepository) Search(q string, categoryID uint) ([]entity.Product, error) {
	db := r.DB.Model(&entity.Product{}).Where("is_active = ?", true)
	if q != "" {
		like := "%" + q + "%"
		db = db.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if categoryID != 0 {
		db = db.Where("category_id = ?", categoryID)
	}
	var out []entity.Product
	err := db.Order("name ASC").Limit(10).Find(&out).Error
	return out, err
}

func (r *ProductRepository) GetBasics(id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.Select("id, name, price, is_active").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListCategories() ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.Order("name ASC").Find(&out).Error
	return out, err
}
