package configs

import (
	"log"

	"pos-backend/entity"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// สร้าง admin ครั้งแรก
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("⚠️ skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("ℹ️ admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:    email,
		Password: string(hash),
		Name:     "Admin",
		Role:     "admin",
		Scopes:   "pos,admin",
	}
	return db.Create(&admin).Error
}

// Seed ข้อมูลตั้งต้น: โต๊ะ, หมวดสินค้า, สินค้า, ลูกค้าประจำ
func SeedLookups() error {
	db := DB()

	// Tables 1..12
	for n := 1; n <= 12; n++ {
		db.FirstOrCreate(&entity.Table{}, entity.Table{TableNumber: n})
	}

	// Categories
	var drinks, mains entity.Category
	db.FirstOrCreate(&drinks, entity.Category{Name: "Drinks"})
	db.FirstOrCreate(&mains, entity.Category{Name: "Main Dishes"})

	// Products
	db.FirstOrCreate(&entity.Product{}, entity.Product{
		Name: "Turkish Tea", SKU: "DRK-001", Price: decimal.NewFromFloat(15), CategoryID: drinks.ID,
	})
	db.FirstOrCreate(&entity.Product{}, entity.Product{
		Name: "Ayran", SKU: "DRK-002", Price: decimal.NewFromFloat(25), CategoryID: drinks.ID,
	})
	db.FirstOrCreate(&entity.Product{}, entity.Product{
		Name: "Adana Kebab", SKU: "MN-001", Price: decimal.NewFromFloat(180), CategoryID: mains.ID,
	})
	db.FirstOrCreate(&entity.Product{}, entity.Product{
		Name: "Lahmacun", SKU: "MN-002", Price: decimal.NewFromFloat(90), CategoryID: mains.ID,
	})

	// Walk-in customer record
	db.FirstOrCreate(&entity.Customer{}, entity.Customer{Name: "Walk-in"})

	log.Println("✅ Lookup tables seeded")
	return nil
}
