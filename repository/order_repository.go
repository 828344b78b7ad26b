package repository

import (
	"errors"
	"time"

	"pos-backend/entity"
	"pos-backend/pkg/pricing"
	"pos-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders (CRUD หลัก) ----------------

// สร้างออเดอร์ใหม่บนโต๊ะ: เลขใบเสร็จใหม่, status open, จ่ายเงินสดเป็น default
// caller ต้องเช็ค "ไม่มีออเดอร์ค้าง" ภายใน tx + lock เดียวกัน กันเปิดออเดอร์ซ้ำบนโต๊ะเดียว
func (r *OrderRepository) CreateOrder(tx *gorm.DB, tableID uint) (*entity.Order, error) {
	o := entity.Order{
		InvoiceNo:   utils.NewInvoiceNo(time.Now()),
		Status:      entity.StatusOpen,
		PaymentType: entity.PaymentCash,
		TableID:     &tableID,
	}
	if err := tx.Create(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrder(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ออเดอร์ที่ยังไม่จบ (open/held) ของโต๊ะ — ไม่มีคืน nil, nil
func (r *OrderRepository) GetOpenOrder(tx *gorm.DB, tableID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("table_id = ? AND status IN ?", tableID,
		[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld}).
		Order("id DESC").First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// อัปเดตสถานะแบบมี guard — คืน RowsAffected ให้ service ตัดสิน conflict เอง
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from []entity.OrderStatus, updates map[string]any) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) SetPaymentType(tx *gorm.DB, orderID uint, pt entity.PaymentType) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("payment_type", pt).Error
}

// ย้ายออเดอร์ไปโต๊ะใหม่ (เฉพาะออเดอร์ที่ยังไม่จบ)
func (r *OrderRepository) MoveToTable(tx *gorm.DB, orderID, toTableID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status IN ?", orderID,
			[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld}).
		Update("table_id", toTableID)
	return res.RowsAffected, res.Error
}

// ---------------- Order Items ----------------

// ล้างรายการเดิมแล้วใส่ชุดใหม่จาก cart พร้อมยอดที่คำนวณแล้ว — ใน tx เดียว
func (r *OrderRepository) ReplaceItems(tx *gorm.DB, orderID uint, cart pricing.Cart, totals pricing.Totals) error {
	if err := tx.Unscoped().Where("order_id = ?", orderID).
		Delete(&entity.OrderItem{}).Error; err != nil {
		return err
	}
	for _, l := range cart {
		oi := entity.OrderItem{
			OrderID:     orderID,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.LineSubtotal().Round(2),
		}
		if err := tx.Create(&oi).Error; err != nil {
			return err
		}
	}

	t := totals.Rounded()
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).Updates(map[string]any{
		"subtotal":       t.Subtotal,
		"tax_amount":     t.TaxAmount,
		"shipping":       t.Shipping,
		"discount":       t.Discount,
		"extra_discount": t.ExtraDiscount,
		"total":          t.GrandTotal,
	}).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Model(&entity.OrderItem{}).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// ---------------- Receipt projection ----------------

type ReceiptTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Shipping      decimal.Decimal `json:"shipping"`
	Discount      decimal.Decimal `json:"discount"`
	ExtraDiscount decimal.Decimal `json:"extraDiscount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

type Receipt struct {
	InvoiceNo    string             `json:"invoiceNo"`
	CustomerName string             `json:"customerName"`
	CreatedAt    time.Time          `json:"createdAt"`
	Items        []entity.OrderItem `json:"items"`
	Totals       ReceiptTotals      `json:"totals"`
}

// GET /pos/orders/:id/receipt — read-only สำหรับตัวพิมพ์บิลภายนอก
func (r *OrderRepository) GetReceipt(orderID uint) (*Receipt, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	items, err := r.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}

	name := o.CustomerName
	if name == "" {
		name = "Walk-in"
	}
	return &Receipt{
		InvoiceNo:    o.InvoiceNo,
		CustomerName: name,
		CreatedAt:    o.CreatedAt,
		Items:        items,
		Totals: ReceiptTotals{
			Subtotal:      o.Subtotal,
			TaxAmount:     o.TaxAmount,
			Shipping:      o.Shipping,
			Discount:      o.Discount,
			ExtraDiscount: o.ExtraDiscount,
			GrandTotal:    o.Total,
		},
	}, nil
}
