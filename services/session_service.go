package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pos-backend/entity"
	"pos-backend/pkg/pricing"
	"pos-backend/repository"

	"gorm.io/gorm"
)

// SessionService คุม transition ของคู่ (โต๊ะ, ออเดอร์) ทั้งหมด:
// select/checkout/hold/cancel/transfer — ทุก transition เป็น tx เดียว all-or-nothing
// และ serialize ต่อโต๊ะด้วย tableLocks
type SessionService struct {
	DB      *gorm.DB
	Orders  *repository.OrderRepository
	Tables  *repository.TableRepository
	Kitchen *repository.KitchenRepository
	Events  EventPublisher // nil ได้ (เช่นตอนเทสต์) = ไม่ยิง event

	locks *tableLocks
}

func NewSessionService(
	db *gorm.DB,
	orders *repository.OrderRepository,
	tables *repository.TableRepository,
	kitchen *repository.KitchenRepository,
	events EventPublisher,
) *SessionService {
	return &SessionService{
		DB: db, Orders: orders, Tables: tables, Kitchen: kitchen, Events: events,
		locks: newTableLocks(),
	}
}

// ----- Select -----

type SelectResult struct {
	OrderID     uint               `json:"orderId"`
	InvoiceNo   string             `json:"invoiceNo"`
	Status      entity.OrderStatus `json:"status"`
	PaymentType entity.PaymentType `json:"paymentType"`
	Items       []entity.OrderItem `json:"items"`
}

// Select เปิดออเดอร์ใหม่บนโต๊ะว่าง หรือ resume ออเดอร์ open/held เดิม (idempotent)
// check-then-create อยู่ใต้ lock + tx เดียวกัน — สอง terminal เลือกโต๊ะเดียว
// พร้อมกันได้ออเดอร์เดียว
func (s *SessionService) Select(ctx context.Context, tableID uint) (*SelectResult, error) {
	mu := s.locks.forTable(tableID)
	mu.Lock()
	defer mu.Unlock()

	var out SelectResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Tables.GetTable(tx, tableID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		o, err := s.Orders.GetOpenOrder(tx, tableID)
		if err != nil {
			return err
		}
		if o == nil {
			o, err = s.Orders.CreateOrder(tx, tableID)
			if err != nil {
				return err
			}
			if _, err := s.Tables.SetOccupied(tx, tableID, true); err != nil {
				return err
			}
		}

		out = SelectResult{
			OrderID:     o.ID,
			InvoiceNo:   o.InvoiceNo,
			Status:      o.Status,
			PaymentType: o.PaymentType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items, err := s.Orders.GetOrderItems(out.OrderID)
	if err != nil {
		return nil, err
	}
	out.Items = items
	return &out, nil
}

// ----- Checkout -----

type CheckoutInput struct {
	TableID      uint
	OrderID      uint // 0 = ออเดอร์ open/held ปัจจุบันของโต๊ะ
	Cart         pricing.Cart
	Policy       pricing.Policy
	PaymentType  entity.PaymentType
	CustomerName string
}

// Checkout คำนวณยอดใหม่, เขียน items + totals, ตั้ง payment type
// open_account → order held โต๊ะยังไม่ว่าง; cash/credit_card → order closed โต๊ะว่าง
// (ทางเดียวที่โต๊ะถูกปล่อย)
func (s *SessionService) Checkout(ctx context.Context, in CheckoutInput) (uint, error) {
	if len(in.Cart) == 0 {
		return 0, ErrEmptyCart
	}
	totals, err := pricing.Compute(in.Cart, in.Policy)
	if err != nil {
		return 0, err
	}

	mu := s.locks.forTable(in.TableID)
	mu.Lock()
	defer mu.Unlock()

	var (
		orderID uint
		ev      OrderEvent
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Tables.GetTable(tx, in.TableID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		o, err := s.Orders.GetOpenOrder(tx, in.TableID)
		if err != nil {
			return err
		}
		if o == nil {
			// terminal ข้าม select มา — เปิดออเดอร์ให้ในจังหวะเดียวกัน
			o, err = s.Orders.CreateOrder(tx, in.TableID)
			if err != nil {
				return err
			}
			if _, err := s.Tables.SetOccupied(tx, in.TableID, true); err != nil {
				return err
			}
		}
		if in.OrderID != 0 && in.OrderID != o.ID {
			// อ้างออเดอร์ที่จบไปแล้ว/ของโต๊ะอื่น
			return ErrOrderNotFound
		}

		if err := s.Orders.ReplaceItems(tx, o.ID, in.Cart, totals); err != nil {
			return err
		}

		updates := map[string]any{
			"payment_type":  in.PaymentType,
			"customer_name": in.CustomerName,
		}
		evType := "order.checkout"
		if in.PaymentType == entity.PaymentOpenAccount {
			updates["status"] = entity.StatusHeld
			evType = "order.held"
		} else {
			updates["status"] = entity.StatusClosed
		}

		n, err := s.Orders.UpdateStatusGuard(tx, o.ID,
			[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld}, updates)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrOrderNotEditable
		}

		if in.PaymentType != entity.PaymentOpenAccount {
			if _, err := s.Tables.SetOccupied(tx, in.TableID, false); err != nil {
				return err
			}
		}

		orderID = o.ID
		ev = OrderEvent{
			Type:        evType,
			OrderID:     o.ID,
			InvoiceNo:   o.InvoiceNo,
			TableID:     in.TableID,
			PaymentType: string(in.PaymentType),
			Total:       totals.Rounded().GrandTotal.String(),
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, ev)
	return orderID, nil
}

// RefreshOccupancy อ่านอย่างเดียว: โต๊ะไหนมีออเดอร์ค้างจริงจากฝั่ง orders
func (s *SessionService) RefreshOccupancy(ctx context.Context) ([]uint, error) {
	return s.Tables.OpenTableIDs()
}

// ยิง event หลัง commit เท่านั้น — store คือ source of truth
// ยิงไม่สำเร็จแค่ log ไม่ rollback
func (s *SessionService) publish(ctx context.Context, ev OrderEvent) {
	if s.Events == nil || ev.Type == "" {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := s.Events.Publish(ctx, ev.Type, ev); err != nil {
		log.Println("⚠️ publish event failed:", err)
	}
}
