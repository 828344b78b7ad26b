// services/session_transitions.go
package services

import (
	"context"
	"errors"
	"strings"

	"pos-backend/entity"

	"gorm.io/gorm"
)

// ----- Hold -----

// Hold พักบิลเป็น open_account — ออเดอร์ยัง held โต๊ะยังไม่ว่าง
func (s *SessionService) Hold(ctx context.Context, orderID uint) error {
	o, err := s.Orders.GetOrder(s.DB, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if o.TableID == nil || o.Status.Terminal() {
		return ErrAlreadyTerminal
	}

	mu := s.locks.forTable(*o.TableID)
	mu.Lock()
	defer mu.Unlock()

	var ev OrderEvent
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.Orders.UpdateStatusGuard(tx, orderID,
			[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld},
			map[string]any{"status": entity.StatusHeld})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyTerminal
		}
		if err := s.Orders.SetPaymentType(tx, orderID, entity.PaymentOpenAccount); err != nil {
			return err
		}
		ev = OrderEvent{Type: "order.held", OrderID: o.ID, InvoiceNo: o.InvoiceNo, TableID: *o.TableID}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, ev)
	return nil
}

// ----- Cancel -----

// Cancel ยกเลิกได้เฉพาะบิล open_account (held) — บิลที่จ่าย cash/credit_card
// ปิดไปแล้วถือเป็น terminal ยกเลิกไม่ได้ ตั้งใจให้เป็นแบบนั้น
func (s *SessionService) Cancel(ctx context.Context, orderID, tableID uint, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}

	mu := s.locks.forTable(tableID)
	mu.Lock()
	defer mu.Unlock()

	var ev OrderEvent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.Orders.GetOrder(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.TableID == nil || *o.TableID != tableID {
			// ออเดอร์ไม่ได้อยู่บนโต๊ะที่ส่งมา — ห้ามไปปลด flag โต๊ะผิดตัว
			return ErrOrderNotFound
		}
		if o.Status.Terminal() {
			return ErrAlreadyTerminal
		}
		if o.PaymentType != entity.PaymentOpenAccount {
			return ErrNotHeld
		}

		n, err := s.Orders.UpdateStatusGuard(tx, orderID,
			[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld},
			map[string]any{
				"status":        entity.StatusCancelled,
				"cancel_reason": reason,
			})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyTerminal
		}

		if _, err := s.Tables.SetOccupied(tx, tableID, false); err != nil {
			return err
		}
		ev = OrderEvent{Type: "order.cancelled", OrderID: o.ID, InvoiceNo: o.InvoiceNo, TableID: tableID}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, ev)
	return nil
}

// ----- Transfer -----

// Transfer ย้ายออเดอร์ค้างจากโต๊ะหนึ่งไปอีกโต๊ะ: orders.table_id,
// kitchen_queue, flag สองโต๊ะ — สี่อย่างใน tx เดียว ครบหรือไม่เกิดเลย
func (s *SessionService) Transfer(ctx context.Context, fromTableID, toTableID uint) error {
	unlock := s.locks.lockPair(fromTableID, toTableID)
	defer unlock()

	var ev OrderEvent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []uint{fromTableID, toTableID} {
			if _, err := s.Tables.GetTable(tx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTableNotFound
				}
				return err
			}
		}

		src, err := s.Orders.GetOpenOrder(tx, fromTableID)
		if err != nil {
			return err
		}
		if src == nil {
			return ErrNoOpenOrderAtSource
		}

		dst, err := s.Orders.GetOpenOrder(tx, toTableID)
		if err != nil {
			return err
		}
		if dst != nil {
			return ErrDestinationOccupied
		}

		n, err := s.Orders.MoveToTable(tx, src.ID, toTableID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoOpenOrderAtSource
		}

		if err := s.Kitchen.MoveTickets(tx, fromTableID, toTableID); err != nil {
			return err
		}
		if _, err := s.Tables.SetOccupied(tx, fromTableID, false); err != nil {
			return err
		}
		if _, err := s.Tables.SetOccupied(tx, toTableID, true); err != nil {
			return err
		}

		ev = OrderEvent{
			Type:        "order.transferred",
			OrderID:     src.ID,
			InvoiceNo:   src.InvoiceNo,
			TableID:     toTableID,
			FromTableID: fromTableID,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, ev)
	return nil
}
