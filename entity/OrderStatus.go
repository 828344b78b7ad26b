package entity

import "fmt"

// OrderStatus เป็น closed set — ค่าอื่นถูกปัดตกตั้งแต่ boundary
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusHeld      OrderStatus = "held"
	StatusCancelled OrderStatus = "cancelled"
	StatusClosed    OrderStatus = "closed"
)

// Terminal = แก้ไขอะไรไม่ได้อีกแล้ว
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusClosed
}

func ParseOrderStatus(v string) (OrderStatus, error) {
	switch OrderStatus(v) {
	case StatusOpen, StatusHeld, StatusCancelled, StatusClosed:
		return OrderStatus(v), nil
	}
	return "", fmt.Errorf("unknown order status: %q", v)
}
