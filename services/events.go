package services

import (
	"context"
	"time"
)

// EventPublisher คือปลายทาง event ฝั่งครัว/จอแสดงผล (RabbitMQ ใน production)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     uint      `json:"orderId"`
	InvoiceNo   string    `json:"invoiceNo"`
	TableID     uint      `json:"tableId"`
	FromTableID uint      `json:"fromTableId,omitempty"`
	PaymentType string    `json:"paymentType,omitempty"`
	Total       string    `json:"total,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
