package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPolicy    = errors.New("invalid pricing policy")
	ErrInvalidCartEntry = errors.New("invalid cart entry")
)

// TaxMode กำหนดว่า % ส่วนลดคิดก่อนหรือหลังบวกภาษี
type TaxMode string

const (
	TaxBefore TaxMode = "before"
	TaxAfter  TaxMode = "after"
)

func ParseTaxMode(v string) (TaxMode, error) {
	switch TaxMode(v) {
	case TaxBefore, TaxAfter:
		return TaxMode(v), nil
	}
	return "", fmt.Errorf("unknown tax mode: %q", v)
}

// Line คือหนึ่งรายการในตะกร้า (ฝั่ง terminal ยังไม่ persist)
type Line struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty"`
}

// Cart เรียงตามลำดับที่หยิบใส่
type Cart []Line

type Policy struct {
	TaxRatePercent      decimal.Decimal `json:"taxRatePercent"`
	ShippingFlat        decimal.Decimal `json:"shippingFlat"`
	DiscountRatePercent decimal.Decimal `json:"discountRatePercent"`
	ExtraDiscountFlat   decimal.Decimal `json:"extraDiscountFlat"`
	TaxMode             TaxMode         `json:"taxMode"`
}

type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Shipping      decimal.Decimal `json:"shipping"`
	Discount      decimal.Decimal `json:"discount"`
	ExtraDiscount decimal.Decimal `json:"extraDiscount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

var hundred = decimal.NewFromInt(100)

// Compute เป็น pure function: ตะกร้า + policy → ยอด
// คิดเต็มทศนิยมตลอดทาง ปัดเป็น 2 ตำแหน่งแค่ตอนแสดงผล (Rounded)
func Compute(cart Cart, p Policy) (Totals, error) {
	if p.TaxRatePercent.IsNegative() || p.DiscountRatePercent.IsNegative() ||
		p.ShippingFlat.IsNegative() || p.ExtraDiscountFlat.IsNegative() {
		return Totals{}, ErrInvalidPolicy
	}
	if p.TaxMode != TaxBefore && p.TaxMode != TaxAfter {
		return Totals{}, ErrInvalidPolicy
	}

	subtotal := decimal.Zero
	for _, l := range cart {
		if l.Qty < 1 || l.UnitPrice.IsNegative() {
			return Totals{}, ErrInvalidCartEntry
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}

	tax := subtotal.Mul(p.TaxRatePercent).Div(hundred)
	shipping := p.ShippingFlat

	var discountBase decimal.Decimal
	if p.TaxMode == TaxBefore {
		discountBase = subtotal.Add(shipping)
	} else {
		discountBase = subtotal.Add(tax).Add(shipping)
	}
	discount := discountBase.Mul(p.DiscountRatePercent).Div(hundred)

	total := subtotal.Add(tax).Add(shipping).Sub(discount).Sub(p.ExtraDiscountFlat)

	return Totals{
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Shipping:      shipping,
		Discount:      discount,
		ExtraDiscount: p.ExtraDiscountFlat,
		GrandTotal:    total,
	}, nil
}

// Rounded ปัดทุกยอดเป็น 2 ตำแหน่งไว้แสดงผล/ลงบิล
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:      t.Subtotal.Round(2),
		TaxAmount:     t.TaxAmount.Round(2),
		Shipping:      t.Shipping.Round(2),
		Discount:      t.Discount.Round(2),
		ExtraDiscount: t.ExtraDiscount.Round(2),
		GrandTotal:    t.GrandTotal.Round(2),
	}
}

// Subtotal ของบรรทัดเดียว
func (l Line) LineSubtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}
