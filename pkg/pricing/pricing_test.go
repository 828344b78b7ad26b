package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func policy(mode TaxMode) Policy {
	return Policy{
		TaxRatePercent:      dec("10"),
		ShippingFlat:        dec("5"),
		DiscountRatePercent: dec("10"),
		ExtraDiscountFlat:   dec("2"),
		TaxMode:             mode,
	}
}

func cart() Cart {
	return Cart{{ProductID: 1, Name: "Adana Kebab", UnitPrice: dec("100"), Qty: 2}}
}

func TestCompute_TaxBefore(t *testing.T) {
	got, err := Compute(cart(), policy(TaxBefore))
	require.NoError(t, err)

	assert.True(t, got.Subtotal.Equal(dec("200")), "subtotal = %s", got.Subtotal)
	assert.True(t, got.TaxAmount.Equal(dec("20")), "tax = %s", got.TaxAmount)
	assert.True(t, got.Shipping.Equal(dec("5")), "shipping = %s", got.Shipping)
	// (200 + 5) * 10%
	assert.True(t, got.Discount.Equal(dec("20.5")), "discount = %s", got.Discount)
	// 200 + 20 + 5 - 20.5 - 2
	assert.True(t, got.GrandTotal.Equal(dec("202.5")), "total = %s", got.GrandTotal)
}

func TestCompute_TaxAfter(t *testing.T) {
	got, err := Compute(cart(), policy(TaxAfter))
	require.NoError(t, err)

	// (200 + 20 + 5) * 10%
	assert.True(t, got.Discount.Equal(dec("22.5")), "discount = %s", got.Discount)
	assert.True(t, got.GrandTotal.Equal(dec("200.5")), "total = %s", got.GrandTotal)
}

// grandTotal = subtotal + tax + shipping - discount - extraDiscount ต้องตรงเป๊ะทั้งสองโหมด
func TestCompute_GrandTotalIdentity(t *testing.T) {
	carts := []Cart{
		{{UnitPrice: dec("33.33"), Qty: 3}},
		{{UnitPrice: dec("7.77"), Qty: 1}, {UnitPrice: dec("0.01"), Qty: 99}},
		{},
	}
	for _, mode := range []TaxMode{TaxBefore, TaxAfter} {
		for _, cr := range carts {
			got, err := Compute(cr, policy(mode))
			require.NoError(t, err)
			want := got.Subtotal.
				Add(got.TaxAmount).
				Add(got.Shipping).
				Sub(got.Discount).
				Sub(got.ExtraDiscount)
			assert.True(t, got.GrandTotal.Equal(want),
				"mode=%s got=%s want=%s", mode, got.GrandTotal, want)
		}
	}
}

// pure + idempotent: input เดิมให้ผลเดิมทุกครั้ง
func TestCompute_Idempotent(t *testing.T) {
	cr, p := cart(), policy(TaxAfter)
	first, err := Compute(cr, p)
	require.NoError(t, err)
	second, err := Compute(cr, p)
	require.NoError(t, err)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
}

func TestCompute_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cart Cart
		pol  Policy
		want error
	}{
		{"negative tax rate", cart(),
			Policy{TaxRatePercent: dec("-1"), TaxMode: TaxBefore}, ErrInvalidPolicy},
		{"negative discount rate", cart(),
			Policy{DiscountRatePercent: dec("-5"), TaxMode: TaxBefore}, ErrInvalidPolicy},
		{"unknown tax mode", cart(),
			Policy{TaxMode: "sideways"}, ErrInvalidPolicy},
		{"zero qty", Cart{{UnitPrice: dec("10"), Qty: 0}},
			policy(TaxBefore), ErrInvalidCartEntry},
		{"negative price", Cart{{UnitPrice: dec("-10"), Qty: 1}},
			policy(TaxBefore), ErrInvalidCartEntry},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.cart, tc.pol)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRounded(t *testing.T) {
	got, err := Compute(Cart{{UnitPrice: dec("9.99"), Qty: 3}}, Policy{
		TaxRatePercent: dec("7.5"),
		TaxMode:        TaxBefore,
	})
	require.NoError(t, err)

	r := got.Rounded()
	assert.Equal(t, "29.97", r.Subtotal.StringFixed(2))
	// 29.97 * 7.5% = 2.24775 → 2.25 ปัดครั้งเดียวตอนท้าย
	assert.Equal(t, "2.25", r.TaxAmount.StringFixed(2))
}

func TestParseTaxMode(t *testing.T) {
	m, err := ParseTaxMode("before")
	require.NoError(t, err)
	assert.Equal(t, TaxBefore, m)

	_, err = ParseTaxMode("BEFORE")
	assert.Error(t, err)
}
