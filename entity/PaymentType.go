package entity

import "fmt"

type PaymentType string

const (
	PaymentCash        PaymentType = "cash"
	PaymentCreditCard  PaymentType = "credit_card"
	PaymentOpenAccount PaymentType = "open_account"
)

func ParsePaymentType(v string) (PaymentType, error) {
	switch PaymentType(v) {
	case PaymentCash, PaymentCreditCard, PaymentOpenAccount:
		return PaymentType(v), nil
	}
	return "", fmt.Errorf("unknown payment type: %q", v)
}
