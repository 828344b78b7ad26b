package services

import (
	"errors"

	"pos-backend/pkg/pricing"
)

// แบ่ง error เป็น 4 กลุ่มตามวิธีรับมือ: validation/conflict/not found ห้าม retry,
// store failure เท่านั้นที่ caller เลือก retry เองได้
type ErrorKind int

const (
	KindStore ErrorKind = iota
	KindValidation
	KindStateConflict
	KindNotFound
)

var (
	// validation
	ErrMissingReason = errors.New("cancel reason is required")
	ErrEmptyCart     = errors.New("cart is empty")

	// state conflicts
	ErrDuplicateOpenOrder  = errors.New("table already has an open order")
	ErrOrderNotEditable    = errors.New("order is cancelled or closed")
	ErrAlreadyTerminal     = errors.New("order is already terminal")
	ErrDestinationOccupied = errors.New("destination table already has an open order")
	ErrNoOpenOrderAtSource = errors.New("source table has no open order")
	ErrNotHeld             = errors.New("only open-account orders can be cancelled")

	// not found
	ErrTableNotFound = errors.New("table not found")
	ErrOrderNotFound = errors.New("order not found")
)

func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingReason),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, pricing.ErrInvalidPolicy),
		errors.Is(err, pricing.ErrInvalidCartEntry):
		return KindValidation
	case errors.Is(err, ErrDuplicateOpenOrder),
		errors.Is(err, ErrOrderNotEditable),
		errors.Is(err, ErrAlreadyTerminal),
		errors.Is(err, ErrDestinationOccupied),
		errors.Is(err, ErrNoOpenOrderAtSource),
		errors.Is(err, ErrNotHeld):
		return KindStateConflict
	case errors.Is(err, ErrTableNotFound), errors.Is(err, ErrOrderNotFound):
		return KindNotFound
	}
	return KindStore
}
