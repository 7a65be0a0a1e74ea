package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrEmptyCart                 = errors.New("cart is empty")
	ErrInvalidCoupon             = errors.New("invalid coupon")
	ErrNotEnoughBalance          = errors.New("not enough balance")
	ErrIDAllocationExhausted     = errors.New("order id allocation exhausted")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrOrderNotFound             = errors.New("order not found")
	ErrInvalidTransition         = errors.New("invalid order status transition")
	ErrPasswordMissMatch         = errors.New("password mismatch")
)

// InsufficientStockError возвращается когда запрошенное количество превышает текущий сток.
// Несет имя товара и остаток, чтобы вызывающая сторона могла их показать.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int32
}

func NewInsufficientStockError(productID int64, name string, available int32) error {
	return &InsufficientStockError{ProductID: productID, ProductName: name, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: %d left", e.ProductName, e.Available)
}
