package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
)

type WalletTransactionCreate struct {
	UserID    int64
	OrderID   int64
	Direction domain.DirectionType
	Amount    decimal.Decimal
}

type GatewayIntentCreate struct {
	GatewayOrderID string
	UserID         int64
	Address        string
	CouponCode     string
	WalletAmount   decimal.Decimal
	GatewayAmount  decimal.Decimal
}
