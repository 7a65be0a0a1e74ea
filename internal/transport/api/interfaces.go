package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type OrderServicer interface {
	ValidateCart(ctx context.Context, userID int64) (*service.CartValidation, error)
	PlaceOrder(ctx context.Context, args service.PlaceOrderArgs) (*service.PlacementResult, error)
	ConfirmGatewayPayment(ctx context.Context, args service.ConfirmPaymentArgs) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByShortID(ctx context.Context, userID int64, shortID string) (*domain.Order, []domain.OrderItem, error)
	CancelOrder(ctx context.Context, userID int64, shortID string) (*domain.Order, error)
	ReturnOrder(
		ctx context.Context,
		userID int64,
		shortID string,
		reason domain.ReturnReasonType,
		note string,
	) (*domain.Order, error)
	MarkShipped(ctx context.Context, shortID string) (*domain.Order, error)
	MarkDelivered(ctx context.Context, shortID string) (*domain.Order, error)
}

type WalletServicer interface {
	GetWallet(ctx context.Context, userID int64) (*service.Wallet, error)
}

type PricingServicer interface {
	ApplyCoupon(ctx context.Context, code string) (decimal.Decimal, error)
}
