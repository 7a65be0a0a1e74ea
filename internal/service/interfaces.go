package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/gateway"
)

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	AdjustWallet(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error)
	ClaimReferralReward(ctx context.Context, userID int64) (int64, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Reserve(ctx context.Context, productID int64, qty int32) error
	Release(ctx context.Context, productID int64, qty int32, restoreStock bool) error
}

type CartRepository interface {
	GetLines(ctx context.Context, userID int64) ([]domain.CartLine, error)
	Clear(ctx context.Context, userID int64) error
}

type CouponRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error)
	CreateOrderItems(ctx context.Context, orderID int64, items []repoargs.OrderItemCreate) error
	FindByShortID(ctx context.Context, shortID string) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error)
	SettleCODPayment(ctx context.Context, orderID int64) (*domain.Order, error)
}

type WalletTransactionRepository interface {
	Create(ctx context.Context, args repoargs.WalletTransactionCreate) (*domain.WalletTransaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.WalletTransaction, error)
}

type GatewayIntentRepository interface {
	Create(ctx context.Context, args repoargs.GatewayIntentCreate) (*domain.GatewayIntent, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.GatewayIntent, error)
	Delete(ctx context.Context, id int64) error
}

// GatewayClient интерфейс платежного шлюза с точки зрения движка заказов.
type GatewayClient interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal) (*gateway.OrderHandle, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}
