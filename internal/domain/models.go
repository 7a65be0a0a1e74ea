package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Username          string
	EncryptedPassword string
	WalletBalance     decimal.Decimal
	ReferredBy        *int64
	ReferralRewarded  bool
}

type Product struct {
	ID                 int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Name               string
	Brand              string
	Category           string
	MainImage          string
	Price              decimal.Decimal
	PriceAfterDiscount decimal.Decimal
	Stock              int32
	TotalSoldItems     int32
	IsDeleted          bool
}

// CartLine строка корзины, соединенная с актуальными данными товара.
// Сток здесь - снапшот на момент чтения, коммит перепроверяет его заново.
type CartLine struct {
	ProductID          int64
	Name               string
	Brand              string
	Category           string
	MainImage          string
	Size               string
	Quantity           int32
	PriceAfterDiscount decimal.Decimal
	Stock              int32
}

type Coupon struct {
	ID                 int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Code               string
	DiscountPercentage decimal.Decimal
	IsDeleted          bool
}

type Order struct {
	ID                 int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ShortID            string
	UserID             int64
	Status             OrderStatusType
	PaymentMethod      PaymentMethodType
	Address            string
	CouponCode         string
	TotalAmount        decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	TotalAmountPaid    decimal.Decimal
	WalletPaidAmount   decimal.Decimal
	IsPaid             bool
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	ReturnedAt         *time.Time
	ReturnReason       ReturnReasonType
	ReturnNote         string
}

// OrderItem снапшот строки заказа на момент коммита. Последующие правки каталога
// исторические заказы не меняют.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Brand     string
	Category  string
	MainImage string
	Size      string
	Quantity  int32
	Price     decimal.Decimal
}

// WalletTransaction append-only запись леджера кошелька. Никогда не обновляется и не удаляется.
type WalletTransaction struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	OrderID   int64
	OrderCode string
	Direction DirectionType
	Amount    decimal.Decimal
}

// GatewayIntent параметры чекаута, зафиксированные между первой фазой оплаты через шлюз
// и его server-side подтверждением. Order на этом этапе еще не существует.
type GatewayIntent struct {
	ID             int64
	CreatedAt      time.Time
	GatewayOrderID string
	UserID         int64
	Address        string
	CouponCode     string
	WalletAmount   decimal.Decimal
	GatewayAmount  decimal.Decimal
}
