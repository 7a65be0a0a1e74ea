package repoargs

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
)

type OrderCreate struct {
	ShortID            string
	UserID             int64
	PaymentMethod      domain.PaymentMethodType
	Address            string
	CouponCode         string
	TotalAmount        decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	TotalAmountPaid    decimal.Decimal
	WalletPaidAmount   decimal.Decimal
	IsPaid             bool
}

type OrderItemCreate struct {
	ProductID int64
	Name      string
	Brand     string
	Category  string
	MainImage string
	Size      string
	Quantity  int32
	Price     decimal.Decimal
}

// OrderStatusUpdate условный перевод статуса: UPDATE применяется только если текущий
// статус входит в AllowedFrom. Ноль затронутых строк - перевод не состоялся.
type OrderStatusUpdate struct {
	OrderID      int64
	Status       domain.OrderStatusType
	AllowedFrom  []domain.OrderStatusType
	StatusDate   time.Time
	ReturnReason domain.ReturnReasonType
	ReturnNote   string
}
