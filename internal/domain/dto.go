package domain

type OrderStatusType string

const (
	OrderStatusProcessing OrderStatusType = "Processing"
	OrderStatusShipped    OrderStatusType = "Shipped"
	OrderStatusDelivered  OrderStatusType = "Delivered"
	OrderStatusCancelled  OrderStatusType = "Cancelled"
	OrderStatusReturned   OrderStatusType = "Returned"
)

// IsTerminal Cancelled и Returned финальные, из них переходов нет.
func (s OrderStatusType) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

type PaymentMethodType string

const (
	PaymentMethodWallet  PaymentMethodType = "wallet"
	PaymentMethodGateway PaymentMethodType = "gateway"
	PaymentMethodCOD     PaymentMethodType = "cod"
)

type DirectionType string

const (
	DirectionAddition    DirectionType = "addition"
	DirectionSubtraction DirectionType = "subtraction"
)

type ReturnReasonType string

const (
	ReturnReasonSize    ReturnReasonType = "size"
	ReturnReasonDamaged ReturnReasonType = "damaged"
	ReturnReasonColor   ReturnReasonType = "color"
)

func (r ReturnReasonType) Valid() bool {
	switch r {
	case ReturnReasonSize, ReturnReasonDamaged, ReturnReasonColor:
		return true
	}
	return false
}
