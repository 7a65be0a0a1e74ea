package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
)

type CheckoutHandler struct {
	orderSvs   OrderServicer
	pricingSvs PricingServicer
}

func NewCheckoutHandler(orderSvs OrderServicer, pricingSvs PricingServicer) *CheckoutHandler {
	return &CheckoutHandler{
		orderSvs:   orderSvs,
		pricingSvs: pricingSvs,
	}
}

type CartValidationResponse struct {
	OK             bool   `json:"ok"`
	FailingProduct string `json:"failingProduct,omitempty"`
	AvailableStock int32  `json:"availableStock,omitempty"`
}

// ValidateCart GET RouteGroup + CartValidateRoute.
func (h *CheckoutHandler) ValidateCart(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	validation, err := h.orderSvs.ValidateCart(reqCtx, currentUserID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, CartValidationResponse{
		OK:             validation.OK,
		FailingProduct: validation.FailingProduct,
		AvailableStock: validation.AvailableStock,
	})
}

type CheckoutParams struct {
	Address       string `json:"address" binding:"required,max_bytes=1000"`
	PaymentMethod string `json:"paymentMethod" binding:"required,payment_method"`
	CouponCode    string `json:"couponCode" binding:"omitempty,max_bytes=50"`
	UseWallet     bool   `json:"useWallet"`
}

type OrderCreatedResponse struct {
	OrderID string `json:"orderId"`
}

type GatewayHandleResponse struct {
	GatewayOrderID string          `json:"gatewayOrderId"`
	Amount         decimal.Decimal `json:"amount"`
	KeyID          string          `json:"keyId"`
}

// Checkout POST RouteGroup + CheckoutRoute. Пути wallet-only и cod возвращают 201
// с id созданного заказа; путь через шлюз - 200 с хэндлом платежного ордера,
// заказ будет создан подтверждением callback'а.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CheckoutParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.orderSvs.PlaceOrder(reqCtx, service.PlaceOrderArgs{
		UserID:     currentUserID,
		Address:    params.Address,
		Method:     domain.PaymentMethodType(params.PaymentMethod),
		CouponCode: params.CouponCode,
		UseWallet:  params.UseWallet,
	})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	if result.Gateway != nil {
		c.JSON(http.StatusOK, GatewayHandleResponse{
			GatewayOrderID: result.Gateway.GatewayOrderID,
			Amount:         result.Gateway.Amount,
			KeyID:          result.Gateway.KeyID,
		})
		return
	}

	c.JSON(http.StatusCreated, OrderCreatedResponse{OrderID: result.Order.ShortID})
}

type ConfirmPaymentParams struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
	PaymentID      string `json:"paymentId" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// ConfirmPayment POST RouteGroup + PaymentConfirmRoute. Server-side подтверждение
// оплаты через шлюз: подпись не сошлась - ничего не персистится.
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var params ConfirmPaymentParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderSvs.ConfirmGatewayPayment(reqCtx, service.ConfirmPaymentArgs{
		GatewayOrderID: params.GatewayOrderID,
		PaymentID:      params.PaymentID,
		Signature:      params.Signature,
	})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, OrderCreatedResponse{OrderID: order.ShortID})
}

type ApplyCouponParams struct {
	Code string `json:"code" binding:"required,max_bytes=50"`
}

type ApplyCouponResponse struct {
	DiscountPercentage float64 `json:"discountPercentage"`
}

// ApplyCoupon POST RouteGroup + CouponApplyRoute. Проверка купона до чекаута,
// чтобы UI мог показать скидку заранее.
func (h *CheckoutHandler) ApplyCoupon(c *gin.Context) {
	var params ApplyCouponParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	percentage, err := h.pricingSvs.ApplyCoupon(reqCtx, params.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoupon) {
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, ApplyCouponResponse{DiscountPercentage: percentage.InexactFloat64()})
}
