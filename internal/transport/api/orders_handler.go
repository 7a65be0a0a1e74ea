package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderItemResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Category  string  `json:"category"`
	MainImage string  `json:"mainImage"`
	Size      string  `json:"size"`
	Quantity  int32   `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderResponse struct {
	OrderID            string              `json:"orderId"`
	CreatedAt          time.Time           `json:"createdAt"`
	Status             string              `json:"status"`
	PaymentMethod      string              `json:"paymentMethod"`
	TotalAmount        float64             `json:"totalAmount"`
	TotalAfterDiscount float64             `json:"totalAfterDiscount"`
	TotalAmountPaid    float64             `json:"totalAmountPaid"`
	WalletPaidAmount   float64             `json:"walletPaidAmount"`
	IsPaid             bool                `json:"isPaid"`
	Items              []OrderItemResponse `json:"items,omitempty"`
}

// Index GET RouteGroup + OrdersRoute.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = convertOrderResponse(&order, nil)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + OrderRoute.
func (o *OrdersHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	shortID := c.Param("shortId")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, items, err := o.orderSvs.GetByShortID(reqCtx, currentUserID, shortID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertOrderResponse(order, items))
}

// Cancel POST RouteGroup + OrderCancelRoute. Повторная отмена - no-op, не ошибка.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	shortID := c.Param("shortId")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.CancelOrder(reqCtx, currentUserID, shortID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertOrderResponse(order, nil))
}

type ReturnParams struct {
	Reason string `json:"reason" binding:"required,return_reason"`
	Note   string `json:"note" binding:"omitempty,max_bytes=1000"`
}

// Return POST RouteGroup + OrderReturnRoute.
func (o *OrdersHandler) Return(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	shortID := c.Param("shortId")

	var params ReturnParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.ReturnOrder(
		reqCtx, currentUserID, shortID, domain.ReturnReasonType(params.Reason), params.Note)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertOrderResponse(order, nil))
}

// Ship POST RouteGroup + OrderShipRoute.
func (o *OrdersHandler) Ship(c *gin.Context) {
	o.forward(c, o.orderSvs.MarkShipped)
}

// Deliver POST RouteGroup + OrderDeliverRoute.
func (o *OrdersHandler) Deliver(c *gin.Context) {
	o.forward(c, o.orderSvs.MarkDelivered)
}

func (o *OrdersHandler) forward(
	c *gin.Context,
	transition func(ctx context.Context, shortID string) (*domain.Order, error),
) {
	shortID := c.Param("shortId")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := transition(reqCtx, shortID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertOrderResponse(order, nil))
}

func convertOrderResponse(order *domain.Order, items []domain.OrderItem) OrderResponse {
	response := OrderResponse{
		OrderID:            order.ShortID,
		CreatedAt:          order.CreatedAt,
		Status:             string(order.Status),
		PaymentMethod:      string(order.PaymentMethod),
		TotalAmount:        order.TotalAmount.InexactFloat64(),
		TotalAfterDiscount: order.TotalAfterDiscount.InexactFloat64(),
		TotalAmountPaid:    order.TotalAmountPaid.InexactFloat64(),
		WalletPaidAmount:   order.WalletPaidAmount.InexactFloat64(),
		IsPaid:             order.IsPaid,
	}
	for _, item := range items {
		response.Items = append(response.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Brand:     item.Brand,
			Category:  item.Category,
			MainImage: item.MainImage,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}
	return response
}
