package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup          = "/api"
	RegisterRoute       = "/user/register"
	LoginRoute          = "/user/login"
	CartValidateRoute   = "/cart/validate"
	CheckoutRoute       = "/checkout"
	PaymentConfirmRoute = "/checkout/confirm"
	CouponApplyRoute    = "/coupon/apply"
	OrdersRoute         = "/user/orders"
	OrderRoute          = "/user/orders/:shortId"
	OrderCancelRoute    = "/user/orders/:shortId/cancel"
	OrderReturnRoute    = "/user/orders/:shortId/return"
	OrderShipRoute      = "/user/orders/:shortId/ship"
	OrderDeliverRoute   = "/user/orders/:shortId/deliver"
	WalletRoute         = "/user/wallet"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	OrderService   OrderServicer
	WalletService  WalletServicer
	PricingService PricingServicer
	JWTSecretKey   []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	checkoutHandler := NewCheckoutHandler(args.OrderService, args.PricingService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	walletHandler := NewWalletHandler(args.WalletService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(CartValidateRoute, checkoutHandler.ValidateCart)
	api.POST(CheckoutRoute, checkoutHandler.Checkout)
	api.POST(PaymentConfirmRoute, checkoutHandler.ConfirmPayment)
	api.POST(CouponApplyRoute, checkoutHandler.ApplyCoupon)

	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(OrderRoute, ordersHandler.Show)
	api.POST(OrderCancelRoute, ordersHandler.Cancel)
	api.POST(OrderReturnRoute, ordersHandler.Return)
	api.POST(OrderShipRoute, ordersHandler.Ship)
	api.POST(OrderDeliverRoute, ordersHandler.Deliver)

	api.GET(WalletRoute, walletHandler.Show)
	return r, nil
}
