package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/logger"
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
	"github.com/akarshgkumar/shoecart-sub000/internal/service/tokens"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/mocks"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/testutils"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/gateway"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockOrderService   *mocks.MockOrderServicer
	mockPricingService *mocks.MockPricingServicer
	jwtSecret          []byte
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockPricingService = mocks.NewMockPricingServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:         logger.New(os.Stdout, "info"),
		OrderService:   s.mockOrderService,
		PricingService: s.mockPricingService,
		JWTSecretKey:   s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router
}

func (s *CheckoutHandlerTestSuite) userToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *CheckoutHandlerTestSuite) TestCheckout() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID)
	address := gofakeit.Street()

	// Коммит сразу: wallet-only.
	s.mockOrderService.EXPECT().
		PlaceOrder(gomock.Any(), service.PlaceOrderArgs{
			UserID:  currentUserID,
			Address: address,
			Method:  domain.PaymentMethodWallet,
		}).
		Return(&service.PlacementResult{Order: &domain.Order{ShortID: "ABC234"}}, nil)

	// Отложенный коммит: хэндл платежного ордера шлюза.
	s.mockOrderService.EXPECT().
		PlaceOrder(gomock.Any(), service.PlaceOrderArgs{
			UserID:  currentUserID,
			Address: address,
			Method:  domain.PaymentMethodGateway,
		}).
		Return(&service.PlacementResult{Gateway: &gateway.OrderHandle{
			GatewayOrderID: "gw_123",
			Amount:         decimal.NewFromInt(1500),
			KeyID:          "key_1",
		}}, nil)

	// Нехватка стока в момент коммита.
	s.mockOrderService.EXPECT().
		PlaceOrder(gomock.Any(), service.PlaceOrderArgs{
			UserID:  currentUserID,
			Address: address,
			Method:  domain.PaymentMethodCOD,
		}).
		Return(nil, domain.NewInsufficientStockError(10, "Runner Pro", 1))

	cases := []struct {
		name       string
		payload    gin.H
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "wallet commit",
			payload:    gin.H{"address": address, "paymentMethod": "wallet"},
			jwtToken:   jwtToken,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "gateway handle",
			payload:    gin.H{"address": address, "paymentMethod": "gateway"},
			jwtToken:   jwtToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "insufficient stock",
			payload:    gin.H{"address": address, "paymentMethod": "cod"},
			jwtToken:   jwtToken,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown payment method",
			payload:    gin.H{"address": address, "paymentMethod": "crypto"},
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing address",
			payload:    gin.H{"paymentMethod": "wallet"},
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not authorized",
			payload:    gin.H{"address": address, "paymentMethod": "wallet"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(t.payload)
			s.Require().NoError(marshalErr)

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + CheckoutRoute,
				Body:   bytes.NewReader(body),
			}
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithBearerToken(t.jwtToken))
			}
			reqOpts = append(reqOpts, testutils.WithHeader("Content-Type", "application/json"))
			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *CheckoutHandlerTestSuite) TestConfirmPayment() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID)

	s.mockOrderService.EXPECT().
		ConfirmGatewayPayment(gomock.Any(), service.ConfirmPaymentArgs{
			GatewayOrderID: "gw_123",
			PaymentID:      "pay_1",
			Signature:      "good",
		}).
		Return(&domain.Order{ShortID: "ABC234"}, nil)

	s.mockOrderService.EXPECT().
		ConfirmGatewayPayment(gomock.Any(), service.ConfirmPaymentArgs{
			GatewayOrderID: "gw_123",
			PaymentID:      "pay_1",
			Signature:      "forged",
		}).
		Return(nil, domain.ErrPaymentVerificationFailed)

	cases := []struct {
		name       string
		payload    gin.H
		wantStatus int
	}{
		{
			name:       "confirmed",
			payload:    gin.H{"gatewayOrderId": "gw_123", "paymentId": "pay_1", "signature": "good"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "forged signature",
			payload:    gin.H{"gatewayOrderId": "gw_123", "paymentId": "pay_1", "signature": "forged"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing fields",
			payload:    gin.H{"gatewayOrderId": "gw_123"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(t.payload)
			s.Require().NoError(marshalErr)

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + PaymentConfirmRoute,
				Body:   bytes.NewReader(body),
			},
				testutils.WithBearerToken(jwtToken),
				testutils.WithHeader("Content-Type", "application/json"),
			)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *CheckoutHandlerTestSuite) TestValidateCart() {
	var okUserID int64 = 1
	var shortUserID int64 = 2
	var emptyUserID int64 = 3

	s.mockOrderService.EXPECT().
		ValidateCart(gomock.Any(), okUserID).
		Return(&service.CartValidation{OK: true}, nil)
	s.mockOrderService.EXPECT().
		ValidateCart(gomock.Any(), shortUserID).
		Return(&service.CartValidation{OK: false, FailingProduct: "Runner Pro", AvailableStock: 1}, nil)
	s.mockOrderService.EXPECT().
		ValidateCart(gomock.Any(), emptyUserID).
		Return(nil, domain.ErrEmptyCart)

	cases := []struct {
		name       string
		userID     int64
		wantStatus int
		wantOK     bool
	}{
		{name: "ok", userID: okUserID, wantStatus: http.StatusOK, wantOK: true},
		{name: "insufficient stock", userID: shortUserID, wantStatus: http.StatusOK},
		{name: "empty cart", userID: emptyUserID, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + CartValidateRoute,
			}, testutils.WithBearerToken(s.userToken(t.userID)))

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Require().Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var parsed CartValidationResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.Equal(t.wantOK, parsed.OK)
			}
		})
	}
}

func (s *CheckoutHandlerTestSuite) TestApplyCoupon() {
	jwtToken := s.userToken(1)

	s.mockPricingService.EXPECT().
		ApplyCoupon(gomock.Any(), "SAVE10").
		Return(decimal.NewFromInt(10), nil)
	s.mockPricingService.EXPECT().
		ApplyCoupon(gomock.Any(), "NOPE").
		Return(decimal.Zero, domain.ErrInvalidCoupon)

	cases := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{name: "active coupon", code: "SAVE10", wantStatus: http.StatusOK},
		{name: "unknown coupon", code: "NOPE", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body := []byte(fmt.Sprintf(`{"code":%q}`, t.code))

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + CouponApplyRoute,
				Body:   bytes.NewReader(body),
			},
				testutils.WithBearerToken(jwtToken),
				testutils.WithHeader("Content-Type", "application/json"),
			)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var parsed ApplyCouponResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.InDelta(10.0, parsed.DiscountPercentage, 0.0001)
			}
		})
	}
}
