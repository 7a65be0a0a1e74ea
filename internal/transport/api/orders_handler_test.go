package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/logger"
	"github.com/akarshgkumar/shoecart-sub000/internal/service/tokens"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/mocks"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/testutils"
)

type OrdersHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	jwtSecret        []byte
}

func TestOrdersHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrdersHandlerTestSuite))
}

func (s *OrdersHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:       logger.New(os.Stdout, "info"),
		OrderService: s.mockOrderService,
		JWTSecretKey: s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router
}

func (s *OrdersHandlerTestSuite) userToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *OrdersHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	var noOrdersUserID int64 = 2

	orders := []domain.Order{
		{
			ID:                 1,
			CreatedAt:          time.Now(),
			UserID:             userID,
			ShortID:            "ABC234",
			Status:             domain.OrderStatusProcessing,
			PaymentMethod:      domain.PaymentMethodWallet,
			TotalAmount:        decimal.NewFromInt(2000),
			TotalAfterDiscount: decimal.NewFromInt(1800),
			TotalAmountPaid:    decimal.NewFromInt(1800),
			WalletPaidAmount:   decimal.NewFromInt(1800),
			IsPaid:             true,
		},
	}
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), userID).Return(orders, nil)
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), noOrdersUserID).Return([]domain.Order{}, nil)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			jwtToken:   s.userToken(userID),
			wantStatus: http.StatusOK,
		}, {
			name:       "not authorized",
			jwtToken:   "",
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "no orders",
			jwtToken:   s.userToken(noOrdersUserID),
			wantStatus: http.StatusNoContent,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + OrdersRoute,
			}
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithBearerToken(t.jwtToken))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var parsed []OrderResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.Require().Len(parsed, 1)
				s.Equal("ABC234", parsed[0].OrderID)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestShow() {
	var userID int64 = 1
	order := domain.Order{
		ID:            1,
		UserID:        userID,
		ShortID:       "ABC234",
		Status:        domain.OrderStatusProcessing,
		PaymentMethod: domain.PaymentMethodWallet,
	}
	items := []domain.OrderItem{
		{ProductID: 10, Name: "Runner Pro", Size: "42", Quantity: 2, Price: decimal.NewFromInt(700)},
	}

	s.mockOrderService.EXPECT().
		GetByShortID(gomock.Any(), userID, order.ShortID).
		Return(&order, items, nil)
	s.mockOrderService.EXPECT().
		GetByShortID(gomock.Any(), userID, "ZZZZZZ").
		Return(nil, nil, domain.ErrOrderNotFound)

	cases := []struct {
		name       string
		shortID    string
		wantStatus int
	}{
		{name: "all ok", shortID: order.ShortID, wantStatus: http.StatusOK},
		{name: "not found", shortID: "ZZZZZZ", wantStatus: http.StatusNotFound},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + "/user/orders/" + t.shortID,
			}, testutils.WithBearerToken(s.userToken(userID)))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Require().Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var parsed OrderResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.Equal(order.ShortID, parsed.OrderID)
				s.Require().Len(parsed.Items, 1)
				s.Equal("Runner Pro", parsed.Items[0].Name)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestCancel() {
	var userID int64 = 1
	cancelled := domain.Order{
		ID: 1, UserID: userID, ShortID: "ABC234", Status: domain.OrderStatusCancelled,
	}

	s.mockOrderService.EXPECT().
		CancelOrder(gomock.Any(), userID, "ABC234").
		Return(&cancelled, nil)
	s.mockOrderService.EXPECT().
		CancelOrder(gomock.Any(), userID, "RET234").
		Return(nil, domain.ErrInvalidTransition)

	cases := []struct {
		name       string
		shortID    string
		wantStatus int
	}{
		{name: "cancelled", shortID: "ABC234", wantStatus: http.StatusOK},
		{name: "already returned", shortID: "RET234", wantStatus: http.StatusConflict},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + "/user/orders/" + t.shortID + "/cancel",
			}, testutils.WithBearerToken(s.userToken(userID)))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *OrdersHandlerTestSuite) TestReturn() {
	var userID int64 = 1
	returned := domain.Order{
		ID: 1, UserID: userID, ShortID: "ABC234", Status: domain.OrderStatusReturned,
	}

	s.mockOrderService.EXPECT().
		ReturnOrder(gomock.Any(), userID, "ABC234", domain.ReturnReasonDamaged, "порвана подошва").
		Return(&returned, nil)

	cases := []struct {
		name       string
		payload    gin.H
		wantStatus int
	}{
		{
			name:       "returned",
			payload:    gin.H{"reason": "damaged", "note": "порвана подошва"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown reason",
			payload:    gin.H{"reason": "changed my mind"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing reason",
			payload:    gin.H{"note": "n/a"},
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
				URL:    RouteGroup + "/user/orders/ABC234/return",
				Body:   bytes.NewReader(body),
			},
				testutils.WithBearerToken(s.userToken(userID)),
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

func (s *OrdersHandlerTestSuite) TestShipAndDeliver() {
	shipped := domain.Order{ID: 1, UserID: 1, ShortID: "ABC234", Status: domain.OrderStatusShipped}
	delivered := domain.Order{ID: 1, UserID: 1, ShortID: "ABC234", Status: domain.OrderStatusDelivered}

	s.mockOrderService.EXPECT().MarkShipped(gomock.Any(), "ABC234").Return(&shipped, nil)
	s.mockOrderService.EXPECT().MarkDelivered(gomock.Any(), "ABC234").Return(&delivered, nil)
	s.mockOrderService.EXPECT().
		MarkDelivered(gomock.Any(), "NEW234").
		Return(nil, domain.ErrInvalidTransition)

	cases := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{name: "shipped", url: "/user/orders/ABC234/ship", wantStatus: http.StatusOK},
		{name: "delivered", url: "/user/orders/ABC234/deliver", wantStatus: http.StatusOK},
		{name: "deliver before ship", url: "/user/orders/NEW234/deliver", wantStatus: http.StatusConflict},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + t.url,
			}, testutils.WithBearerToken(s.userToken(1)))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}
