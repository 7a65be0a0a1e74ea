package api

import (
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
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
	"github.com/akarshgkumar/shoecart-sub000/internal/service/tokens"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/mocks"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/testutils"
)

type WalletHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockWalletService *mocks.MockWalletServicer
	jwtSecret         []byte
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

func (s *WalletHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockWalletService = mocks.NewMockWalletServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:        logger.New(os.Stdout, "info"),
		WalletService: s.mockWalletService,
		JWTSecretKey:  s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router
}

func (s *WalletHandlerTestSuite) TestShow() {
	var userID int64 = 1

	wallet := service.Wallet{
		Balance: decimal.NewFromInt(1250),
		Transactions: []domain.WalletTransaction{
			{
				ID:        1,
				CreatedAt: time.Now(),
				UserID:    userID,
				OrderID:   7,
				OrderCode: "ABC234",
				Direction: domain.DirectionSubtraction,
				Amount:    decimal.NewFromInt(750),
			},
		},
	}
	s.mockWalletService.EXPECT().GetWallet(gomock.Any(), userID).Return(&wallet, nil)

	jwtToken, jwtErr := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", jwtToken: jwtToken, wantStatus: http.StatusOK},
		{name: "not authorized", wantStatus: http.StatusUnauthorized},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + WalletRoute,
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
			s.Require().Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var parsed WalletResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.InDelta(1250.0, parsed.Balance, 0.0001)
				s.Require().Len(parsed.Transactions, 1)
				s.Equal("ABC234", parsed.Transactions[0].OrderCode)
				s.Equal(string(domain.DirectionSubtraction), parsed.Transactions[0].Direction)
			}
		})
	}
}
