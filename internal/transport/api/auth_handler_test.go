package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/logger"
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/mocks"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api/testutils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)

	router, routerErr := New(RouterArgs{
		Logger:       logger.New(os.Stdout, "info"),
		UserService:  s.mockUserService,
		JWTSecretKey: []byte("super secret key"),
	})
	s.Require().NoError(routerErr)
	s.router = router
}

func (s *AuthHandlerTestSuite) TestRegister() {
	username := gofakeit.Username()
	takenUsername := "taken_" + username

	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Username: username, Password: "secret123"}).
		Return(&domain.User{ID: 1, Username: username}, "signed.jwt.token", nil)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Username: takenUsername, Password: "secret123"}).
		Return(nil, "", domain.ErrDuplicateKey)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{
			Username:     username,
			Password:     "secret123",
			ReferralCode: "bob",
		}).
		Return(&domain.User{ID: 2, Username: username}, "signed.jwt.token", nil)

	cases := []struct {
		name       string
		payload    gin.H
		wantStatus int
		wantToken  bool
	}{
		{
			name:       "registered",
			payload:    gin.H{"login": username, "password": "secret123"},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name:       "with referral code",
			payload:    gin.H{"login": username, "password": "secret123", "referralCode": "bob"},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name:       "username taken",
			payload:    gin.H{"login": takenUsername, "password": "secret123"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "password too short",
			payload:    gin.H{"login": username, "password": "123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			// max_bytes считает байты: руны влезают в лимит рун, но не байт.
			name: "password over byte limit",
			payload: gin.H{
				"login":    username,
				"password": testutils.GenerateOverBytesUnderRunes(20),
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			payload:    gin.H{"login": username},
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
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(body),
			}, testutils.WithHeader("Content-Type", "application/json"))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Require().Equal(t.wantStatus, res.StatusCode)

			if t.wantToken {
				var parsed AuthResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.NotEmpty(parsed.Token)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Username: "alice", Password: "secret123"}).
		Return(&domain.User{ID: 1, Username: "alice"}, "signed.jwt.token", nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Username: "alice", Password: "wrong"}).
		Return(nil, "", domain.ErrPasswordMissMatch)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Username: "ghost", Password: "secret123"}).
		Return(nil, "", domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		payload    gin.H
		wantStatus int
	}{
		{
			name:       "logged in",
			payload:    gin.H{"login": "alice", "password": "secret123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			payload:    gin.H{"login": "alice", "password": "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			payload:    gin.H{"login": "ghost", "password": "secret123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			payload:    gin.H{"login": "alice"},
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
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(body),
			}, testutils.WithHeader("Content-Type", "application/json"))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}
