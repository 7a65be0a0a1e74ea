package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/internal/service/mocks"
	"github.com/akarshgkumar/shoecart-sub000/internal/service/tokens"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
	uowmocks "github.com/akarshgkumar/shoecart-sub000/pkg/uow/mocks"
)

var testJWTSecret = []byte("test-secret")

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	userService, err := NewUserService(s.mockUOW, testJWTSecret)
	s.Require().NoError(err)
	s.userService = userService
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) expectDo() {
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
}

func (s *UserServiceTestSuite) TestRegister() {
	s.expectDo()

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Equal("alice", args.Username)
			s.Nil(args.ReferredBy)
			// В репозиторий уходит bcrypt хэш, не сырой пароль.
			s.NoError(bcrypt.CompareHashAndPassword([]byte(args.Password), []byte("secret123")))
			return &domain.User{ID: 1, Username: args.Username}, nil
		})

	user, token, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username: "alice",
		Password: "secret123",
	})

	s.Require().NoError(err)
	s.Equal(int64(1), user.ID)

	parsed, parseErr := tokens.ValidateUserJWT(token, testJWTSecret)
	s.Require().NoError(parseErr)
	claims, ok := parsed.Claims.(*tokens.UserClaims)
	s.Require().True(ok)
	s.Equal(user.ID, claims.ID)
}

// Реферальный код - юзернейм пригласившего.
func (s *UserServiceTestSuite) TestRegisterWithReferralCode() {
	var referrerID int64 = 42

	s.mockUserRepo.EXPECT().
		FindByUsername(gomock.Any(), "bob").
		Return(&domain.User{ID: referrerID, Username: "bob"}, nil)

	s.expectDo()

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Require().NotNil(args.ReferredBy)
			s.Equal(referrerID, *args.ReferredBy)
			return &domain.User{ID: 2, Username: args.Username, ReferredBy: args.ReferredBy}, nil
		})

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username:     "alice",
		Password:     "secret123",
		ReferralCode: "bob",
	})

	s.Require().NoError(err)
}

// Невалидный код не роняет регистрацию - юзер создается без реферальной связи.
func (s *UserServiceTestSuite) TestRegisterWithUnknownReferralCode() {
	s.mockUserRepo.EXPECT().
		FindByUsername(gomock.Any(), "ghost").
		Return(nil, domain.ErrRecordNotFound)

	s.expectDo()

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Nil(args.ReferredBy)
			return &domain.User{ID: 2, Username: args.Username}, nil
		})

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username:     "alice",
		Password:     "secret123",
		ReferralCode: "ghost",
	})

	s.Require().NoError(err)
}

func (s *UserServiceTestSuite) TestRegisterDuplicateUsername() {
	s.expectDo()

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username: "alice",
		Password: "secret123",
	})

	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestLogin() {
	hash, hashErr := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	s.Require().NoError(hashErr)
	user := domain.User{ID: 1, Username: "alice", EncryptedPassword: string(hash)}

	s.mockUserRepo.EXPECT().FindByUsername(gomock.Any(), "alice").Return(&user, nil).Times(2)

	cases := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "ok", password: "secret123"},
		{name: "wrong password", password: "nope", wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			logged, token, err := s.userService.Login(s.T().Context(), LoginUserArgs{
				Username: "alice",
				Password: t.password,
			})

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(user.ID, logged.ID)
			s.NotEmpty(token)
		})
	}
}
