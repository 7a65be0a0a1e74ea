package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive

	"github.com/akarshgkumar/shoecart-sub000/internal/config"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/pgrepo"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/internal/service"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/api"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/gateway"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	gatewayClient := gateway.New(gateway.Config{
		BaseURL: a.Config.GatewayBaseURL,
		KeyID:   a.Config.GatewayKeyID,
		Secret:  []byte(a.Config.GatewaySecret),
	})

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:     []byte(a.Config.JWTSecret),
		GatewayClient: gatewayClient,
		Bonuses: service.ReferralBonuses{
			Referrer: a.Config.ReferrerBonusAmount(),
			Referee:  a.Config.RefereeBonusAmount(),
		},
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:         a.Logger,
		UserService:    services.UserService,
		OrderService:   services.OrderService,
		WalletService:  services.WalletService,
		PricingService: services.PricingService,
		JWTSecretKey:   []byte(a.Config.JWTSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.ProductRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewProductRepository(dbtx)
		},
		repoargs.CartRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCartRepository(dbtx)
		},
		repoargs.CouponRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCouponRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.WalletTransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewWalletTransactionRepository(dbtx)
		},
		repoargs.GatewayIntentRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewGatewayIntentRepository(dbtx)
		},
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
