package service

import (
	"fmt"

	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	OrderService   *OrderService
	PricingService *PricingService
	WalletService  *WalletService
}

type FactoryArgs struct {
	JWTSecret     []byte
	GatewayClient GatewayClient
	Bonuses       ReferralBonuses
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.JWTSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	pricingService, pricingServiceErr := NewPricingService(unitOfWork)
	if pricingServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", pricingServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(
		unitOfWork, pricingService, args.GatewayClient, args.Bonuses)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(unitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		OrderService:   orderService,
		PricingService: pricingService,
		WalletService:  walletService,
	}, nil
}
