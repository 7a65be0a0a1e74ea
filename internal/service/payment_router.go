package service

import (
	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
)

// RoutePaymentArgs вход маршрутизатора оплаты.
type RoutePaymentArgs struct {
	Method        domain.PaymentMethodType
	Total         decimal.Decimal
	WalletOptIn   bool
	WalletBalance decimal.Decimal
}

// PaymentRoute решение маршрутизатора. CommitNow=false означает что коммит откладывается
// до подтверждения шлюза, GatewayAmount - сумма платежного ордера в нем.
type PaymentRoute struct {
	CommitNow     bool
	Method        domain.PaymentMethodType
	WalletAmount  decimal.Decimal
	GatewayAmount decimal.Decimal
	DueOnDelivery decimal.Decimal
}

// RoutePayment чистая функция принятия решения по таблице:
//   - кошелек не задействован, метод gateway: платежный ордер на всю сумму;
//   - кошелек не задействован, метод cod: коммит сразу, вся сумма к оплате при доставке;
//   - кошелек покрывает итог: коммит сразу wallet-only, шлюз не вызывается;
//   - кошелек не покрывает, метод cod: коммит сразу, остаток при доставке;
//   - кошелек не покрывает, иначе: платежный ордер на остаток.
//
// Выбор метода wallet сам по себе означает согласие тратить кошелек.
func RoutePayment(args RoutePaymentArgs) PaymentRoute {
	useWallet := args.WalletOptIn || args.Method == domain.PaymentMethodWallet

	walletAmount := decimal.Zero
	if useWallet {
		walletAmount = decimal.Min(args.WalletBalance, args.Total)
	}
	remainder := args.Total.Sub(walletAmount)

	if remainder.IsZero() {
		// Кошелек покрывает все (в том числе нулевой итог).
		return PaymentRoute{
			CommitNow:    true,
			Method:       domain.PaymentMethodWallet,
			WalletAmount: walletAmount,
		}
	}

	if args.Method == domain.PaymentMethodCOD {
		return PaymentRoute{
			CommitNow:     true,
			Method:        domain.PaymentMethodCOD,
			WalletAmount:  walletAmount,
			DueOnDelivery: remainder,
		}
	}

	// Методы gateway и wallet-при-нехватке-баланса уходят в шлюз за остатком.
	return PaymentRoute{
		CommitNow:     false,
		Method:        domain.PaymentMethodGateway,
		WalletAmount:  walletAmount,
		GatewayAmount: remainder,
	}
}
