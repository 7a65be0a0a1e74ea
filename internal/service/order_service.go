package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/internal/service/shortid"
	"github.com/akarshgkumar/shoecart-sub000/internal/transport/gateway"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

// ReferralBonuses суммы реферальных начислений: пригласившему и новому юзеру,
// один раз, только за первый заказ.
type ReferralBonuses struct {
	Referrer decimal.Decimal
	Referee  decimal.Decimal
}

// OrderService движок размещения и обратной раскрутки заказов. Все многошаговые
// мутации (сток + кошелек + заказ) выполняются внутри одной uow транзакции.
type OrderService struct {
	uow           uow.UOW
	orderRepo     OrderRepository
	cartRepo      CartRepository
	userRepo      UserRepository
	intentRepo    GatewayIntentRepository
	pricing       *PricingService
	gatewayClient GatewayClient
	bonuses       ReferralBonuses
}

func NewOrderService(
	u uow.UOW,
	pricing *PricingService,
	gatewayClient GatewayClient,
	bonuses ReferralBonuses,
) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	cartRepo, err := uow.GetRepositoryAs[CartRepository](u, uow.RepositoryName(repoargs.CartRepoName))
	if err != nil {
		return nil, err
	}
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err
	}
	intentRepo, err := uow.GetRepositoryAs[GatewayIntentRepository](
		u, uow.RepositoryName(repoargs.GatewayIntentRepoName))
	if err != nil {
		return nil, err
	}

	return &OrderService{
		uow:           u,
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		userRepo:      userRepo,
		intentRepo:    intentRepo,
		pricing:       pricing,
		gatewayClient: gatewayClient,
		bonuses:       bonuses,
	}, nil
}

// CartValidation результат предварительной проверки корзины. Не гарантия успешного
// коммита: сток перепроверяется атомарно в момент коммита.
type CartValidation struct {
	OK             bool
	FailingProduct string
	AvailableStock int32
}

// ValidateCart проверяет что каждая строка корзины покупаема по текущему стоку.
// Строки с удаленными товарами уже отброшены на уровне репозитория.
func (o *OrderService) ValidateCart(ctx context.Context, userID int64) (*CartValidation, error) {
	lines, err := o.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("validating cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, line := range lines {
		if line.Stock < line.Quantity {
			return &CartValidation{
				OK:             false,
				FailingProduct: line.Name,
				AvailableStock: line.Stock,
			}, nil
		}
	}
	return &CartValidation{OK: true}, nil
}

type PlaceOrderArgs struct {
	UserID     int64
	Address    string
	Method     domain.PaymentMethodType
	CouponCode string
	UseWallet  bool
}

// PlacementResult либо созданный заказ (немедленный коммит), либо хэндл платежного
// ордера шлюза (коммит отложен до подтверждения).
type PlacementResult struct {
	Order   *domain.Order
	Gateway *gateway.OrderHandle
}

// PlaceOrder размещает заказ: валидация корзины, расчет цены, маршрутизация оплаты.
// Пути wallet-only и cod коммитят сразу; путь через шлюз сохраняет intent и возвращает
// хэндл - Order на этом этапе не создается, коммит случится в ConfirmGatewayPayment.
func (o *OrderService) PlaceOrder(ctx context.Context, args PlaceOrderArgs) (*PlacementResult, error) {
	lines, linesErr := o.cartRepo.GetLines(ctx, args.UserID)
	if linesErr != nil {
		return nil, fmt.Errorf("placing order: %w", linesErr)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Быстрая проверка стока до каких-либо вызовов наружу. Коммит перепроверит атомарно.
	for _, line := range lines {
		if line.Stock < line.Quantity {
			return nil, domain.NewInsufficientStockError(line.ProductID, line.Name, line.Stock)
		}
	}

	quote, quoteErr := o.pricing.Resolve(ctx, lines, args.CouponCode)
	if quoteErr != nil {
		return nil, quoteErr
	}

	user, userErr := o.userRepo.FindByID(ctx, args.UserID)
	if userErr != nil {
		return nil, fmt.Errorf("placing order: %w", userErr)
	}

	route := RoutePayment(RoutePaymentArgs{
		Method:        args.Method,
		Total:         quote.TotalAfterDiscount,
		WalletOptIn:   args.UseWallet,
		WalletBalance: user.WalletBalance,
	})

	if !route.CommitNow {
		handle, handleErr := o.gatewayClient.CreateOrder(ctx, route.GatewayAmount)
		if handleErr != nil {
			return nil, fmt.Errorf("creating gateway order: %w", handleErr)
		}
		_, intentErr := o.intentRepo.Create(ctx, repoargs.GatewayIntentCreate{
			GatewayOrderID: handle.GatewayOrderID,
			UserID:         args.UserID,
			Address:        args.Address,
			CouponCode:     args.CouponCode,
			WalletAmount:   route.WalletAmount,
			GatewayAmount:  route.GatewayAmount,
		})
		if intentErr != nil {
			return nil, fmt.Errorf("saving gateway intent: %w", intentErr)
		}
		return &PlacementResult{Gateway: handle}, nil
	}

	order, commitErr := o.commit(ctx, commitArgs{
		UserID:        args.UserID,
		Address:       args.Address,
		CouponCode:    args.CouponCode,
		Method:        route.Method,
		Lines:         lines,
		Quote:         quote,
		WalletAmount:  route.WalletAmount,
		GatewayAmount: decimal.Zero,
		IsPaid:        route.DueOnDelivery.IsZero(),
	})
	if commitErr != nil {
		return nil, commitErr
	}
	return &PlacementResult{Order: order}, nil
}

type ConfirmPaymentArgs struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// ConfirmGatewayPayment вторая фаза оплаты через шлюз. Подпись сверяется с независимо
// вычисленным HMAC; при несовпадении ничего не персистится. Только после проверки
// выполняется обычный коммит с зафиксированными в intent параметрами.
func (o *OrderService) ConfirmGatewayPayment(ctx context.Context, args ConfirmPaymentArgs) (*domain.Order, error) {
	if !o.gatewayClient.VerifySignature(args.GatewayOrderID, args.PaymentID, args.Signature) {
		return nil, domain.ErrPaymentVerificationFailed
	}

	intent, intentErr := o.intentRepo.FindByGatewayOrderID(ctx, args.GatewayOrderID)
	if intentErr != nil {
		if errors.Is(intentErr, domain.ErrRecordNotFound) {
			// Подпись сошлась, но такого платежного ордера мы не создавали.
			return nil, domain.ErrPaymentVerificationFailed
		}
		return nil, fmt.Errorf("confirming gateway payment: %w", intentErr)
	}

	lines, linesErr := o.cartRepo.GetLines(ctx, intent.UserID)
	if linesErr != nil {
		return nil, fmt.Errorf("confirming gateway payment: %w", linesErr)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	quote, quoteErr := o.pricing.Resolve(ctx, lines, intent.CouponCode)
	if quoteErr != nil {
		return nil, quoteErr
	}

	// Между фазами корзина могла измениться. Оплаченная через шлюз сумма
	// зафиксирована в intent; если пересчитанный итог ей больше не равен,
	// коммитить заказ нельзя - пусть юзер проходит чекаут заново.
	if !quote.TotalAfterDiscount.Equal(intent.WalletAmount.Add(intent.GatewayAmount)) {
		return nil, domain.ErrPaymentVerificationFailed
	}

	return o.commit(ctx, commitArgs{
		UserID:        intent.UserID,
		Address:       intent.Address,
		CouponCode:    intent.CouponCode,
		Method:        domain.PaymentMethodGateway,
		Lines:         lines,
		Quote:         quote,
		WalletAmount:  intent.WalletAmount,
		GatewayAmount: intent.GatewayAmount,
		IsPaid:        true,
		IntentID:      intent.ID,
	})
}

type commitArgs struct {
	UserID        int64
	Address       string
	CouponCode    string
	Method        domain.PaymentMethodType
	Lines         []domain.CartLine
	Quote         *Quote
	WalletAmount  decimal.Decimal
	GatewayAmount decimal.Decimal
	IsPaid        bool
	IntentID      int64
}

// commit атомарно применяет весь набор мутаций размещения. Каждая попытка - отдельная
// транзакция с новым кандидатом short id: коллизия уникального индекса откатывает
// транзакцию целиком и служит триггером повторной генерации. Исчерпание попыток
// возвращает domain.ErrIDAllocationExhausted без каких-либо side effects.
func (o *OrderService) commit(ctx context.Context, args commitArgs) (*domain.Order, error) {
	for range shortid.MaxAllocationAttempts {
		code := shortid.New()

		var order *domain.Order
		txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			var commitErr error
			order, commitErr = o.commitOnce(c, tx, code, args)
			return commitErr
		})
		if txErr == nil {
			return order, nil
		}
		if errors.Is(txErr, domain.ErrDuplicateKey) {
			continue
		}
		return nil, txErr
	}
	return nil, domain.ErrIDAllocationExhausted
}

//nolint:cyclop
func (o *OrderService) commitOnce(
	ctx context.Context,
	tx uow.TX,
	code string,
	args commitArgs,
) (*domain.Order, error) {
	orderRepo, err := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	productRepo, err := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	walletRepo, err := uow.GetAs[WalletTransactionRepository](
		tx, uow.RepositoryName(repoargs.WalletTransactionRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	cartRepo, err := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	order, orderErr := orderRepo.CreateOrder(ctx, repoargs.OrderCreate{
		ShortID:            code,
		UserID:             args.UserID,
		PaymentMethod:      args.Method,
		Address:            args.Address,
		CouponCode:         args.CouponCode,
		TotalAmount:        args.Quote.Subtotal,
		TotalAfterDiscount: args.Quote.TotalAfterDiscount,
		TotalAmountPaid:    args.WalletAmount.Add(args.GatewayAmount),
		WalletPaidAmount:   args.WalletAmount,
		IsPaid:             args.IsPaid,
	})
	if orderErr != nil {
		return nil, orderErr //nolint:wrapcheck
	}

	items := make([]repoargs.OrderItemCreate, len(args.Lines))
	for i, line := range args.Lines {
		items[i] = repoargs.OrderItemCreate{
			ProductID: line.ProductID,
			Name:      line.Name,
			Brand:     line.Brand,
			Category:  line.Category,
			MainImage: line.MainImage,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     line.PriceAfterDiscount,
		}
	}
	if itemsErr := orderRepo.CreateOrderItems(ctx, order.ID, items); itemsErr != nil {
		return nil, itemsErr //nolint:wrapcheck
	}

	// Резерв перепроверяет сток условным UPDATE: корзина, провалидированная минуты
	// назад, могла устареть из-за конкурентных заказов.
	for _, line := range args.Lines {
		if reserveErr := productRepo.Reserve(ctx, line.ProductID, line.Quantity); reserveErr != nil {
			return nil, reserveErr //nolint:wrapcheck
		}
	}

	if args.WalletAmount.IsPositive() {
		if _, debitErr := userRepo.AdjustWallet(ctx, args.UserID, args.WalletAmount.Neg()); debitErr != nil {
			return nil, debitErr //nolint:wrapcheck
		}
		if _, ledgerErr := walletRepo.Create(ctx, repoargs.WalletTransactionCreate{
			UserID:    args.UserID,
			OrderID:   order.ID,
			Direction: domain.DirectionSubtraction,
			Amount:    args.WalletAmount,
		}); ledgerErr != nil {
			return nil, ledgerErr //nolint:wrapcheck
		}
	}

	if bonusErr := o.grantReferralBonus(ctx, userRepo, args.UserID); bonusErr != nil {
		return nil, bonusErr
	}

	if clearErr := cartRepo.Clear(ctx, args.UserID); clearErr != nil {
		return nil, clearErr //nolint:wrapcheck
	}

	if args.IntentID != 0 {
		intentRepo, intentRepoErr := uow.GetAs[GatewayIntentRepository](
			tx, uow.RepositoryName(repoargs.GatewayIntentRepoName))
		if intentRepoErr != nil {
			return nil, intentRepoErr //nolint:wrapcheck
		}
		if delErr := intentRepo.Delete(ctx, args.IntentID); delErr != nil {
			return nil, delErr //nolint:wrapcheck
		}
	}

	return order, nil
}

// grantReferralBonus начисляет реферальный бонус за первый заказ приглашенного юзера.
// Одноразовость гарантирует условный UPDATE флага referral_rewarded. Начисления
// намеренно идут мимо леджера - строки WalletTransaction привязаны только к заказам.
func (o *OrderService) grantReferralBonus(ctx context.Context, userRepo UserRepository, userID int64) error {
	referrerID, claimErr := userRepo.ClaimReferralReward(ctx, userID)
	if claimErr != nil {
		if errors.Is(claimErr, domain.ErrRecordNotFound) {
			// Юзер не по приглашению, либо бонус уже выдан.
			return nil
		}
		return claimErr //nolint:wrapcheck
	}

	if _, err := userRepo.AdjustWallet(ctx, referrerID, o.bonuses.Referrer); err != nil {
		return err //nolint:wrapcheck
	}
	if _, err := userRepo.AdjustWallet(ctx, userID, o.bonuses.Referee); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}

// GetByUserID возвращает заказы юзера по убыванию даты создания.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetByShortID возвращает заказ юзера вместе со снапшотами строк.
func (o *OrderService) GetByShortID(
	ctx context.Context,
	userID int64,
	shortID string,
) (*domain.Order, []domain.OrderItem, error) {
	order, orderErr := o.findOwnOrder(ctx, userID, shortID)
	if orderErr != nil {
		return nil, nil, orderErr
	}
	items, itemsErr := o.orderRepo.GetItems(ctx, order.ID)
	if itemsErr != nil {
		return nil, nil, itemsErr //nolint:wrapcheck
	}
	return order, items, nil
}

// CancelOrder отменяет заказ: терминальный статус, возврат стока и счетчика проданного,
// возврат totalAmountPaid на кошелек с записью в леджер. Повторный вызов - no-op.
func (o *OrderService) CancelOrder(ctx context.Context, userID int64, shortID string) (*domain.Order, error) {
	order, orderErr := o.findOwnOrder(ctx, userID, shortID)
	if orderErr != nil {
		return nil, orderErr
	}
	if order.Status == domain.OrderStatusCancelled {
		// Идемпотентность: повторная отмена не делает второй рефанд.
		return order, nil
	}
	if order.Status == domain.OrderStatusReturned {
		return nil, domain.ErrInvalidTransition
	}

	return o.reverse(ctx, order, repoargs.OrderStatusUpdate{
		OrderID: order.ID,
		Status:  domain.OrderStatusCancelled,
		AllowedFrom: []domain.OrderStatusType{
			domain.OrderStatusProcessing,
			domain.OrderStatusShipped,
			domain.OrderStatusDelivered,
		},
		StatusDate: time.Now(),
	}, true)
}

// ReturnOrder оформляет возврат доставленного заказа. Возврат по браку (damaged)
// не возвращает сток - товар больше не продается, но счетчик проданного откатывается.
func (o *OrderService) ReturnOrder(
	ctx context.Context,
	userID int64,
	shortID string,
	reason domain.ReturnReasonType,
	note string,
) (*domain.Order, error) {
	order, orderErr := o.findOwnOrder(ctx, userID, shortID)
	if orderErr != nil {
		return nil, orderErr
	}
	if order.Status == domain.OrderStatusReturned {
		return order, nil
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, domain.ErrInvalidTransition
	}

	restoreStock := reason != domain.ReturnReasonDamaged

	return o.reverse(ctx, order, repoargs.OrderStatusUpdate{
		OrderID:      order.ID,
		Status:       domain.OrderStatusReturned,
		AllowedFrom:  []domain.OrderStatusType{domain.OrderStatusDelivered},
		StatusDate:   time.Now(),
		ReturnReason: reason,
		ReturnNote:   note,
	}, restoreStock)
}

// reverse компенсирующая транзакция: условный перевод в терминальный статус, release
// по каждой строке и рефанд кошелька. Условный UPDATE статуса делает гонку двух
// отмен безопасной - проигравшая транзакция не найдет строку и откатится.
func (o *OrderService) reverse(
	ctx context.Context,
	order *domain.Order,
	statusUpdate repoargs.OrderStatusUpdate,
	restoreStock bool,
) (*domain.Order, error) {
	var reversed *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, err := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		productRepo, err := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		walletRepo, err := uow.GetAs[WalletTransactionRepository](
			tx, uow.RepositoryName(repoargs.WalletTransactionRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		var updErr error
		reversed, updErr = orderRepo.UpdateStatus(c, statusUpdate)
		if updErr != nil {
			if errors.Is(updErr, domain.ErrRecordNotFound) {
				// Кто-то финализировал заказ параллельно.
				return domain.ErrInvalidTransition
			}
			return updErr //nolint:wrapcheck
		}

		items, itemsErr := orderRepo.GetItems(c, order.ID)
		if itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}
		for _, item := range items {
			if releaseErr := productRepo.Release(c, item.ProductID, item.Quantity, restoreStock); releaseErr != nil {
				return releaseErr //nolint:wrapcheck
			}
		}

		// Рефанд считается по строке из условного UPDATE, а не по снапшоту
		// до транзакции: параллельная доставка могла успеть рассчитать
		// наложенный платеж и увеличить TotalAmountPaid.
		if reversed.TotalAmountPaid.IsPositive() {
			if _, creditErr := userRepo.AdjustWallet(c, order.UserID, reversed.TotalAmountPaid); creditErr != nil {
				return creditErr //nolint:wrapcheck
			}
			if _, ledgerErr := walletRepo.Create(c, repoargs.WalletTransactionCreate{
				UserID:    order.UserID,
				OrderID:   order.ID,
				Direction: domain.DirectionAddition,
				Amount:    reversed.TotalAmountPaid,
			}); ledgerErr != nil {
				return ledgerErr //nolint:wrapcheck
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrInvalidTransition) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("reversing order %s: %w", order.ShortID, txErr)
	}
	return reversed, nil
}

// MarkShipped переводит Processing -> Shipped.
func (o *OrderService) MarkShipped(ctx context.Context, shortID string) (*domain.Order, error) {
	return o.forward(ctx, shortID, domain.OrderStatusShipped, domain.OrderStatusProcessing)
}

// MarkDelivered переводит Shipped -> Delivered. Для наложенного платежа фиксирует
// оплату остатка: курьер принял деньги при вручении.
func (o *OrderService) MarkDelivered(ctx context.Context, shortID string) (*domain.Order, error) {
	order, err := o.forward(ctx, shortID, domain.OrderStatusDelivered, domain.OrderStatusShipped)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod == domain.PaymentMethodCOD && !order.IsPaid {
		settled, settleErr := o.orderRepo.SettleCODPayment(ctx, order.ID)
		if settleErr != nil {
			return nil, settleErr //nolint:wrapcheck
		}
		return settled, nil
	}
	return order, nil
}

func (o *OrderService) forward(
	ctx context.Context,
	shortID string,
	to domain.OrderStatusType,
	from domain.OrderStatusType,
) (*domain.Order, error) {
	order, findErr := o.orderRepo.FindByShortID(ctx, shortID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, findErr //nolint:wrapcheck
	}

	updated, updErr := o.orderRepo.UpdateStatus(ctx, repoargs.OrderStatusUpdate{
		OrderID:     order.ID,
		Status:      to,
		AllowedFrom: []domain.OrderStatusType{from},
		StatusDate:  time.Now(),
	})
	if updErr != nil {
		if errors.Is(updErr, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, updErr //nolint:wrapcheck
	}
	return updated, nil
}

func (o *OrderService) findOwnOrder(ctx context.Context, userID int64, shortID string) (*domain.Order, error) {
	order, err := o.orderRepo.FindByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err //nolint:wrapcheck
	}
	// Чужой заказ не раскрываем, ведем себя как будто его нет.
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}
