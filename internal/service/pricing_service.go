package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

// PricingService считает суммы заказа и применяет купон (не более одного на заказ).
type PricingService struct {
	couponRepo CouponRepository
}

func NewPricingService(u uow.UOW) (*PricingService, error) {
	couponRepo, err := uow.GetRepositoryAs[CouponRepository](u, uow.RepositoryName(repoargs.CouponRepoName))
	if err != nil {
		return nil, err
	}
	return &PricingService{couponRepo: couponRepo}, nil
}

// Quote результат расчета: subtotal, скидка купона и итог (не ниже нуля).
type Quote struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAfterDiscount decimal.Decimal
}

// Resolve считает суммы по строкам корзины. Скидка купона - процент от subtotal,
// поверх уже заложенных в price_after_discount товарных скидок (не компаундится).
// Несуществующий или удаленный купон возвращает domain.ErrInvalidCoupon.
func (p *PricingService) Resolve(ctx context.Context, lines []domain.CartLine, couponCode string) (*Quote, error) {
	var subtotal decimal.Decimal
	for _, line := range lines {
		subtotal = subtotal.Add(line.PriceAfterDiscount.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	discount := decimal.Zero
	if couponCode != "" {
		percentage, err := p.ApplyCoupon(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		discount = subtotal.Mul(percentage).Div(decimal.NewFromInt(100)) //nolint:mnd
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return &Quote{
		Subtotal:           subtotal,
		DiscountAmount:     discount,
		TotalAfterDiscount: total,
	}, nil
}

// ApplyCoupon возвращает процент скидки активного купона или domain.ErrInvalidCoupon.
func (p *PricingService) ApplyCoupon(ctx context.Context, code string) (decimal.Decimal, error) {
	coupon, err := p.couponRepo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.Zero, domain.ErrInvalidCoupon
		}
		return decimal.Zero, fmt.Errorf("applying coupon: %w", err)
	}
	return coupon.DiscountPercentage, nil
}
