package pgrepo

import (
	"context"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type CouponRepository struct {
	db uow.DBTX
}

func NewCouponRepository(db uow.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

// FindActiveByCode ищет не удаленный (soft-delete) купон по коду. Возвращает
// domain.ErrRecordNotFound если купона нет или он удален.
func (c *CouponRepository) FindActiveByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := c.db.QueryRow(ctx,
		`SELECT id, created_at, updated_at, code, discount_percentage, is_deleted
		FROM coupons WHERE code = $1 AND NOT is_deleted`, code).
		Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt, &coupon.Code,
			&coupon.DiscountPercentage, &coupon.IsDeleted)

	if err != nil {
		return nil, convertErr(err, "finding coupon by code `%s`", code)
	}
	return &coupon, nil
}
