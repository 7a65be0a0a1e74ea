package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type GatewayIntentRepository struct {
	db uow.DBTX
}

func NewGatewayIntentRepository(db uow.DBTX) *GatewayIntentRepository {
	return &GatewayIntentRepository{db: db}
}

const gatewayIntentColumns = `id, created_at, gateway_order_id, user_id, address,
	coupon_code, wallet_amount, gateway_amount`

func (g *GatewayIntentRepository) Create(
	ctx context.Context,
	args repoargs.GatewayIntentCreate,
) (*domain.GatewayIntent, error) {
	row := g.db.QueryRow(ctx,
		`INSERT INTO gateway_intents (gateway_order_id, user_id, address, coupon_code,
			wallet_amount, gateway_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+gatewayIntentColumns,
		args.GatewayOrderID, args.UserID, args.Address, args.CouponCode,
		args.WalletAmount, args.GatewayAmount)

	intent, err := scanGatewayIntent(row)
	if err != nil {
		return nil, convertErr(err, "creating gateway intent `%s`", args.GatewayOrderID)
	}
	return intent, nil
}

func (g *GatewayIntentRepository) FindByGatewayOrderID(
	ctx context.Context,
	gatewayOrderID string,
) (*domain.GatewayIntent, error) {
	row := g.db.QueryRow(ctx,
		`SELECT `+gatewayIntentColumns+` FROM gateway_intents WHERE gateway_order_id = $1`,
		gatewayOrderID)

	intent, err := scanGatewayIntent(row)
	if err != nil {
		return nil, convertErr(err, "finding gateway intent `%s`", gatewayOrderID)
	}
	return intent, nil
}

func (g *GatewayIntentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := g.db.Exec(ctx, `DELETE FROM gateway_intents WHERE id = $1`, id); err != nil {
		return convertErr(err, "deleting gateway intent %d", id)
	}
	return nil
}

func scanGatewayIntent(row pgx.Row) (*domain.GatewayIntent, error) {
	var intent domain.GatewayIntent
	err := row.Scan(
		&intent.ID,
		&intent.CreatedAt,
		&intent.GatewayOrderID,
		&intent.UserID,
		&intent.Address,
		&intent.CouponCode,
		&intent.WalletAmount,
		&intent.GatewayAmount,
	)
	if err != nil {
		return nil, err
	}
	return &intent, nil
}
