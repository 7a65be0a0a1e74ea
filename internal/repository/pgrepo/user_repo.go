package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, created_at, updated_at, username, encrypted_password,
	wallet_balance, referred_by, referral_rewarded`

// CreateUser создает юзера. В случае конфликта юзернейма возвращает domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx,
		`INSERT INTO users (username, encrypted_password, referred_by)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		args.Username, args.Password, args.ReferredBy)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return user, nil
}

func (u *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return user, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// AdjustWallet изменяет баланс кошелька на delta (может быть отрицательной) и возвращает
// новый баланс. Списание больше текущего баланса не проходит условие WHERE и
// возвращает domain.ErrNotEnoughBalance - баланс никогда не наблюдается отрицательным.
func (u *UserRepository) AdjustWallet(
	ctx context.Context,
	userID int64,
	delta decimal.Decimal,
) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := u.db.QueryRow(ctx,
		`UPDATE users
		SET wallet_balance = wallet_balance + $2, updated_at = now()
		WHERE id = $1 AND wallet_balance + $2 >= 0
		RETURNING wallet_balance`,
		userID, delta).Scan(&balance)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо юзера нет, либо не хватает баланса. Различаем.
			var exists bool
			if existsErr := u.db.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); existsErr == nil && !exists {
				return decimal.Zero, convertErr(pgx.ErrNoRows, "adjusting wallet of user %d", userID)
			}
			return decimal.Zero, domain.ErrNotEnoughBalance
		}
		return decimal.Zero, convertErr(err, "adjusting wallet of user %d", userID)
	}
	return balance, nil
}

// ClaimReferralReward одноразово помечает реферальный бонус выданным и возвращает id
// пригласившего. Условный UPDATE гарантирует "только первый заказ": повторный вызов
// не находит строку и возвращает domain.ErrRecordNotFound.
func (u *UserRepository) ClaimReferralReward(ctx context.Context, userID int64) (int64, error) {
	var referrerID int64
	err := u.db.QueryRow(ctx,
		`UPDATE users
		SET referral_rewarded = TRUE, updated_at = now()
		WHERE id = $1 AND referred_by IS NOT NULL AND NOT referral_rewarded
		RETURNING referred_by`,
		userID).Scan(&referrerID)

	if err != nil {
		return 0, convertErr(err, "claiming referral reward for user %d", userID)
	}
	return referrerID, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.EncryptedPassword,
		&user.WalletBalance,
		&user.ReferredBy,
		&user.ReferralRewarded,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
