package pgrepo

import (
	"context"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type WalletTransactionRepository struct {
	db uow.DBTX
}

func NewWalletTransactionRepository(db uow.DBTX) *WalletTransactionRepository {
	return &WalletTransactionRepository{db: db}
}

func (w *WalletTransactionRepository) Create(
	ctx context.Context,
	args repoargs.WalletTransactionCreate,
) (*domain.WalletTransaction, error) {
	var t domain.WalletTransaction
	err := w.db.QueryRow(ctx,
		`INSERT INTO wallet_transactions (user_id, order_id, direction, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, user_id, order_id, direction, amount`,
		args.UserID, args.OrderID, args.Direction, args.Amount).
		Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.OrderID, &t.Direction, &t.Amount)

	if err != nil {
		return nil, convertErr(err, "creating wallet transaction for order %d", args.OrderID)
	}
	return &t, nil
}

// GetByUserID возвращает записи леджера юзера по убыванию даты. JOIN по заказу отсекает
// осиротевшие строки на чтении - сами строки никогда не удаляются.
func (w *WalletTransactionRepository) GetByUserID(
	ctx context.Context,
	userID int64,
) ([]domain.WalletTransaction, error) {
	rows, err := w.db.Query(ctx,
		`SELECT wt.id, wt.created_at, wt.user_id, wt.order_id, o.short_id, wt.direction, wt.amount
		FROM wallet_transactions wt
		JOIN orders o ON o.id = wt.order_id
		WHERE wt.user_id = $1
		ORDER BY wt.created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting wallet transactions of user %d", userID)
	}
	defer rows.Close()

	var transactions []domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		if scanErr := rows.Scan(
			&t.ID, &t.CreatedAt, &t.UserID, &t.OrderID, &t.OrderCode, &t.Direction, &t.Amount,
		); scanErr != nil {
			return nil, convertErr(scanErr, "getting wallet transactions of user %d", userID)
		}
		transactions = append(transactions, t)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting wallet transactions of user %d", userID)
	}
	return transactions, nil
}
