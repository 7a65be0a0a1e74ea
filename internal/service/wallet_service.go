package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

// WalletService читающая сторона кошелька. Мутации баланса делает движок заказов
// внутри своих транзакций.
type WalletService struct {
	userRepo   UserRepository
	walletRepo WalletTransactionRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err
	}
	walletRepo, err := uow.GetRepositoryAs[WalletTransactionRepository](
		u, uow.RepositoryName(repoargs.WalletTransactionRepoName))
	if err != nil {
		return nil, err
	}
	return &WalletService{
		userRepo:   userRepo,
		walletRepo: walletRepo,
	}, nil
}

type Wallet struct {
	Balance      decimal.Decimal
	Transactions []domain.WalletTransaction
}

// GetWallet возвращает баланс и историю леджера. Осиротевшие строки (заказ не найден)
// отфильтрованы на чтении в репозитории.
func (w *WalletService) GetWallet(ctx context.Context, userID int64) (*Wallet, error) {
	user, userErr := w.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("getting wallet: %w", userErr)
	}
	transactions, transErr := w.walletRepo.GetByUserID(ctx, userID)
	if transErr != nil {
		return nil, fmt.Errorf("getting wallet: %w", transErr)
	}
	return &Wallet{
		Balance:      user.WalletBalance,
		Transactions: transactions,
	}, nil
}
