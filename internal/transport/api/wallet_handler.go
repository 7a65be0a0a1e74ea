package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvs WalletServicer
}

func NewWalletHandler(walletSvs WalletServicer) *WalletHandler {
	return &WalletHandler{
		walletSvs: walletSvs,
	}
}

type WalletTransactionResponse struct {
	CreatedAt time.Time `json:"createdAt"`
	OrderCode string    `json:"orderCode"`
	Direction string    `json:"direction"`
	Amount    float64   `json:"amount"`
}

type WalletResponse struct {
	Balance      float64                     `json:"balance"`
	Transactions []WalletTransactionResponse `json:"transactions"`
}

// Show GET RouteGroup + WalletRoute.
func (w *WalletHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	wallet, err := w.walletSvs.GetWallet(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := WalletResponse{
		Balance:      wallet.Balance.InexactFloat64(),
		Transactions: make([]WalletTransactionResponse, 0, len(wallet.Transactions)),
	}
	for _, tr := range wallet.Transactions {
		response.Transactions = append(response.Transactions, WalletTransactionResponse{
			CreatedAt: tr.CreatedAt,
			OrderCode: tr.OrderCode,
			Direction: string(tr.Direction),
			Amount:    tr.Amount.InexactFloat64(),
		})
	}

	c.JSON(http.StatusOK, response)
}
