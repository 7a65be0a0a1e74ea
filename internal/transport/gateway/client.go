// Package gateway работает с внешним платежным шлюзом. Сам шлюз - черный ящик:
// мы создаем в нем платежный ордер и проверяем HMAC подпись его callback'а.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const routeCreateOrder = "/v1/orders"

// Config явная конфигурация вместо чтения секретов из окружения по месту использования.
type Config struct {
	BaseURL string
	KeyID   string
	Secret  []byte
}

// OrderHandle ссылка на платежный ордер шлюза, возвращается клиенту чекаута.
// Заказ в нашей БД на этом этапе еще не создан.
type OrderHandle struct {
	GatewayOrderID string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	KeyID          string          `json:"keyId"`
}

// HTTPClient реализация интерфейса Client поверх HTTP API шлюза.
type HTTPClient struct {
	conf       Config
	httpClient *http.Client
}

func New(conf Config) *HTTPClient {
	return &HTTPClient{
		conf:       conf,
		httpClient: http.DefaultClient,
	}
}

type createOrderRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type createOrderResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateOrder создает в шлюзе платежный ордер на сумму amount (первая фаза оплаты).
// При ответе со статусом отличным от 2xx возвращает *StatusCodeError.
//
//nolint:nonamedreturns
func (c *HTTPClient) CreateOrder(ctx context.Context, amount decimal.Decimal) (handle *OrderHandle, err error) {
	payload, marshalErr := json.Marshal(createOrderRequest{Amount: amount})
	if marshalErr != nil {
		return nil, errors.Wrap(marshalErr, "marshal create order request")
	}

	req, reqErr := http.NewRequestWithContext(
		ctx, http.MethodPost, c.conf.BaseURL+routeCreateOrder, bytes.NewReader(payload))
	if reqErr != nil {
		return nil, errors.Wrap(reqErr, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.conf.KeyID, string(c.conf.Secret))

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, errors.Wrap(doErr, "do request")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewStatusCodeError(resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, errors.Wrap(readErr, "read response")
	}

	var gwResp createOrderResponse
	if jsonErr := json.Unmarshal(body, &gwResp); jsonErr != nil {
		return nil, errors.Wrap(jsonErr, "parse response")
	}

	return &OrderHandle{
		GatewayOrderID: gwResp.ID,
		Amount:         gwResp.Amount,
		KeyID:          c.conf.KeyID,
	}, nil
}

// VerifySignature сверяет подпись callback'а с HMAC, вычисленным независимо
// от общего секрета.
func (c *HTTPClient) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return Verify(c.conf.Secret, gatewayOrderID, paymentID, signature)
}
