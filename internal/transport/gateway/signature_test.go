package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	secret := []byte("gw-secret")

	signature := Sign(secret, "gw_123", "pay_1")
	require.NotEmpty(t, signature)

	assert.True(t, Verify(secret, "gw_123", "pay_1", signature))
	assert.False(t, Verify(secret, "gw_123", "pay_2", signature))
	assert.False(t, Verify(secret, "gw_124", "pay_1", signature))
	assert.False(t, Verify([]byte("other"), "gw_123", "pay_1", signature))
	assert.False(t, Verify(secret, "gw_123", "pay_1", ""))
}

// Подпись считается от конкатенации с разделителем: перестановка границы
// между полями меняет HMAC.
func TestSignFieldBoundary(t *testing.T) {
	secret := []byte("gw-secret")

	assert.NotEqual(t, Sign(secret, "ab", "c"), Sign(secret, "a", "bc"))
}
