// Package shortid генерирует короткие человекочитаемые идентификаторы заказов.
package shortid

import (
	"crypto/rand"
)

// Alphabet исключает визуально похожие символы (0/O, 1/I).
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length 6 символов при 32-символьном алфавите дает ~10^9 значений.
const Length = 6

// MaxAllocationAttempts лимит повторных генераций при коллизии уникального индекса.
// Исчерпание лимита означает аварийное прерывание размещения заказа целиком.
const MaxAllocationAttempts = 10

// New возвращает новый случайный идентификатор. Уникальность здесь не проверяется -
// ее обеспечивает уникальный индекс БД, а коллизия вставки служит триггером ретрая.
func New() string {
	buf := make([]byte, Length)
	_, _ = rand.Read(buf) // rand.Read по контракту не возвращает ошибку

	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf)
}
