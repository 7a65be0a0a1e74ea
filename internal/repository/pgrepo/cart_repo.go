package pgrepo

import (
	"context"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type CartRepository struct {
	db uow.DBTX
}

func NewCartRepository(db uow.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// GetLines возвращает строки корзины вместе с актуальными данными товара.
// Строки с удаленными (soft-delete) товарами отбрасываются прямо в запросе.
func (c *CartRepository) GetLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := c.db.Query(ctx,
		`SELECT p.id, p.name, p.brand, p.category, p.main_image, ci.size, ci.quantity,
			p.price_after_discount, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id AND NOT p.is_deleted
		WHERE ci.user_id = $1
		ORDER BY ci.id`, userID)
	if err != nil {
		return nil, convertErr(err, "getting cart lines of user %d", userID)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if scanErr := rows.Scan(
			&line.ProductID, &line.Name, &line.Brand, &line.Category, &line.MainImage,
			&line.Size, &line.Quantity, &line.PriceAfterDiscount, &line.Stock,
		); scanErr != nil {
			return nil, convertErr(scanErr, "getting cart lines of user %d", userID)
		}
		lines = append(lines, line)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting cart lines of user %d", userID)
	}
	return lines, nil
}

func (c *CartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := c.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return convertErr(err, "clearing cart of user %d", userID)
	}
	return nil
}
