package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type ProductRepository struct {
	db uow.DBTX
}

func NewProductRepository(db uow.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, created_at, updated_at, name, brand, category, main_image,
	price, price_after_discount, stock, total_sold_items, is_deleted`

func (p *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND NOT is_deleted`, id)

	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "finding product by id %d", id)
	}
	return product, nil
}

// Reserve условно списывает сток и прибавляет счетчик проданного. UPDATE срабатывает
// только при stock >= qty, поэтому две конкурентные покупки не могут увести сток в минус.
// При неудаче возвращает *domain.InsufficientStockError с актуальным остатком.
func (p *ProductRepository) Reserve(ctx context.Context, productID int64, qty int32) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE products
		SET stock = stock - $2, total_sold_items = total_sold_items + $2, updated_at = now()
		WHERE id = $1 AND NOT is_deleted AND stock >= $2`,
		productID, qty)
	if err != nil {
		return convertErr(err, "reserving %d of product %d", qty, productID)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Выясняем что именно не так: товара нет (или удален) или не хватает стока.
	var name string
	var stock int32
	stateErr := p.db.QueryRow(ctx,
		`SELECT name, stock FROM products WHERE id = $1 AND NOT is_deleted`, productID).
		Scan(&name, &stock)
	if stateErr != nil {
		return convertErr(stateErr, "reserving %d of product %d", qty, productID)
	}
	return domain.NewInsufficientStockError(productID, name, stock)
}

// Release компенсация резерва при отмене/возврате. restoreStock=false откатывает
// только счетчик проданного (возврат по браку - товар больше не продается).
func (p *ProductRepository) Release(ctx context.Context, productID int64, qty int32, restoreStock bool) error {
	query := `UPDATE products
		SET stock = stock + $2, total_sold_items = total_sold_items - $2, updated_at = now()
		WHERE id = $1`
	if !restoreStock {
		query = `UPDATE products
		SET total_sold_items = total_sold_items - $2, updated_at = now()
		WHERE id = $1`
	}

	tag, err := p.db.Exec(ctx, query, productID, qty)
	if err != nil {
		return convertErr(err, "releasing %d of product %d", qty, productID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "releasing %d of product %d", qty, productID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Name,
		&product.Brand,
		&product.Category,
		&product.MainImage,
		&product.Price,
		&product.PriceAfterDiscount,
		&product.Stock,
		&product.TotalSoldItems,
		&product.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
