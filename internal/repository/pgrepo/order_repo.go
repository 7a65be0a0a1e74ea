package pgrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akarshgkumar/shoecart-sub000/internal/domain"
	"github.com/akarshgkumar/shoecart-sub000/internal/repository/repoargs"
	"github.com/akarshgkumar/shoecart-sub000/pkg/uow"
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, created_at, updated_at, short_id, user_id, status, payment_method,
	address, coupon_code, total_amount, total_after_discount, total_amount_paid,
	wallet_paid_amount, is_paid, shipped_at, delivered_at, cancelled_at, returned_at,
	return_reason, return_note`

// CreateOrder создает заказ в статусе Processing. Уникальность short_id обеспечивает
// индекс: коллизия возвращается как domain.ErrDuplicateKey и служит триггером повторной
// генерации для аллокатора.
func (o *OrderRepository) CreateOrder(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
	row := o.db.QueryRow(ctx,
		`INSERT INTO orders (short_id, user_id, status, payment_method, address, coupon_code,
			total_amount, total_after_discount, total_amount_paid, wallet_paid_amount, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+orderColumns,
		args.ShortID, args.UserID, domain.OrderStatusProcessing, args.PaymentMethod,
		args.Address, args.CouponCode, args.TotalAmount, args.TotalAfterDiscount,
		args.TotalAmountPaid, args.WalletPaidAmount, args.IsPaid)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order with short id `%s`", args.ShortID)
	}
	return order, nil
}

func (o *OrderRepository) CreateOrderItems(
	ctx context.Context,
	orderID int64,
	items []repoargs.OrderItemCreate,
) error {
	for _, item := range items {
		_, err := o.db.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, brand, category, main_image,
				size, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			orderID, item.ProductID, item.Name, item.Brand, item.Category, item.MainImage,
			item.Size, item.Quantity, item.Price)
		if err != nil {
			return convertErr(err, "creating order item for order %d", orderID)
		}
	}
	return nil
}

func (o *OrderRepository) FindByShortID(ctx context.Context, shortID string) (*domain.Order, error) {
	row := o.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE short_id = $1`, shortID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by short id `%s`", shortID)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера, отсортированные по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID `%d`", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "getting orders by userID `%d`", userID)
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting orders by userID `%d`", userID)
	}
	return orders, nil
}

func (o *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := o.db.Query(ctx,
		`SELECT id, order_id, product_id, name, brand, category, main_image, size, quantity, price
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, convertErr(err, "getting items of order %d", orderID)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if scanErr := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Brand,
			&item.Category, &item.MainImage, &item.Size, &item.Quantity, &item.Price,
		); scanErr != nil {
			return nil, convertErr(scanErr, "getting items of order %d", orderID)
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting items of order %d", orderID)
	}
	return items, nil
}

// UpdateStatus условный перевод статуса. Строка обновляется только если текущий статус
// входит в args.AllowedFrom, иначе возвращается domain.ErrRecordNotFound - вызывающая
// сторона сама решает, no-op это (повторная отмена) или нелегальный переход.
func (o *OrderRepository) UpdateStatus(
	ctx context.Context,
	args repoargs.OrderStatusUpdate,
) (*domain.Order, error) {
	dateColumn, ok := statusDateColumn(args.Status)
	if !ok {
		return nil, convertErr(
			fmt.Errorf("no date column for status %s", args.Status),
			"updating status of order %d", args.OrderID,
		)
	}

	query := `UPDATE orders
		SET status = $2, ` + dateColumn + ` = $3, return_reason = NULLIF($4, ''),
			return_note = $5, updated_at = now()
		WHERE id = $1 AND status = ANY($6)
		RETURNING ` + orderColumns

	allowed := make([]string, len(args.AllowedFrom))
	for i, s := range args.AllowedFrom {
		allowed[i] = string(s)
	}

	row := o.db.QueryRow(ctx, query,
		args.OrderID, args.Status, args.StatusDate, string(args.ReturnReason),
		args.ReturnNote, allowed)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating status of order %d", args.OrderID)
	}
	return order, nil
}

// SettleCODPayment фиксирует получение наложенного платежа при вручении: заказ
// становится полностью оплаченным на сумму итога.
func (o *OrderRepository) SettleCODPayment(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := o.db.QueryRow(ctx,
		`UPDATE orders
		SET is_paid = TRUE, total_amount_paid = total_after_discount, updated_at = now()
		WHERE id = $1 AND payment_method = 'cod'
		RETURNING `+orderColumns, orderID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "settling cod payment of order %d", orderID)
	}
	return order, nil
}

func statusDateColumn(status domain.OrderStatusType) (string, bool) {
	switch status {
	case domain.OrderStatusShipped:
		return "shipped_at", true
	case domain.OrderStatusDelivered:
		return "delivered_at", true
	case domain.OrderStatusCancelled:
		return "cancelled_at", true
	case domain.OrderStatusReturned:
		return "returned_at", true
	case domain.OrderStatusProcessing:
		return "", false
	}
	return "", false
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var returnReason *string
	var returnNote *string
	err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.ShortID,
		&order.UserID,
		&order.Status,
		&order.PaymentMethod,
		&order.Address,
		&order.CouponCode,
		&order.TotalAmount,
		&order.TotalAfterDiscount,
		&order.TotalAmountPaid,
		&order.WalletPaidAmount,
		&order.IsPaid,
		&order.ShippedAt,
		&order.DeliveredAt,
		&order.CancelledAt,
		&order.ReturnedAt,
		&returnReason,
		&returnNote,
	)
	if err != nil {
		return nil, err
	}
	if returnReason != nil {
		order.ReturnReason = domain.ReturnReasonType(*returnReason)
	}
	if returnNote != nil {
		order.ReturnNote = *returnNote
	}
	return &order, nil
}
