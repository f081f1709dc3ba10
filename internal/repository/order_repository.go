package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleancart/internal/domain"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// CreateWithItems persists an order, its items, and the cart clearing
	// for the owning user as a single transaction. Either everything is
	// applied or nothing is.
	CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error)
	List(ctx context.Context) ([]*domain.OrderDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (
			id, user_id, first_name, last_name, email, phone, address, apt,
			city, state, postal_code, payment_method, shipping_charge, tax,
			total_price, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID, order.UserID, order.FirstName, order.LastName, order.Email,
		order.Phone, order.Address, order.Apt, order.City, order.State,
		order.PostalCode, order.PaymentMethod, order.ShippingCharge,
		order.Tax, order.TotalPrice, order.Status, order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, price, quantity, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, item := range items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			item.ID, item.OrderID, item.ProductID, item.Price, item.Quantity,
			item.TotalAmount, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	// Checkout empties the entire cart, not just the ordered lines.
	if order.UserID != nil {
		_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, *order.UserID)
		if err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return nil
}

const orderColumns = `
	id, user_id, first_name, last_name, email, phone, address, apt, city,
	state, postal_code, payment_method, shipping_charge, tax, total_price,
	status, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	err := scanner.Scan(
		&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.Email, &o.Phone,
		&o.Address, &o.Apt, &o.City, &o.State, &o.PostalCode,
		&o.PaymentMethod, &o.ShippingCharge, &o.Tax, &o.TotalPrice,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// loadItems fetches the items (with product projections) for a set of
// orders and returns them grouped by order ID.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItemDetail, error) {
	grouped := make(map[uuid.UUID][]domain.OrderItemDetail)
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	idStrings := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		idStrings[i] = id.String()
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.price, oi.quantity,
		       oi.total_amount, oi.created_at,
		       p.id, p.name, p.price, p.images
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, idStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := domain.OrderItemDetail{}
		var images []byte

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Price,
			&item.Quantity, &item.TotalAmount, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Price, &images,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		if err := decodeStrings(images, &item.Product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}

		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return grouped, nil
}

// FindByID retrieves one order with its items and product projections.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}

	detail := &domain.OrderDetail{Order: *order, Items: items[order.ID]}
	if detail.Items == nil {
		detail.Items = []domain.OrderItemDetail{}
	}

	return detail, nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.OrderDetail{}
	ids := []uuid.UUID{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &domain.OrderDetail{Order: *order})
		ids = append(ids, order.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		order.Items = items[order.ID]
		if order.Items == nil {
			order.Items = []domain.OrderItemDetail{}
		}
	}

	return orders, nil
}

// List retrieves all orders with items, most recent first.
func (r *orderRepository) List(ctx context.Context) ([]*domain.OrderDetail, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// ListByUser retrieves one user's orders with items, most recent first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderDetail, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

// UpdateStatus sets an order's status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, int(status))
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete hard-deletes an order; its items cascade at the schema level.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
