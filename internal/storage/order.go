package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder сохраняет заказ вместе со снимком позиций.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrdersByUserID возвращает заказы пользователя, новые первыми.
	GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	// ListOrders возвращает все заказы, новые первыми, с данными владельца.
	ListOrders(ctx context.Context) ([]*models.Order, error)
	// UpdateOrderStatus меняет только статус и возвращает заказ с данными владельца.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, updatedAt time.Time) (*models.Order, error)
}

// orderRepository - конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) *orderRepository {
	return &orderRepository{db: db}
}

const orderColumns = "o.id, o.user_id, o.items, o.total, o.customer_name, o.address, o.city, o.state, o.zip, o.status, o.created_at, o.updated_at"

// CreateOrder вставляет новый заказ в таблицу orders, позиции хранятся в jsonb.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = NewID()
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	query := `INSERT INTO orders (id, user_id, items, total, customer_name, address, city, state, zip, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.UserID, string(items), order.Total,
		order.CustomerName, order.Address, order.City, order.State, order.Zip,
		string(order.Status), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// GetOrdersByUserID возвращает список заказов для пользователя
func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders возвращает все заказы с JOIN, чтобы получить имя и email владельца.
func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `, u.name, u.email
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrderWithOwner(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, updatedAt time.Time) (*models.Order, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3", string(status), updatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}

	query := `
		SELECT ` + orderColumns + `, u.name, u.email
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`
	order, err := scanOrderWithOwner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func orderDest(order *models.Order, items *[]byte, status *string) []any {
	return []any{
		&order.ID, &order.UserID, items, &order.Total,
		&order.CustomerName, &order.Address, &order.City, &order.State, &order.Zip,
		status, &order.CreatedAt, &order.UpdatedAt,
	}
}

func decodeOrder(order *models.Order, items []byte, status string) (*models.Order, error) {
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	order.Status = models.OrderStatus(status)
	return order, nil
}

func scanOrder(row scanner) (*models.Order, error) {
	var (
		order  models.Order
		items  []byte
		status string
	)
	if err := row.Scan(orderDest(&order, &items, &status)...); err != nil {
		return nil, err
	}
	return decodeOrder(&order, items, status)
}

func scanOrderWithOwner(row scanner) (*models.Order, error) {
	var (
		order       models.Order
		items       []byte
		status      string
		name, email sql.NullString
	)
	dest := append(orderDest(&order, &items, &status), &name, &email)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	// владелец мог исчезнуть, тогда аннотации нет
	if name.Valid {
		order.User = &models.OrderOwner{ID: order.UserID, Name: name.String, Email: email.String}
	}
	return decodeOrder(&order, items, status)
}
