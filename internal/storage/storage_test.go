package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "pass_hash", "is_admin", "created_at"}

func TestGetUserByID_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(userCols).
		AddRow("u1", "Ann", "ann@x.com", []byte("hashed-password"), true, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, pass_hash, is_admin, created_at FROM users WHERE id = $1")).
		WithArgs("u1").WillReturnRows(rows)

	user, err := repo.GetUserByID(context.Background(), "u1")
	assert.NoError(t, err, "Expected no error when user is found")
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, []byte("hashed-password"), user.PassHash)
	assert.True(t, user.IsAdmin)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	// Эмулируем ситуацию, когда запрос возвращает 0 строк.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("missing").WillReturnRows(sqlmock.NewRows(userCols))

	user, err := repo.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user, "User should be nil when not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("ann@x.com").WillReturnError(errors.New("db error"))

	user, err := repo.GetUserByEmail(context.Background(), "ann@x.com")
	assert.Error(t, err, "Expected error when query fails")
	assert.False(t, errors.Is(err, storage.ErrUserNotFound))
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	now := time.Now()

	query := regexp.QuoteMeta("INSERT INTO users (id, name, email, pass_hash, is_admin, created_at) VALUES ($1, $2, $3, $4, $5, $6)")
	mock.ExpectExec(query).
		WithArgs(sqlmock.AnyArg(), "Ann", "ann@x.com", []byte("hashed"), false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{Name: "Ann", Email: "ann@x.com", PassHash: []byte("hashed"), CreatedAt: now}
	created, err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID, "ID should be generated")
	assert.Equal(t, "ann@x.com", created.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err = repo.CreateUser(context.Background(), &models.User{Name: "Ann", Email: "ann@x.com"})
	assert.ErrorIs(t, err, storage.ErrUserExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdmin_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_admin = $1 WHERE email = $2")).
		WithArgs(true, "nobody@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetAdmin(context.Background(), "nobody@x.com", true)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

var productCols = []string{"id", "name", "description", "price", "image_url", "created_at", "updated_at"}

func TestListProducts_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(productCols).
		AddRow("p1", "Shoe", "Running shoe", 10.5, "http://img/shoe.png", now, now).
		AddRow("p2", "Hat", "", 5.0, "", now.Add(time.Minute), now.Add(time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY created_at ASC").WillReturnRows(rows)

	products, err := repo.ListProducts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Shoe", products[0].Name)
	assert.Equal(t, 10.5, products[0].Price)
	assert.Equal(t, "p2", products[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs("missing").WillReturnRows(sqlmock.NewRows(productCols))

	product, err := repo.GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	assert.Nil(t, product)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	now := time.Now()

	mock.ExpectExec("UPDATE products SET name = \\$1").
		WithArgs("Shoe", "", 12.0, "", now, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.UpdateProduct(context.Background(), &models.Product{ID: "missing", Name: "Shoe", Price: 12, UpdatedAt: now})
	assert.ErrorIs(t, err, storage.ErrProductNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteProduct(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

var orderCols = []string{"id", "user_id", "items", "total", "customer_name", "address", "city", "state", "zip", "status", "created_at", "updated_at"}

func TestCreateOrder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()
	productID := "p1"

	order := &models.Order{
		UserID:          "u1",
		Items:           []models.OrderItem{{ProductID: &productID, Name: "Shoe", Price: 10, Quantity: 2}},
		Total:           20,
		ShippingAddress: models.ShippingAddress{CustomerName: "Ann", Address: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"},
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), "u1", `[{"productId":"p1","name":"Shoe","price":10,"quantity":2}]`, 20.0,
			"Ann", "1 Main St", "Springfield", "IL", "62701", "pending", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateOrder(context.Background(), order)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByUserID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(orderCols).
		AddRow("o2", "u1", []byte(`[{"productId":null,"name":"Hat","price":5,"quantity":1}]`), 5.0, "Ann", "", "", "", "", "shipped", now, now).
		AddRow("o1", "u1", []byte(`[{"productId":"p1","name":"Shoe","price":10,"quantity":2}]`), 20.0, "Ann", "", "", "", "", "pending", now.Add(-time.Hour), now)
	mock.ExpectQuery("SELECT (.+) FROM orders o WHERE o\\.user_id = \\$1 ORDER BY o\\.created_at DESC").
		WithArgs("u1").WillReturnRows(rows)

	orders, err := repo.GetOrdersByUserID(context.Background(), "u1")
	assert.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Nil(t, orders[0].Items[0].ProductID)
	assert.Equal(t, models.OrderStatusShipped, orders[0].Status)
	assert.Equal(t, "p1", *orders[1].Items[0].ProductID)
	assert.Equal(t, 2, orders[1].Items[0].Quantity)
	assert.Nil(t, orders[1].User, "my orders are not annotated")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByUserID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM orders o").WithArgs("u1").WillReturnError(errors.New("query error"))

	orders, err := repo.GetOrdersByUserID(context.Background(), "u1")
	assert.Error(t, err)
	assert.Nil(t, orders)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrders_WithOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(append(orderCols, "name", "email")).
		AddRow("o1", "u1", []byte(`[]`), 0.0, "", "", "", "", "", "pending", now, now, "Ann", "ann@x.com").
		AddRow("o2", "gone", []byte(`[]`), 0.0, "", "", "", "", "", "pending", now, now, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM orders o LEFT JOIN users u ON u\\.id = o\\.user_id ORDER BY o\\.created_at DESC").
		WillReturnRows(rows)

	orders, err := repo.ListOrders(context.Background())
	assert.NoError(t, err)
	require.Len(t, orders, 2)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, "Ann", orders[0].User.Name)
	assert.Equal(t, "ann@x.com", orders[0].User.Email)
	assert.Nil(t, orders[1].User, "deleted owner leaves no annotation")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("shipped", now, "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows(append(orderCols, "name", "email")).
		AddRow("o1", "u1", []byte(`[]`), 20.0, "", "", "", "", "", "shipped", now, now, "Ann", "ann@x.com")
	mock.ExpectQuery("SELECT (.+) WHERE o\\.id = \\$1").WithArgs("o1").WillReturnRows(rows)

	order, err := repo.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusShipped, now)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	require.NotNil(t, order.User)
	assert.Equal(t, "Ann", order.User.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("shipped", now, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	order, err := repo.UpdateOrderStatus(context.Background(), "missing", models.OrderStatusShipped, now)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
	assert.Nil(t, order)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment_Replay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewPaymentRepository(db)
	payment := &models.Payment{SessionID: "cs_1", AmountTotal: 2000, Currency: "usd", PaymentStatus: "paid", CreatedAt: time.Now()}

	mock.ExpectExec("INSERT INTO payments (.+) ON CONFLICT \\(session_id\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payments (.+) ON CONFLICT \\(session_id\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.RecordPayment(context.Background(), payment)
	assert.NoError(t, err)
	assert.True(t, created)

	created, err = repo.RecordPayment(context.Background(), payment)
	assert.NoError(t, err)
	assert.False(t, created, "replayed session must not create a second row")

	assert.NoError(t, mock.ExpectationsWereMet())
}
