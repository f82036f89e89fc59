package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
)

// PaymentStorage хранит журнал оплаченных checkout-сессий.
type PaymentStorage interface {
	// RecordPayment сохраняет запись; повтор той же сессии не создаёт дубль и возвращает created=false.
	RecordPayment(ctx context.Context, payment *models.Payment) (created bool, err error)
	ListPayments(ctx context.Context) ([]*models.Payment, error)
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) RecordPayment(ctx context.Context, payment *models.Payment) (bool, error) {
	query := `INSERT INTO payments (session_id, payment_intent_id, amount_total, currency, payment_status, customer_email, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (session_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		payment.SessionID, payment.PaymentIntentID, payment.AmountTotal, payment.Currency,
		payment.PaymentStatus, payment.CustomerEmail, payment.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to record payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *paymentRepository) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	query := `
		SELECT session_id, payment_intent_id, amount_total, currency, payment_status, customer_email, created_at
		FROM payments
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.SessionID, &p.PaymentIntentID, &p.AmountTotal, &p.Currency, &p.PaymentStatus, &p.CustomerEmail, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
