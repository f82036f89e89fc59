package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/metrics"
	"github.com/linemk/storefront/internal/payment"
	"github.com/linemk/storefront/internal/storage"
)

type PaymentService interface {
	// HandleWebhook проверяет событие и записывает оплату; повтор той же сессии не дублирует запись
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	List(ctx context.Context) ([]*models.Payment, error)
}

type paymentService struct {
	log         *slog.Logger
	verifier    payment.WebhookVerifier
	paymentRepo storage.PaymentStorage
	metrics     *metrics.Metrics
}

func NewPaymentService(log *slog.Logger, verifier payment.WebhookVerifier, paymentRepo storage.PaymentStorage, m *metrics.Metrics) PaymentService {
	return &paymentService{
		log:         log,
		verifier:    verifier,
		paymentRepo: paymentRepo,
		metrics:     m,
	}
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "payments.HandleWebhook"
	logger := s.log.With(slog.String("op", op))

	session, err := s.verifier.ParseCompletedSession(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			logger.Warn("webhook rejected", slog.Any("error", err))
			return newError(ErrValidation, MsgInvalidSignature)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if session == nil {
		logger.Debug("event ignored")
		return nil
	}

	created, err := s.paymentRepo.RecordPayment(ctx, &models.Payment{
		SessionID:       session.SessionID,
		PaymentIntentID: session.PaymentIntentID,
		AmountTotal:     session.AmountTotal,
		Currency:        session.Currency,
		PaymentStatus:   session.PaymentStatus,
		CustomerEmail:   session.CustomerEmail,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		logger.Error("failed to record payment", slog.String("session_id", session.SessionID), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		logger.Info("duplicate webhook delivery", slog.String("session_id", session.SessionID))
		return nil
	}

	s.metrics.PaymentRecorded()
	logger.Info("payment recorded", slog.String("session_id", session.SessionID), slog.Int64("amount_total", session.AmountTotal))
	return nil
}

func (s *paymentService) List(ctx context.Context) ([]*models.Payment, error) {
	const op = "payments.List"

	payments, err := s.paymentRepo.ListPayments(ctx)
	if err != nil {
		s.log.Error("failed to list payments", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
