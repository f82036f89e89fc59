package models

import "time"

// Payment - запись об оплаченной сессии hosted checkout, полученная через webhook.
// Связи с заказом нет: заказ создаёт клиент после возврата со страницы оплаты.
type Payment struct {
	SessionID       string    `json:"sessionId" bson:"_id"`
	PaymentIntentID string    `json:"paymentIntentId" bson:"payment_intent_id"`
	AmountTotal     int64     `json:"amountTotal" bson:"amount_total"` // в минимальных единицах валюты
	Currency        string    `json:"currency" bson:"currency"`
	PaymentStatus   string    `json:"paymentStatus" bson:"payment_status"`
	CustomerEmail   string    `json:"customerEmail" bson:"customer_email"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}
