package models

import "time"

// OrderStatus - статус заказа, меняется только администратором
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses - допустимые значения статуса
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid сообщает, входит ли статус в допустимый список
func (s OrderStatus) Valid() bool {
	for _, allowed := range OrderStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// OrderItem - снимок товара на момент оформления заказа.
// Последующие изменения каталога на него не влияют.
type OrderItem struct {
	ProductID *string `json:"productId" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// ShippingAddress - адрес доставки, свободный текст без валидации
type ShippingAddress struct {
	CustomerName string `json:"customerName" bson:"customer_name"`
	Address      string `json:"address" bson:"address"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	Zip          string `json:"zip" bson:"zip"`
}

// OrderOwner - данные владельца для админских выборок
type OrderOwner struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order представляет заказ покупателя
type Order struct {
	ID              string      `json:"_id" bson:"_id"`
	UserID          string      `json:"userId" bson:"user_id"`
	User            *OrderOwner `json:"user,omitempty" bson:"-"` // заполняется только в админских ответах
	Items           []OrderItem `json:"items" bson:"items"`
	Total           float64     `json:"total" bson:"total"`
	ShippingAddress `bson:",inline"`
	Status          OrderStatus `json:"status" bson:"status"`
	CreatedAt       time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updated_at"`
}
