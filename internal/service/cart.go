package service

import (
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/shopspring/decimal"
)

// CartItem - позиция корзины в том виде, в каком её присылает клиент
type CartItem struct {
	ID       string   `json:"_id,omitempty"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

// snapshot применяет значения по умолчанию: цена 0, количество 1 (0 считается отсутствующим)
func snapshot(item CartItem) (models.OrderItem, error) {
	line := models.OrderItem{Name: item.Name, Quantity: 1}
	if item.ID != "" {
		id := item.ID
		line.ProductID = &id
	}
	if item.Price != nil {
		if *item.Price < 0 {
			return models.OrderItem{}, newError(ErrValidation, MsgInvalidPrice)
		}
		line.Price = *item.Price
	}
	if item.Quantity != nil {
		switch q := *item.Quantity; {
		case q < 0:
			return models.OrderItem{}, newError(ErrValidation, MsgInvalidQuantity)
		case q > 0:
			line.Quantity = q
		}
	}
	return line, nil
}

func lineTotal(item models.OrderItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// minorUnits переводит цену в центы с округлением до целого
func minorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}
