package orders

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pokeshop-api/pkg/db/models"
	"github.com/angelmondragon/pokeshop-api/pkg/types"
)

// OrderDTO is the transport shape of an order. Price serializes as a decimal string.
type OrderDTO struct {
	ID     int64           `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Date   types.Date      `json:"date"`
	UserID int64           `json:"user_id"`
}

// CreateOrderDTO holds the validated fields for a new order.
type CreateOrderDTO struct {
	Price  decimal.Decimal
	Date   types.Date
	UserID int64
}

// DeletedOrderDTO is returned by DELETE /orders/{id}.
type DeletedOrderDTO struct {
	Message string   `json:"message"`
	Order   OrderDTO `json:"order"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:     o.ID,
		Price:  o.Price,
		Date:   o.Date,
		UserID: o.UserID,
	}
}

func FromModels(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// CreateOrderDTOFromValues reads the coerced body produced by the create rule set.
func CreateOrderDTOFromValues(values map[string]any) CreateOrderDTO {
	dto := CreateOrderDTO{}
	dto.Price, _ = values["price"].(decimal.Decimal)
	dto.Date, _ = values["date"].(types.Date)
	dto.UserID, _ = values["user_id"].(int64)
	return dto
}
