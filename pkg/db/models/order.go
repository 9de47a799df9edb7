package models

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pokeshop-api/pkg/types"
)

// Order belongs to exactly one user through UserID.
type Order struct {
	ID     int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Price  decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Date   types.Date      `gorm:"column:date;type:date;not null"`
	UserID int64           `gorm:"column:user_id;not null"`
}

// OrderColumns is the select list matching Order.
const OrderColumns = "id, price, date, user_id"
