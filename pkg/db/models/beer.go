package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewery-backend/pkg/enums"
)

// Beer is the persisted catalog record.
type Beer struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BeerName         string          `gorm:"column:beer_name;not null"`
	BeerStyle        enums.BeerStyle `gorm:"column:beer_style;not null"`
	UPC              string          `gorm:"column:upc;not null;index"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	QuantityOnHand   int             `gorm:"column:quantity_on_hand;not null;default:0"`
	CreatedDate      time.Time       `gorm:"column:created_date;autoCreateTime"`
	LastModifiedDate time.Time       `gorm:"column:last_modified_date;autoUpdateTime"`
}

// TableName pins the table used by the migrations.
func (Beer) TableName() string {
	return "beers"
}
