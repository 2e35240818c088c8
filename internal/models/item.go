package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GSTRates is the fixed enumerated rate set items may carry (as fractions).
var GSTRates = []decimal.Decimal{
	decimal.RequireFromString("0.00"),
	decimal.RequireFromString("0.05"),
	decimal.RequireFromString("0.12"),
	decimal.RequireFromString("0.18"),
	decimal.RequireFromString("0.28"),
	decimal.RequireFromString("0.40"),
}

// ValidGSTRate reports whether rate belongs to the enumerated rate set.
func ValidGSTRate(rate decimal.Decimal) bool {
	for _, r := range GSTRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

// Item is a sellable unit. Reference data: invoices snapshot its price and
// GST rate at line creation, so later edits here never rewrite history.
type Item struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	ArticleCode *string         `json:"article_code" db:"article_code"`
	HSNSAC      string          `json:"hsn_sac" db:"hsn_sac"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Unit        string          `json:"unit" db:"unit"`
	GSTRate     decimal.Decimal `json:"gst_rate" db:"gst_rate"`
	IsDeleted   bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
