package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an opaque record of a gateway charge. Gateway integration itself
// lives outside this service; only the outcome is stored.
type Payment struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Currency      string          `gorm:"column:currency;type:char(3);not null"`
	PaymentMethod string          `gorm:"column:payment_method;not null"`
	PaymentSource string          `gorm:"column:payment_source;not null"`
	ProductID     *string         `gorm:"column:product_id"`
	RecipientInfo *string         `gorm:"column:recipient_info"`
	IsSuccessful  bool            `gorm:"column:is_successful;not null;default:false"`
	TransactionID *string         `gorm:"column:transaction_id"`
	PaymentDate   time.Time       `gorm:"column:payment_date;autoCreateTime"`
}
