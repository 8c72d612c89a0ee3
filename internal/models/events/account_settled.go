package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSettled is published once per client after a replay finishes.
type AccountSettled struct {
	RunID      string          `json:"run_id"`
	Client     uint16          `json:"client"`
	Available  decimal.Decimal `json:"available"`
	Held       decimal.Decimal `json:"held"`
	Total      decimal.Decimal `json:"total"`
	Locked     bool            `json:"locked"`
	OccurredAt time.Time       `json:"occurred_at"`
}
