package transaction

import "time"

type Transaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Merchant    string    `json:"merchant,omitempty"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
}
