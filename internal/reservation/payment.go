package reservation

import (
	"encoding/json"
	"strings"

	"accommodation_portal/internal/apiclient"
)

// CardInput is the payment form. Card data is never stored, only the last
// four digits.
type CardInput struct {
	CardName   string `form:"cardName" validate:"required"`
	CardNumber string `form:"cardNumber" validate:"required,numeric,min=12,max=19"`
	Expiry     string `form:"expiry" validate:"required,card-expiry"`
	CVV        string `form:"cvv" validate:"required,numeric,min=3,max=4"`
}

// Normalize strips the grouping spaces from the card number.
func (c *CardInput) Normalize() {
	c.CardName = strings.TrimSpace(c.CardName)
	c.CardNumber = strings.Join(strings.Fields(c.CardNumber), "")
	c.Expiry = strings.TrimSpace(c.Expiry)
	c.CVV = strings.TrimSpace(c.CVV)
}

type PaymentMeta struct {
	Last4 string `json:"last4"`
	Total int    `json:"total"`
}

func SavePayment(storage apiclient.Storage, card CardInput, quote Quote) (PaymentMeta, error) {
	last4 := card.CardNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	meta := PaymentMeta{Last4: last4, Total: quote.Total}
	raw, err := json.Marshal(meta)
	if err != nil {
		return PaymentMeta{}, err
	}
	storage.SetItem(PaymentKey, string(raw))
	return meta, nil
}

func LoadPayment(storage apiclient.Storage) (PaymentMeta, bool) {
	raw, ok := storage.GetItem(PaymentKey)
	if !ok || raw == "" {
		return PaymentMeta{}, false
	}
	var meta PaymentMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return PaymentMeta{}, false
	}
	return meta, true
}
