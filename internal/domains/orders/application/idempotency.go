package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	CustomerID    string                 `json:"customerId"`
	CustomerName  string                 `json:"customerName"`
	Lines         []ordertypes.LineInput `json:"lines"`
	ExpectedTotal string                 `json:"expectedTotal,omitempty"`
}

// FingerprintPlaceOrder builds a deterministic hash of the checkout payload,
// excluding the idempotency key itself.
func FingerprintPlaceOrder(input ordertypes.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		CustomerID:   input.CustomerID,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Lines:        input.Lines,
	}
	if input.ExpectedTotal != nil {
		normalized.ExpectedTotal = input.ExpectedTotal.String()
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
