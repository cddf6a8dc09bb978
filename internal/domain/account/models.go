package account

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrMissingID   = errors.New("account id is required")
	ErrMissingName = errors.New("account name is required")
)

// Account is a bank account linked through the aggregation provider.
type Account struct {
	ID              string          `json:"account_id"`
	Name            string          `json:"account_name"`
	InstitutionName string          `json:"institution_name"`
	Type            string          `json:"type"`
	Balance         decimal.Decimal `json:"balance"`
	LinkedAt        time.Time       `json:"linked_at"`
}

// Validate checks the fields every stored account must carry.
func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrMissingName
	}
	return nil
}
