package account

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{name: "valid", account: Account{ID: "acc-1", Name: "Everyday Checking"}},
		{name: "missing id", account: Account{Name: "Everyday Checking"}, wantErr: ErrMissingID},
		{name: "blank name", account: Account{ID: "acc-1", Name: "  "}, wantErr: ErrMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
