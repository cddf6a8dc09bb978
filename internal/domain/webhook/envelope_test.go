package webhook

import (
	"errors"
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	body := []byte(`{
		"webhook_type": "ITEM",
		"webhook_code": "ERROR",
		"item_id": "it1",
		"error": {"error_code": "ITEM_LOGIN_REQUIRED", "error_message": "bad creds"},
		"environment": "sandbox"
	}`)

	env, err := ParseEnvelope(body)
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	if env.Type != TypeItem || env.Code != CodeError || env.ItemID != "it1" {
		t.Errorf("envelope = %+v", env)
	}
	if env.Error == nil || env.Error.Code != "ITEM_LOGIN_REQUIRED" || env.Error.Message != "bad creds" {
		t.Errorf("Error = %+v", env.Error)
	}
	if env.Payload["environment"] != "sandbox" {
		t.Errorf("Payload[environment] = %v, want sandbox", env.Payload["environment"])
	}
	if env.Name() != "ITEM/ERROR" {
		t.Errorf("Name() = %q", env.Name())
	}
}

func TestParseEnvelope_Invalid(t *testing.T) {
	for _, body := range []string{"", "{", "[1,2]", `"text"`, `{"new_transactions":"many"}`} {
		if _, err := ParseEnvelope([]byte(body)); !errors.Is(err, ErrInvalidEnvelope) {
			t.Errorf("ParseEnvelope(%q) error = %v, want ErrInvalidEnvelope", body, err)
		}
	}
}
