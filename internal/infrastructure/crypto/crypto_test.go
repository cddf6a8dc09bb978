package crypto

import (
	"encoding/base64"
	"errors"
	"testing"
)

const (
	sealKey      = "finpulse-token-sealing-key-32byt"
	sandboxToken = "access-sandbox-8ab976e6-64bc-4b38-98f7-731e7a349970"
)

func newTestEncryptor(t *testing.T) *Encryptor {
	t.Helper()
	enc, err := NewEncryptor(sealKey)
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}
	return enc
}

func TestNewEncryptor_KeyLength(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"32 bytes", sealKey, false},
		{"empty", "", true},
		{"short", "short-key", true},
		{"33 bytes", sealKey + "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncryptor(tt.key)
			if tt.wantErr && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("NewEncryptor() error = %v, want %v", err, ErrInvalidKey)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewEncryptor() unexpected error: %v", err)
			}
		})
	}
}

func TestSealOpen_AccessTokens(t *testing.T) {
	enc := newTestEncryptor(t)

	for _, token := range []string{
		sandboxToken,
		"access-production-0f3e2c1a-5b7d-4e9f-8a6c-2d4b1e0f9a7c",
	} {
		sealed, err := enc.Encrypt(token)
		if err != nil {
			t.Fatalf("Encrypt(%q) error = %v", token, err)
		}
		if sealed == token {
			t.Fatalf("Encrypt(%q) stored the token in the clear", token)
		}
		if _, err := base64.StdEncoding.DecodeString(sealed); err != nil {
			t.Errorf("sealed token is not standard base64: %v", err)
		}

		opened, err := enc.Decrypt(sealed)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if opened != token {
			t.Errorf("Decrypt() = %q, want %q", opened, token)
		}
	}
}

func TestEncrypt_FreshNoncePerItem(t *testing.T) {
	enc := newTestEncryptor(t)

	first, _ := enc.Encrypt(sandboxToken)
	relinked, _ := enc.Encrypt(sandboxToken)
	if first == relinked {
		t.Error("relinking the same token produced an identical ciphertext")
	}
}

func TestEmptyTokenPassesThrough(t *testing.T) {
	enc := newTestEncryptor(t)

	sealed, err := enc.Encrypt("")
	if err != nil || sealed != "" {
		t.Errorf("Encrypt(\"\") = %q, %v; want \"\", nil", sealed, err)
	}
	opened, err := enc.Decrypt("")
	if err != nil || opened != "" {
		t.Errorf("Decrypt(\"\") = %q, %v; want \"\", nil", opened, err)
	}
}

func TestDecrypt_FailuresAreNotSealed(t *testing.T) {
	enc := newTestEncryptor(t)
	sealed, err := enc.Encrypt(sandboxToken)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(sealed)

	flipped := append([]byte(nil), raw...)
	flipped[len(flipped)-1] ^= 0x01

	other, _ := NewEncryptor("another-token-sealing-key-32byte")
	foreign, _ := other.Encrypt(sandboxToken)

	tests := []struct {
		name  string
		input string
	}{
		{"legacy plaintext token", sandboxToken},
		{"tampered tag", base64.StdEncoding.EncodeToString(flipped)},
		{"truncated to nonce", base64.StdEncoding.EncodeToString(raw[:12])},
		{"shorter than nonce", base64.StdEncoding.EncodeToString(raw[:4])},
		{"sealed under another key", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, err := enc.Decrypt(tt.input)
			if !errors.Is(err, ErrNotSealed) {
				t.Errorf("Decrypt() error = %v, want %v", err, ErrNotSealed)
			}
			if opened != "" {
				t.Errorf("Decrypt() = %q, want no plaintext on failure", opened)
			}
		})
	}

	if _, err := enc.Decrypt(base64.StdEncoding.EncodeToString(raw[:4])); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("Decrypt() short input error = %v, want %v", err, ErrCiphertextTooShort)
	}
}

func TestSealed(t *testing.T) {
	enc := newTestEncryptor(t)
	sealed, _ := enc.Encrypt(sandboxToken)
	other, _ := NewEncryptor("another-token-sealing-key-32byte")
	foreign, _ := other.Encrypt(sandboxToken)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"sealed with this key", sealed, true},
		{"legacy plaintext", sandboxToken, false},
		{"empty", "", false},
		{"sealed under another key", foreign, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := enc.Sealed(tt.input); got != tt.want {
				t.Errorf("Sealed() = %v, want %v", got, tt.want)
			}
		})
	}
}
