package crypto

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestNewEncryptor(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		wantNil    bool
	}{
		{
			name:       "valid passphrase",
			passphrase: "strong-passphrase-123",
			wantNil:    false,
		},
		{
			name:       "empty passphrase returns nil",
			passphrase: "",
			wantNil:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncryptor(tt.passphrase)
			if tt.wantNil && enc != nil {
				t.Errorf("NewEncryptor() = %v, want nil", enc)
			}
			if !tt.wantNil && enc == nil {
				t.Error("NewEncryptor() = nil, want non-nil")
			}
		})
	}
}

func TestSealOpen(t *testing.T) {
	enc := NewEncryptor("test-passphrase")

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "auth token", plaintext: "eyJhbGciOiJSUzI1NiJ9.payload.signature"},
		{name: "empty string", plaintext: ""},
		{name: "special characters", plaintext: "!@#$%^&*()_+-=[]{}|;:',.<>?"},
		{name: "unicode", plaintext: "Señor Ohtani ⚾"},
		{name: "long token", plaintext: strings.Repeat("a", 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := enc.Seal(tt.plaintext)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if !IsSealed(sealed) {
				t.Fatalf("Seal() = %q, want %q prefix", sealed, Prefix)
			}
			if tt.plaintext != "" && strings.Contains(sealed, tt.plaintext) {
				t.Error("sealed value contains the plaintext")
			}

			opened, err := enc.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if opened != tt.plaintext {
				t.Errorf("Open() = %q, want %q", opened, tt.plaintext)
			}
		})
	}
}

func TestOpen_Plaintext(t *testing.T) {
	for _, enc := range []*Encryptor{nil, NewEncryptor("pass")} {
		got, err := enc.Open("plain-token")
		if err != nil || got != "plain-token" {
			t.Errorf("Open(plain) = %q, %v", got, err)
		}
	}
}

func TestNilEncryptor(t *testing.T) {
	var enc *Encryptor

	if _, err := enc.Seal("secret"); !errors.Is(err, ErrNoPassphrase) {
		t.Errorf("Seal() error = %v, want ErrNoPassphrase", err)
	}

	sealed, err := NewEncryptor("pass").Seal("secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Open(sealed); !errors.Is(err, ErrNoPassphrase) {
		t.Errorf("Open() error = %v, want ErrNoPassphrase", err)
	}
}

func TestOpen_WrongPassphrase(t *testing.T) {
	sealed, err := NewEncryptor("right").Seal("secret")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewEncryptor("wrong").Open(sealed); err == nil {
		t.Error("Open() with the wrong passphrase should fail")
	}
}

func TestOpen_Malformed(t *testing.T) {
	enc := NewEncryptor("pass")

	tests := []string{
		Prefix + "not base64!!",
		Prefix + base64.StdEncoding.EncodeToString([]byte("short")),
		Prefix + base64.StdEncoding.EncodeToString(make([]byte, saltSize+4)),
	}
	for _, value := range tests {
		if _, err := enc.Open(value); !errors.Is(err, ErrMalformed) {
			t.Errorf("Open(%q) error = %v, want ErrMalformed", value, err)
		}
	}
}

func TestSeal_NonDeterministic(t *testing.T) {
	enc := NewEncryptor("pass")

	first, err := enc.Seal("same")
	if err != nil {
		t.Fatal(err)
	}
	second, err := enc.Seal("same")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("sealing the same value twice should differ (random salt and nonce)")
	}
}
