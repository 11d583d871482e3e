package security

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	key := DeriveKey("senha-mestra", salt)

	plaintext := []byte("sk-very-secret-api-key")
	encrypted, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == string(plaintext) {
		t.Error("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: %q", decrypted)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey("senha", salt)
	other := DeriveKey("outra-senha", salt)

	encrypted, err := Encrypt([]byte("segredo"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(encrypted, other); err == nil {
		t.Error("decryption with wrong key must fail")
	}
}

func TestDecryptGarbage(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey("senha", salt)

	if _, err := Decrypt("not-base64!!", key); err == nil {
		t.Error("expected error on invalid base64")
	}
	if _, err := Decrypt("c2hvcnQ=", key); err == nil {
		t.Error("expected error on truncated ciphertext")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, _ := GenerateSalt()

	a := DeriveKey("senha", salt)
	b := DeriveKey("senha", salt)
	if !bytes.Equal(a, b) {
		t.Error("same password and salt must derive the same key")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}

	otherSalt, _ := GenerateSalt()
	if bytes.Equal(a, DeriveKey("senha", otherSalt)) {
		t.Error("different salts must derive different keys")
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"short", "****"},
		{"sk-abcdefghijklmnop", "sk-...mnop"},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.in); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
