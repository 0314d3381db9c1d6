package security

import (
	"strings"
	"testing"

	"github.com/goliatone/go-datasource/core"
)

func TestAppKeyCipher_EncryptDecryptRoundTrip(t *testing.T) {
	appKey, err := NewAppKeyCipherFromString("super-secret-test-key", WithKeyID("datasource-v1"), WithVersion(3))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	encrypted, err := appKey.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if encrypted == "hunter2" {
		t.Fatalf("expected ciphertext to differ from plaintext")
	}
	if !strings.HasPrefix(encrypted, envelopePrefix) {
		t.Fatalf("expected envelope prefix")
	}

	decrypted, err := appKey.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decrypted != "hunter2" {
		t.Fatalf("expected roundtrip plaintext, got %q", decrypted)
	}
}

func TestAppKeyCipher_RejectsMetadataMismatch(t *testing.T) {
	issuer, err := NewAppKeyCipherFromString("super-secret-test-key", WithKeyID("datasource-v1"), WithVersion(1))
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	receiver, err := NewAppKeyCipherFromString("super-secret-test-key", WithKeyID("datasource-v2"), WithVersion(2))
	if err != nil {
		t.Fatalf("new receiver: %v", err)
	}

	encrypted, err := issuer.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := receiver.Decrypt(encrypted); err == nil {
		t.Fatalf("expected metadata mismatch error")
	}
}

func TestAppKeyCipher_RejectsTamperedEnvelope(t *testing.T) {
	appKey, err := NewAppKeyCipherFromString("super-secret-test-key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	encrypted, err := appKey.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	tampered := strings.Replace(encrypted, `"alg":"aes-256-gcm"`, `"alg":"aes-256-gcm","ver":9`, 1)
	if tampered == encrypted {
		tampered = encrypted[:len(encrypted)-2] + `x"`
	}
	if _, err := appKey.Decrypt(tampered); err == nil {
		t.Fatalf("expected tampered envelope to be rejected")
	}
}

func TestAppKeyCipher_FactoryDecryptsThroughRegistry(t *testing.T) {
	appKey, err := NewAppKeyCipherFromString("super-secret-test-key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	registry := core.NewMemoryCipherRegistry()
	if err := Register(registry, appKey); err != nil {
		t.Fatalf("register: %v", err)
	}

	encrypted, err := appKey.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	cipher, ok := registry.Get(AppKeyCipherName)
	if !ok {
		t.Fatalf("expected appkey strategy registered")
	}
	plaintext, err := cipher.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plaintext != "hunter2" {
		t.Fatalf("expected plaintext, got %q", plaintext)
	}
}
