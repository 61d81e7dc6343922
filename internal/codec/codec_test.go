package codec

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		plaintext  string
		passphrase string
	}{
		{"short", "hello", "key"},
		{"empty plaintext", "", "bank-system-key-2024"},
		{"long key", "account snapshot line", "a-much-longer-passphrase-than-32-bytes-wide"},
		{"binary-ish", "line1|line2|===\n", "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext := Encrypt([]byte(tt.plaintext), tt.passphrase)
			got, err := Decrypt(ciphertext, tt.passphrase)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if string(got) != tt.plaintext {
				t.Errorf("round trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestDecryptEmptyCiphertext(t *testing.T) {
	got, err := Decrypt("", "any-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty plaintext, got %q", got)
	}
}

func TestDecryptInvalidBase64(t *testing.T) {
	_, err := Decrypt("not valid base64!!", "key")
	if err == nil {
		t.Error("expected error for invalid base64 input")
	}
}

func TestHashPasswordVerify(t *testing.T) {
	digest := HashPassword("superpass123")
	if !VerifyPassword("superpass123", digest) {
		t.Error("VerifyPassword should succeed for the password that produced the digest")
	}
	if VerifyPassword("wrongpass", digest) {
		t.Error("VerifyPassword should fail for a different password")
	}
}

func TestHashPasswordDeterministic(t *testing.T) {
	a := HashPassword("testpass")
	b := HashPassword("testpass")
	if a != b {
		t.Errorf("hash not deterministic: %q vs %q", a, b)
	}
}
