package auth

import (
	"strings"
	"testing"

	"donatello/backend/internal/config"
)

func testHasher() *PasswordHasher {
	// Low-cost parameters keep the test fast
	return NewPasswordHasher(config.Argon2Config{
		Time:    1,
		Memory:  8 * 1024,
		Threads: 1,
		KeyLen:  32,
	})
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := testHasher()

	encoded, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("Expected encoded argon2id hash, got %s", encoded)
	}

	ok, err := hasher.Verify("s3cret-pass", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("Expected password to verify")
	}

	ok, err = hasher.Verify("wrong-pass", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("Expected different salts to produce different hashes")
	}
}

func TestPasswordHasher_VerifyRejectsMalformedHash(t *testing.T) {
	hasher := testHasher()

	if _, err := hasher.Verify("pass", "not-a-hash"); err == nil {
		t.Error("Expected error for malformed hash")
	}
	if _, err := hasher.Verify("pass", "$bcrypt$v=19$m=1,t=1,p=1$AAAA$BBBB"); err == nil {
		t.Error("Expected error for unsupported algorithm")
	}
}
