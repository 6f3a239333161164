package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"donatello/backend/internal/common"
)

type frozenClock struct {
	now time.Time
}

func (c *frozenClock) Now() time.Time { return c.now }

func (c *frozenClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTokenCodec_IssueAndDecode(t *testing.T) {
	clock := &frozenClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := NewTokenCodec(clock)

	signed, err := codec.Issue("user-1", "signing-key", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	payload, err := codec.Decode(signed, "signing-key")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if payload.UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", payload.UserID)
	}
	want := clock.now.Add(7 * 24 * time.Hour).Unix()
	if payload.ExpiresAt.Unix() != want {
		t.Errorf("Expected expiry %d, got %d", want, payload.ExpiresAt.Unix())
	}
}

func TestTokenCodec_DecodeWrongKey(t *testing.T) {
	clock := &frozenClock{now: time.Now().UTC()}
	codec := NewTokenCodec(clock)

	signed, err := codec.Issue("user-1", "right-key", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = codec.Decode(signed, "wrong-key")
	if common.KindOf(err) != common.ErrInvalidToken {
		t.Errorf("Expected invalid token kind, got %v (%v)", common.KindOf(err), err)
	}
}

func TestTokenCodec_DecodeExpired(t *testing.T) {
	clock := &frozenClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := NewTokenCodec(clock)

	signed, err := codec.Issue("user-1", "key", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	clock.Advance(2 * time.Hour)

	_, err = codec.Decode(signed, "key")
	if common.KindOf(err) != common.ErrTokenExpiredCrypto {
		t.Errorf("Expected expired kind, got %v (%v)", common.KindOf(err), err)
	}
}

// A token whose expiry was doctored has a broken signature, and the
// signature check runs first: the caller learns nothing about the expiry.
func TestTokenCodec_ForgedExpiryReadsAsInvalid(t *testing.T) {
	clock := &frozenClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := NewTokenCodec(clock)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"data": "user-1",
		"exp":  clock.now.Add(-time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("attacker-key"))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = codec.Decode(signed, "victim-key")
	if common.KindOf(err) != common.ErrInvalidToken {
		t.Errorf("Expected invalid token kind, got %v (%v)", common.KindOf(err), err)
	}
}

func TestTokenCodec_RejectsNonHMACAlg(t *testing.T) {
	clock := &frozenClock{now: time.Now().UTC()}
	codec := NewTokenCodec(clock)

	// alg=none style tokens must never verify
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"data": "user-1",
		"exp":  clock.now.Add(time.Hour).Unix(),
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = codec.Decode(signed, "key")
	if common.KindOf(err) != common.ErrInvalidToken {
		t.Errorf("Expected invalid token kind, got %v (%v)", common.KindOf(err), err)
	}
}
