package providers

import (
	"strings"
	"testing"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
)

func TestRenderConfirmationLetter(t *testing.T) {
	letter, err := RenderLetter(&common.LetterJob{
		Kind:     constants.JobKindConfirmationLetter,
		Email:    "alice@example.com",
		Username: "alice",
		Token:    "abc+def",
	}, "http://front.local")
	if err != nil {
		t.Fatalf("RenderLetter failed: %v", err)
	}

	if letter.To != "alice@example.com" {
		t.Errorf("Expected recipient alice@example.com, got %s", letter.To)
	}
	if !strings.Contains(letter.Body, "http://front.local/confirm-email?token=abc%2Bdef") {
		t.Errorf("Confirmation link missing or unescaped: %q", letter.Body)
	}
}

func TestRenderPasswordResetLetter(t *testing.T) {
	letter, err := RenderLetter(&common.LetterJob{
		Kind:     constants.JobKindPasswordResetLetter,
		Email:    "bob@example.com",
		Username: "bob",
		Token:    "tok123",
	}, "http://front.local")
	if err != nil {
		t.Fatalf("RenderLetter failed: %v", err)
	}

	if !strings.Contains(letter.Body, "http://front.local/change-password?token=tok123") {
		t.Errorf("Reset link missing: %q", letter.Body)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, err := RenderLetter(&common.LetterJob{Kind: "carrier_pigeon"}, "http://front.local"); err == nil {
		t.Fatal("Expected an error for an unknown letter kind")
	}
}
