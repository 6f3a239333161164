package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
)

// Letter is one rendered outbound email.
type Letter struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers rendered letters. The production implementation posts to
// the external mailer service; tests substitute a func-backed fake.
type Mailer interface {
	Send(ctx context.Context, letter *Letter) error
}

// HTTPMailer posts letters to the mailer service as JSON.
type HTTPMailer struct {
	client  *http.Client
	baseURL string
}

var _ Mailer = (*HTTPMailer)(nil)

func NewHTTPMailer(baseURL string) *HTTPMailer {
	return &HTTPMailer{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

func (m *HTTPMailer) Send(ctx context.Context, letter *Letter) error {
	payload, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("marshal letter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mailer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post letter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mailer responded with status %d", resp.StatusCode)
	}
	return nil
}

// RenderLetter turns a queued job into the letter the user receives. The
// token travels as a query parameter on a front-end URL; the front end posts
// it back to the API.
func RenderLetter(job *common.LetterJob, frontURL string) (*Letter, error) {
	switch job.Kind {
	case constants.JobKindConfirmationLetter:
		link := frontURL + "/confirm-email?token=" + url.QueryEscape(job.Token)
		return &Letter{
			To:      job.Email,
			Subject: "Confirm your email",
			Body: fmt.Sprintf(
				"Hello %s!\n\nFollow the link to confirm your email:\n%s\n",
				job.Username, link),
		}, nil
	case constants.JobKindPasswordResetLetter:
		link := frontURL + "/change-password?token=" + url.QueryEscape(job.Token)
		return &Letter{
			To:      job.Email,
			Subject: "Change your password",
			Body: fmt.Sprintf(
				"Hello %s!\n\nFollow the link to change your password:\n%s\n",
				job.Username, link),
		}, nil
	default:
		return nil, fmt.Errorf("unknown letter kind: %s", job.Kind)
	}
}
