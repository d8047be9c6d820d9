// Package submit holds the wizard.Submitter implementations used by the CLI.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/httpapi/wire"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/wizard"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

var _ wizard.Submitter = (*HTTPSubmitter)(nil)

// HTTPSubmitter posts the finished profile to the families API. All attempts
// of one Submit share an Idempotency-Key, so a retry after a lost response
// cannot create the family twice.
type HTTPSubmitter struct {
	baseURL  string
	client   *http.Client
	attempts int
	backoff  time.Duration
	newKey   func() string

	lastFamilyID string
}

type HTTPOption func(*HTTPSubmitter)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSubmitter) {
		if c != nil {
			s.client = c
		}
	}
}

// WithRetries sets how many attempts are made on transport errors and 5xx.
func WithRetries(attempts int, backoff time.Duration) HTTPOption {
	return func(s *HTTPSubmitter) {
		if attempts > 0 {
			s.attempts = attempts
		}
		s.backoff = backoff
	}
}

func NewHTTPSubmitter(baseURL string, opts ...HTTPOption) *HTTPSubmitter {
	s := &HTTPSubmitter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		attempts: 3,
		backoff:  500 * time.Millisecond,
		newKey:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LastFamilyID is the id of the family created by the last successful Submit.
func (s *HTTPSubmitter) LastFamilyID() string { return s.lastFamilyID }

// Submit returns an *apperr.Error carrying the server's field errors when the
// profile is rejected with 422.
func (s *HTTPSubmitter) Submit(ctx context.Context, profile domain.FamilyProfile) error {
	body, err := json.Marshal(wire.ProfileFromDomain(profile))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	key := s.newKey()

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 && s.backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
		}
		retry, err := s.post(ctx, key, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (s *HTTPSubmitter) post(ctx context.Context, key string, body []byte) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/families", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := s.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("post family: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusCreated {
		var fr wire.FamilyResponse
		if err := json.Unmarshal(raw, &fr); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
		s.lastFamilyID = fr.Family.FamilyId.String()
		return false, nil
	}
	return resp.StatusCode >= 500, decodeError(resp.StatusCode, raw)
}

func decodeError(status int, raw []byte) error {
	var er wire.ErrorResponse
	if err := json.Unmarshal(raw, &er); err != nil || er.Error.Code == "" {
		return fmt.Errorf("post family: unexpected status %d", status)
	}
	if er.Error.Code == apperr.CodeValidation {
		fields := map[string]string{}
		if details, err := er.Error.Details.Get(); err == nil {
			for k, v := range details {
				fields[k] = fmt.Sprint(v)
			}
		}
		return apperr.Validation(er.Error.Message, fields)
	}
	return &apperr.Error{Status: status, Code: er.Error.Code, Message: er.Error.Message}
}

// IsRejected reports whether err is the server refusing the profile, as
// opposed to a transport failure.
func IsRejected(err error) bool {
	var ae *apperr.Error
	return errors.As(err, &ae)
}
