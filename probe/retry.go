package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RetryableError marks a transient failure, such as a network error or a 5xx
// response, that is worth another attempt. After, when set, is how long the
// server asked us to wait and replaces the backoff for that attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay after each failure. Only
// errors wrapped in RetryableError are retried.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		var retryable *RetryableError
		if !errors.As(err, &retryable) || i == attempts-1 {
			break
		}

		wait := delay
		if retryable.After > 0 {
			wait = retryable.After
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return err
}

// statusError classifies a response. Throttling and server errors are worth
// retrying; any other failure status is final.
func statusError(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{
			Err:   fmt.Errorf("status %s", resp.Status),
			After: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return fmt.Errorf("status %s", resp.Status)
}

// retryAfter reads a Retry-After header in either of its forms, seconds or an
// HTTP date. It is zero when absent or already past.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
