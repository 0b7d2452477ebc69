// Package signature verifies the timestamped HMAC signatures the processor
// attaches to its callbacks.
package signature

import (
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

// DefaultTolerance is the widest accepted gap between the signed timestamp and now.
const DefaultTolerance = 300 * time.Second

var (
	ErrMissingSecret  = errors.New("signing secret is empty")
	ErrMalformed      = errors.New("malformed signature header")
	ErrStaleTimestamp = errors.New("timestamp outside tolerance")
	ErrMismatch       = errors.New("no matching signature")
)

type Verifier struct {
	Tolerance time.Duration
	Now       func() time.Time
}

func NewVerifier(tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{Tolerance: tolerance, Now: time.Now}
}

// Verify reports whether header carries a fresh, valid signature of payload.
func (v *Verifier) Verify(payload []byte, header string, secret []byte) bool {
	return v.Check(payload, header, secret) == nil
}

// Check is Verify with the rejection reason, for logging.
func (v *Verifier) Check(payload []byte, header string, secret []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	if len(secret) == 0 {
		return ErrMissingSecret
	}

	ts, sig, err := parseHeader(header)
	if err != nil {
		return err
	}

	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	tolerance := v.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	// Bounds are compared directly; subtracting an arbitrary ts can overflow.
	nowSec, tol := now().Unix(), int64(tolerance/time.Second)
	if ts < nowSec-tol || ts > nowSec+tol {
		return fmt.Errorf("%w: t=%d now=%d", ErrStaleTimestamp, ts, nowSec)
	}

	expected := webhook.ComputeSignature(time.Unix(ts, 0), payload, string(secret))
	if !hmac.Equal(expected, sig) {
		return ErrMismatch
	}
	return nil
}

// parseHeader reads "t=<unix>,v1=<hex>[,v1=<hex>...]". Only the first v1 counts.
func parseHeader(header string) (int64, []byte, error) {
	var (
		ts     int64
		haveTS bool
		sig    []byte
	)

	for _, field := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp %q", ErrMalformed, value)
			}
			ts, haveTS = n, true
		case "v1":
			if sig != nil {
				continue
			}
			decoded, err := hex.DecodeString(value)
			if err != nil || len(decoded) == 0 {
				return 0, nil, fmt.Errorf("%w: v1 is not hex", ErrMalformed)
			}
			sig = decoded
		}
	}

	if !haveTS {
		return 0, nil, fmt.Errorf("%w: no timestamp", ErrMalformed)
	}
	if sig == nil {
		return 0, nil, fmt.Errorf("%w: no v1 signature", ErrMalformed)
	}
	return ts, sig, nil
}

// Sign builds a header for payload signed at t.
func Sign(payload []byte, t time.Time, secret []byte) string {
	mac := webhook.ComputeSignature(t, payload, string(secret))
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(mac))
}
