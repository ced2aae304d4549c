package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kotche/quicknotes/internal/model"
)

// Svix-style header names used by the identity provider for webhook delivery.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

const (
	secretPrefix = "whsec_"

	// timestampTolerance bounds the accepted clock skew between the
	// provider and this service.
	timestampTolerance = 5 * time.Minute
)

// Verifier recomputes the keyed digest over (message id, timestamp, raw body)
// and compares it against the signatures the provider sent. Nothing in the
// body may be trusted before Verify succeeds.
type Verifier struct {
	key []byte
	now func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is not configured")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
	}

	return &Verifier{key: key, now: time.Now}, nil
}

// Verify checks the three required headers against the exact raw body bytes.
// Any missing header, stale timestamp, or digest mismatch yields
// model.ErrBadSignature; callers must not parse the body in that case.
func (v *Verifier) Verify(body []byte, msgID, timestamp, signatures string) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return model.ErrBadSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return model.ErrBadSignature
	}

	sent := time.Unix(ts, 0)
	now := v.now()
	if sent.Before(now.Add(-timestampTolerance)) || sent.After(now.Add(timestampTolerance)) {
		return model.ErrBadSignature
	}

	expected := v.sign(msgID, timestamp, body)

	// The signature header may carry several space-separated versioned
	// entries ("v1,<base64> v1,<base64>"); any matching v1 entry passes.
	for _, entry := range strings.Split(signatures, " ") {
		version, value, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(value), []byte(expected)) {
			return nil
		}
	}

	return model.ErrBadSignature
}

func (v *Verifier) sign(msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
