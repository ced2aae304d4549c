package webhook

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/kotche/quicknotes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("test-signing-key"))

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)
	v.now = func() time.Time { return now }
	return v
}

func TestNewVerifier(t *testing.T) {
	t.Run("missing secret is a construction failure", func(t *testing.T) {
		_, err := NewVerifier("")
		require.Error(t, err)
	})

	t.Run("secret that is not base64", func(t *testing.T) {
		_, err := NewVerifier("whsec_!!!not-base64!!!")
		require.Error(t, err)
	})

	t.Run("prefix is optional", func(t *testing.T) {
		_, err := NewVerifier(base64.StdEncoding.EncodeToString([]byte("key")))
		require.NoError(t, err)
	})
}

func TestVerify_ValidSignature(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	msgID := "msg_1"
	timestamp := fmt.Sprintf("%d", now.Unix())
	signature := "v1," + v.sign(msgID, timestamp, body)

	assert.NoError(t, v.Verify(body, msgID, timestamp, signature))
}

func TestVerify_AcceptsAnyMatchingEntryInSignatureList(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	body := []byte(`{}`)
	timestamp := fmt.Sprintf("%d", now.Unix())
	good := "v1," + v.sign("msg_1", timestamp, body)
	signatures := "v1,Zm9yZWlnbi1rZXktc2ln " + good

	assert.NoError(t, v.Verify(body, "msg_1", timestamp, signatures))
}

func TestVerify_MissingHeaders(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	body := []byte(`{"type":"user.created"}`)
	timestamp := fmt.Sprintf("%d", now.Unix())
	signature := "v1," + v.sign("msg_1", timestamp, body)

	tests := []struct {
		name                        string
		msgID, timestamp, signature string
	}{
		{name: "no message id", msgID: "", timestamp: timestamp, signature: signature},
		{name: "no timestamp", msgID: "msg_1", timestamp: "", signature: signature},
		{name: "no signature", msgID: "msg_1", timestamp: timestamp, signature: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(body, tt.msgID, tt.timestamp, tt.signature)
			assert.ErrorIs(t, err, model.ErrBadSignature)
		})
	}
}

func TestVerify_RejectsTamperedBody(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	timestamp := fmt.Sprintf("%d", now.Unix())
	signature := "v1," + v.sign("msg_1", timestamp, []byte(`{"a":1}`))

	// Well-formed JSON, but not the bytes that were signed.
	err := v.Verify([]byte(`{"a":2}`), "msg_1", timestamp, signature)
	assert.ErrorIs(t, err, model.ErrBadSignature)
}

func TestVerify_RejectsWrongKey(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	other, err := NewVerifier("whsec_" + base64.StdEncoding.EncodeToString([]byte("other-key")))
	require.NoError(t, err)

	body := []byte(`{}`)
	timestamp := fmt.Sprintf("%d", now.Unix())
	signature := "v1," + other.sign("msg_1", timestamp, body)

	assert.ErrorIs(t, v.Verify(body, "msg_1", timestamp, signature), model.ErrBadSignature)
}

func TestVerify_TimestampWindow(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)
	body := []byte(`{}`)

	tests := []struct {
		name string
		ts   time.Time
		ok   bool
	}{
		{name: "fresh", ts: now, ok: true},
		{name: "just inside the window", ts: now.Add(-4 * time.Minute), ok: true},
		{name: "too old", ts: now.Add(-10 * time.Minute), ok: false},
		{name: "from the future", ts: now.Add(10 * time.Minute), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timestamp := fmt.Sprintf("%d", tt.ts.Unix())
			signature := "v1," + v.sign("msg_1", timestamp, body)

			err := v.Verify(body, "msg_1", timestamp, signature)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrBadSignature)
			}
		})
	}
}

func TestVerify_NonNumericTimestamp(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	body := []byte(`{}`)
	signature := "v1," + v.sign("msg_1", "yesterday", body)

	assert.ErrorIs(t, v.Verify(body, "msg_1", "yesterday", signature), model.ErrBadSignature)
}

func TestVerify_IgnoresUnknownSignatureVersions(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	body := []byte(`{}`)
	timestamp := fmt.Sprintf("%d", now.Unix())
	signature := "v2," + v.sign("msg_1", timestamp, body)

	assert.ErrorIs(t, v.Verify(body, "msg_1", timestamp, signature), model.ErrBadSignature)
}
