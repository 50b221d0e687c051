package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// SignatureHeader is the HTTP header carrying the provider's signature
const SignatureHeader = "X-Payment-Signature"

// DefaultTolerance is the maximum accepted signature timestamp skew
const DefaultTolerance = 5 * time.Minute

// Sign computes the hex HMAC-SHA256 of "<timestamp>.<body>"
func Sign(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildSignatureHeader renders the signature header value in the provider's
// "t=<unix>,v1=<hex>" scheme. Used by the validation harness to sign test
// events.
func BuildSignatureHeader(secret string, timestamp int64, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, Sign(secret, timestamp, body))
}

// VerifySignature verifies a signature header against the request body.
// This is a pure function that can be used independently for testing.
func VerifySignature(secret, header string, body []byte, now time.Time, tolerance time.Duration) error {
	if header == "" {
		return goerr.New("missing signature header")
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return goerr.New("malformed signature header", goerr.V("part", part))
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return goerr.Wrap(err, "invalid signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == 0 {
		return goerr.New("signature header missing timestamp")
	}
	if len(signatures) == 0 {
		return goerr.New("signature header missing v1 signature")
	}

	// Reject replays outside the tolerance window
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	age := now.Unix() - timestamp
	if age > int64(tolerance.Seconds()) || age < -int64(tolerance.Seconds()) {
		return goerr.New("signature timestamp outside tolerance",
			goerr.V("timestamp", timestamp), goerr.V("now", now.Unix()))
	}

	expected := Sign(secret, timestamp, body)
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return goerr.New("signature mismatch")
}
