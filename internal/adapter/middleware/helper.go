package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mifi-backend/pkg/id"
)

const (
	headerRequestID = "Ax-Request-Id"
	headerRequestAt = "Ax-Request-At"
	headerReplay    = "Ax-Idempotent-Replay"
)

var (
	errRequestAtMissing = errors.New("missing Ax-Request-At")
	errRequestAtFormat  = errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
)

// deny writes the same {error, code} body the http package uses for domain errors.
func deny(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, map[string]string{"error": msg, "code": code})
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

var nowUTC = func() time.Time { return time.Now().UTC() }

// requestKey scopes a request id to one route and one acting user, so two
// users reusing an id never see each other's responses.
func requestKey(method, route string, actorID uint64, requestID string) string {
	return strings.Join([]string{
		"idemp:ledger",
		strings.ToLower(method),
		route,
		strconv.FormatUint(actorID, 10),
		requestID,
	}, ":")
}

// validRequestID accepts 32 lowercase hex chars or a lowercase RFC 4122 UUID.
func validRequestID(raw string) bool {
	if id.Valid(raw) {
		return true
	}
	if len(raw) != 36 || strings.ToLower(raw) != raw {
		return false
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return false
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}

// parseRequestAt reads epoch seconds, epoch millis or an RFC3339 timestamp
// that carries a zone. Values above 1e12 are taken as millis.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errRequestAtMissing
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errRequestAtFormat
	}
	return t.UTC(), nil
}

// withinSkew reports whether t is no further than skew from now.
func withinSkew(t, now time.Time, skew time.Duration) bool {
	d := t.Sub(now)
	return d >= -skew && d <= skew
}

// captureWriter tees the handler's response so it can be stored.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   []byte
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}
