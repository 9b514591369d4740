package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	pendingTTL   = 60 * time.Second
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// IdempotencyMiddleware dedupes mutating requests by method, route, acting
// user and Ax-Request-Id. It must run after JWTAuth. A retry with the same id
// and body replays the stored response; the same id with another body is a
// conflict. 5xx responses are not stored so the client may retry them.
// Ax-Request-At is optional; when sent it must be within maxClockSkew.
func IdempotencyMiddleware(rdb redis.Cmdable, ttl time.Duration, log *logrus.Logger) echo.MiddlewareFunc {
	store := responseStore{rdb: rdb, pendingTTL: pendingTTL, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.ToLower(strings.TrimSpace(req.Header.Get(headerRequestID)))
			if reqID == "" {
				return deny(c, http.StatusBadRequest, "invalid_request", "missing "+headerRequestID)
			}
			if !validRequestID(reqID) {
				return deny(c, http.StatusBadRequest, "invalid_request", "invalid "+headerRequestID+" format")
			}

			var reqAtMS int64
			if raw := req.Header.Get(headerRequestAt); raw != "" {
				at, err := parseRequestAt(raw)
				if err != nil {
					return deny(c, http.StatusBadRequest, "invalid_request", err.Error())
				}
				if !withinSkew(at, nowUTC(), maxClockSkew) {
					return deny(c, http.StatusBadRequest, "invalid_request", headerRequestAt+" too skewed")
				}
				reqAtMS = at.UnixMilli()
			}

			actor, ok := ActorFrom(c)
			if !ok {
				return deny(c, http.StatusUnauthorized, "unauthorized", "missing acting user")
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := requestKey(req.Method, c.Path(), actor.UserID, reqID)
			entry := storedResponse{
				Fingerprint: fingerprint(body),
				RequestID:   reqID,
				RequestAtMS: reqAtMS,
				StoredAt:    nowUTC(),
			}
			l := log.WithField("key", key)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.reserve(ctx, key, entry)
			if err != nil {
				l.WithError(err).Warn("idempotency store unavailable")
				return deny(c, http.StatusServiceUnavailable, "unavailable", "idempotency store unavailable")
			}
			if !claimed {
				prev, err := store.load(ctx, key)
				if err != nil {
					l.WithError(err).Warn("idempotency entry unreadable")
				}
				if prev.Fingerprint != "" && prev.Fingerprint != entry.Fingerprint {
					return deny(c, http.StatusConflict, "idempotency_conflict", headerRequestID+" reused with different body")
				}
				if prev.replayable() {
					c.Response().Header().Set(headerReplay, "true")
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				}
				return deny(c, http.StatusConflict, "idempotency_conflict", "request is already in progress")
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// The handler has finished; its request context may already be gone.
			bg, done := context.WithTimeout(context.Background(), storeTimeout)
			defer done()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					l.WithError(err).Warn("idempotency lock not released")
				}
				return nil
			}
			entry.Status = w.status
			entry.Body = w.body
			entry.StoredAt = nowUTC()
			if err := store.commit(bg, key, entry); err != nil {
				l.WithError(err).Warn("idempotency response not stored")
			}
			return nil
		}
	}
}
