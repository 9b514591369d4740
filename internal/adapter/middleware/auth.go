package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"mifi-backend/internal/domain/user"
)

const actorKey = "ledger.actor"

// Claims carry the acting user: the subject is the numeric user id.
type Claims struct {
	Role user.Role `json:"role"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

// IssueToken signs an HS256 token for actor. Token issuance belongs to the
// identity service; this exists for tooling and tests.
func IssueToken(secret []byte, actor user.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(actor.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString(secret)
}

// ParseToken verifies an HS256 token and returns the actor it names.
func ParseToken(secret []byte, raw string) (user.Actor, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return user.Actor{}, errors.New("token has expired")
		}
		return user.Actor{}, errInvalidToken
	}
	if !tok.Valid || !claims.Role.Valid() {
		return user.Actor{}, errInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return user.Actor{}, errInvalidToken
	}
	return user.Actor{UserID: id, Role: claims.Role}, nil
}

// JWTAuth resolves the bearer token into the acting user for the handlers below.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return deny(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			}
			actor, err := ParseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return deny(c, http.StatusUnauthorized, "unauthorized", err.Error())
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireRole rejects actors whose role does not satisfy allow.
func RequireRole(allow func(user.Role) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok || !allow(actor.Role) {
				return deny(c, http.StatusForbidden, "forbidden", "insufficient role")
			}
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (user.Actor, bool) {
	a, ok := c.Get(actorKey).(user.Actor)
	return a, ok
}

// WithActor stores actor on c, as JWTAuth does.
func WithActor(c echo.Context, actor user.Actor) { c.Set(actorKey, actor) }
