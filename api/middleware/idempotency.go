package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/pokeshop-api/api/responses"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
	pkgredis "github.com/angelmondragon/pokeshop-api/pkg/redis"
)

// IdempotencyHeader carries the client-chosen key.
const IdempotencyHeader = "Idempotency-Key"

const (
	replayedHeader        = "Idempotent-Replayed"
	defaultIdempotencyTTL = 24 * time.Hour
	reservationTTL        = time.Minute
)

// create routes only; updates and deletes are naturally repeatable
var idempotentRoutes = map[string][]string{
	http.MethodPost: {"/users", "/orders"},
}

type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body"`
	RequestHash string `json:"request_hash"`
}

type idempotencyGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// Idempotency replays the stored response for a repeated Idempotency-Key on the create
// routes. Requests without the header, or any request when store is nil, pass through.
// The key is reserved before the handler runs, so a concurrent duplicate gets 409 instead
// of a second write. Reusing a key with a different body is also 409. Server errors
// release the key so the client may retry them.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	guard := &idempotencyGuard{store: store, ttl: ttl, logg: logg}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if store == nil || clientKey == "" || !isIdempotentRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			guard.serve(next, w, r, clientKey)
		})
	}
}

func (g *idempotencyGuard) serve(next http.Handler, w http.ResponseWriter, r *http.Request, clientKey string) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, readBodyError(err))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	hash := base64.StdEncoding.EncodeToString(sum[:])
	key := g.store.IdempotencyKey(r.Method+"|"+r.URL.Path, clientKey)

	stored, err := g.lookup(r, key)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, err)
		return
	}
	if stored == nil {
		stored, err = g.reserve(r, key, hash)
		if err != nil {
			responses.WriteError(ctx, g.logg, w, err)
			return
		}
	}
	if stored != nil {
		g.replay(w, r, clientKey, hash, stored)
		return
	}

	kept := false
	defer func() {
		if !kept {
			g.release(r, key)
		}
	}()

	capture := &responseCapture{ResponseWriter: w}
	next.ServeHTTP(capture, r)

	status := capture.statusCode()
	if status >= http.StatusInternalServerError {
		return
	}
	kept = g.remember(r, key, storedResponse{
		Status:      status,
		ContentType: capture.Header().Get("Content-Type"),
		Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
		RequestHash: hash,
	})
}

func (g *idempotencyGuard) replay(w http.ResponseWriter, r *http.Request, clientKey, hash string, stored *storedResponse) {
	ctx := r.Context()
	switch {
	case stored.RequestHash != hash:
		responses.WriteError(ctx, g.logg, w,
			pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case stored.Pending:
		responses.WriteError(ctx, g.logg, w,
			pkgerrors.New(pkgerrors.CodeIdempotency, "a request with this idempotency key is still in progress"))
	default:
		g.logg.Debug(g.logg.WithField(ctx, "idempotency_key", clientKey), "idempotency.replayed")
		w.Header().Set(replayedHeader, "true")
		stored.writeTo(w)
	}
}

// lookup returns nil, nil when no response is stored under key.
func (g *idempotencyGuard) lookup(r *http.Request, key string) (*storedResponse, error) {
	raw, err := g.store.Get(r.Context(), key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &stored, nil
}

// reserve claims key with a pending record. When another request won the race, its
// record is returned instead.
func (g *idempotencyGuard) reserve(r *http.Request, key, hash string) (*storedResponse, error) {
	payload, err := json.Marshal(storedResponse{Pending: true, RequestHash: hash})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency reservation")
	}
	ttl := g.ttl
	if ttl > reservationTTL {
		ttl = reservationTTL
	}
	ok, err := g.store.SetNX(r.Context(), key, string(payload), ttl)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key")
	}
	if ok {
		return nil, nil
	}
	stored, err := g.lookup(r, key)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// the holder released it between our two calls
		return &storedResponse{Pending: true, RequestHash: hash}, nil
	}
	return stored, nil
}

// remember is best effort: the response has already been sent.
func (g *idempotencyGuard) remember(r *http.Request, key string, resp storedResponse) bool {
	payload, err := json.Marshal(resp)
	if err == nil {
		err = g.store.Set(context.WithoutCancel(r.Context()), key, string(payload), g.ttl)
	}
	if err != nil {
		g.logg.Error(r.Context(), "idempotency.persist_failed", err)
		return false
	}
	return true
}

// release drops the reservation so the client can retry.
func (g *idempotencyGuard) release(r *http.Request, key string) {
	if err := g.store.Del(context.WithoutCancel(r.Context()), key); err != nil {
		g.logg.Error(r.Context(), "idempotency.release_failed", err)
	}
}

func readBodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
			WithDetails(map[string]any{"limit_bytes": tooLarge.Limit})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request")
}

func (s *storedResponse) writeTo(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.WriteHeader(s.Status)
	if body, err := base64.StdEncoding.DecodeString(s.Body); err == nil {
		_, _ = w.Write(body)
	}
}

func isIdempotentRoute(method, path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, candidate := range idempotentRoutes[method] {
		if candidate == path {
			return true
		}
	}
	return false
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
