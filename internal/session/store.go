// Package session implements the server-held, per-browser authentication
// context. Sessions are keyed by an opaque random id carried in a cookie;
// the id is rotated on login and the entry destroyed on logout or account
// deletion. Redis is the primary backing store so sessions survive a
// process restart; when Redis is unreachable at startup the store
// degrades to an in-process map and the service keeps working on a
// single node.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the opaque session cookie.
const CookieName = "marina_session"

// RememberCookieName is the name of the optional long-lived remember-me
// cookie holding a signed token (see utils.NewRememberToken).
const RememberCookieName = "marina_remember"

// Data is the authenticated identity held per session. UserID is kept as
// a string because sessions written by the legacy site sometimes stored
// the user's email where the numeric id belongs; the account gate
// normalizes that on first use.
type Data struct {
	UserID      string
	DisplayName string
}

// Store is the session state interface handlers work against.
type Store interface {
	// Create writes a new session and returns its opaque id.
	Create(ctx context.Context, d Data) (string, error)
	// Get returns the session data and whether the id was found.
	Get(ctx context.Context, id string) (Data, bool, error)
	// Update rewrites the data of an existing session in place.
	Update(ctx context.Context, id string, d Data) error
	// Destroy removes a session. Destroying an unknown id is not an error.
	Destroy(ctx context.Context, id string) error
}

// newID returns a 32-byte opaque session identifier in hex.
func newID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ----- Redis-backed store -----

type redisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Store persisting sessions as Redis hashes under
// "sess:<id>" with the given idle TTL.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, prefix: "sess:", ttl: ttl}
}

func (s *redisStore) key(id string) string { return s.prefix + id }

func (s *redisStore) Create(ctx context.Context, d Data) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}
	if err := s.write(ctx, id, d); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisStore) write(ctx context.Context, id string, d Data) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(id), "user_id", d.UserID, "display_name", d.DisplayName)
	pipe.Expire(ctx, s.key(id), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Get(ctx context.Context, id string) (Data, bool, error) {
	vals, err := s.rdb.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Data{}, false, err
	}
	if len(vals) == 0 {
		return Data{}, false, nil
	}
	// Sliding expiry: touching a session keeps it alive.
	s.rdb.Expire(ctx, s.key(id), s.ttl)
	return Data{UserID: vals["user_id"], DisplayName: vals["display_name"]}, true, nil
}

func (s *redisStore) Update(ctx context.Context, id string, d Data) error {
	return s.write(ctx, id, d)
}

func (s *redisStore) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}

// ----- In-process fallback store -----

type memoryEntry struct {
	data    Data
	expires time.Time
}

type memoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry
}

// NewMemoryStore returns a process-local Store. Used when Redis is not
// configured or unreachable, and by the test suite.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, m: make(map[string]memoryEntry)}
}

func (s *memoryStore) Create(ctx context.Context, d Data) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.m[id] = memoryEntry{data: d, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (Data, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return Data{}, false, nil
	}
	if time.Now().After(e.expires) {
		delete(s.m, id)
		return Data{}, false, nil
	}
	e.expires = time.Now().Add(s.ttl)
	s.m[id] = e
	return e.data, true, nil
}

func (s *memoryStore) Update(ctx context.Context, id string, d Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.m[id]; ok {
		e.data = d
		s.m[id] = e
	}
	return nil
}

func (s *memoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}
