package integrations

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CodeTTL is how long a phone verification code stays valid.
const CodeTTL = 5 * time.Minute

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

var (
	ErrCodeExpired  = errors.New("verification code not found or expired")
	ErrCodeMismatch = errors.New("verification code does not match")
)

// CodeStore issues and checks one-time phone codes.
type CodeStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	// Consume deletes the code once it matches.
	Consume(ctx context.Context, phone, code string) error
}

// NewCode returns CodeLength random digits.
func NewCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// RedisCodes keeps codes under "phone_code:<phone>".
type RedisCodes struct {
	rdb *redis.Client
}

// NewRedisCodes connects and pings Redis.
func NewRedisCodes(ctx context.Context, addr, password string, db int) (*RedisCodes, error) {
	if addr == "" {
		return nil, ErrDisabled
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisCodes{rdb: rdb}, nil
}

func codeKey(phone string) string {
	return "phone_code:" + phone
}

func (r *RedisCodes) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, codeKey(phone), code, ttl).Err(); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	return nil
}

func (r *RedisCodes) Consume(ctx context.Context, phone, code string) error {
	stored, err := r.rdb.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}
	if stored != code {
		return ErrCodeMismatch
	}
	if err := r.rdb.Del(ctx, codeKey(phone)).Err(); err != nil {
		log.WithError(err).Warn("Failed to delete used phone code")
	}
	return nil
}

func (r *RedisCodes) Close() error {
	return r.rdb.Close()
}

// MemoryCodes is a single-process CodeStore for development and tests.
type MemoryCodes struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	now   func() time.Time
}

type memoryCode struct {
	code    string
	expires time.Time
}

func NewMemoryCodes() *MemoryCodes {
	return &MemoryCodes{codes: map[string]memoryCode{}, now: time.Now}
}

func (m *MemoryCodes) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[phone] = memoryCode{code: code, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryCodes) Consume(_ context.Context, phone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.codes[phone]
	if !ok || m.now().After(stored.expires) {
		delete(m.codes, phone)
		return ErrCodeExpired
	}
	if stored.code != code {
		return ErrCodeMismatch
	}
	delete(m.codes, phone)
	return nil
}

// SMSSender delivers a text message.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSMS writes messages to the log instead of sending them.
type LogSMS struct{}

func (LogSMS) Send(_ context.Context, phone, message string) error {
	log.WithField("phone", phone).Info("SMS: " + message)
	return nil
}
