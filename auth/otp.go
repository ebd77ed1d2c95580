package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpTTL = 5 * time.Minute

// OTPSender delivers a one-time code to the user. Actual delivery (email,
// WhatsApp) lives outside this service.
type OTPSender interface {
	Send(ctx context.Context, email, code string) error
}

// LogSender writes the code to the server log. Used when no delivery
// provider is configured (local development, tests).
type LogSender struct{}

func (LogSender) Send(_ context.Context, email, code string) error {
	log.Printf("📨 OTP for %s: %s", email, code)
	return nil
}

// OTPStore keeps pending codes in Redis so any server instance can verify
// a code issued by another one. Codes expire after otpTTL and are deleted
// on first successful verification.
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func otpKey(email string) string { return "otp:" + email }

// GenerateCode returns a random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *OTPStore) Save(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, otpKey(email), code, otpTTL).Err()
}

// Consume checks the code for the email and deletes it if it matches, so a
// code can be used at most once.
func (s *OTPStore) Consume(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}
	if err := s.rdb.Del(ctx, otpKey(email)).Err(); err != nil {
		return false, err
	}
	return true, nil
}
