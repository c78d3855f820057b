package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const statePurpose = "oauth_state"

// stateSigner issues and checks the OAuth state parameter as a short-lived JWT
type stateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newStateSigner(secret string, ttl time.Duration) *stateSigner {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &stateSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *stateSigner) Issue() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"nonce":   uuid.New().String(),
		"purpose": statePurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *stateSigner) Verify(state string) error {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return errors.New("invalid oauth state")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != statePurpose {
		return errors.New("invalid oauth state")
	}
	return nil
}
