package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const tokenIssuer = "fablemaze-api"

// Claims identify the signed-in user of a session.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken generates a new JWT token for a given user.
func (s *TokenService) GenerateToken(user *db.User) (string, error) {
	now := s.now()
	expirationTime := now.Add(s.ttl)

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Errorf("Failed to sign JWT token for user %s: %v", user.Username, err)
		return "", err
	}

	log.Debugf("Generated JWT for user %s, expires at %s", user.Username, expirationTime.Format(time.RFC3339))
	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims if valid.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		log.Warnf("JWT validation failed: %v", err)
		return nil, err
	}

	if !token.Valid {
		log.Warn("Invalid JWT token.")
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token carries no user id")
	}

	return claims, nil
}
