package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinic-booking-core/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidSubject = errors.New("token subject is neither a patient id nor an e-mail")
	ErrLegacySubject  = errors.New("e-mail subjects are no longer accepted")
)

// Claims issued by the identity service. Older tokens carry the patient's e-mail
// as subject, current ones the numeric patient id.
type Claims struct {
	Email   string `json:"email,omitempty"`
	TokenID string `json:"token_id,omitempty"`
	jwt.RegisteredClaims
}

// JTI returns the revocation handle of the token
func (c *Claims) JTI() string {
	if c.ID != "" {
		return c.ID
	}
	return c.TokenID
}

// Subject is either a LegacySubject or a CurrentSubject
type Subject interface {
	isSubject()
}

// LegacySubject identifies the patient by e-mail and needs a directory lookup
type LegacySubject struct {
	Email string
}

// CurrentSubject carries the patient id directly
type CurrentSubject struct {
	PatientID int64
}

func (LegacySubject) isSubject()  {}
func (CurrentSubject) isSubject() {}

// ParseSubject classifies the token's subject
func ParseSubject(c *Claims) (Subject, error) {
	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		sub = strings.TrimSpace(c.Email)
	}

	if id, err := strconv.ParseInt(sub, 10, 64); err == nil {
		if id <= 0 {
			return nil, ErrInvalidSubject
		}
		return CurrentSubject{PatientID: id}, nil
	}
	if strings.Contains(sub, "@") {
		return LegacySubject{Email: strings.ToLower(sub)}, nil
	}
	return nil, ErrInvalidSubject
}

type JWTService struct {
	config config.JWTConfig
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{config: cfg}
}

// GenerateAccessToken signs a token the way the identity service does. Used by tooling and tests.
func (s *JWTService) GenerateAccessToken(subject string, ttl time.Duration) (string, string, error) {
	tokenID := uuid.New().String()
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResolveSubject validates the token and classifies its subject in one step
func (s *JWTService) ResolveSubject(tokenString string) (*Claims, Subject, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	subject, err := ParseSubject(claims)
	if err != nil {
		return nil, nil, err
	}
	if _, legacy := subject.(LegacySubject); legacy && !s.config.AcceptLegacySubject {
		return nil, nil, ErrLegacySubject
	}

	return claims, subject, nil
}
