package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inamate/seatmap/internal/typeid"
)

var ErrInvalidToken = errors.New("invalid token")

const tokenTTL = 24 * time.Hour

// Service issues and checks the bearer tokens that identify a viewing
// session. There are no user accounts: a token names one session on one venue.
type Service struct {
	jwtSecret []byte
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

type Grant struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	VenueID   string    `json:"venueId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims is what a valid token tells about its session.
type Claims struct {
	SessionID string
	VenueID   string
}

// IssueSession starts a new session on venueID and signs a token for it.
func (s *Service) IssueSession(venueID string) (*Grant, error) {
	sessionID := typeid.NewSessionID()
	now := s.now()
	exp := now.Add(tokenTTL)

	claims := jwt.MapClaims{
		"sub":   sessionID,
		"venue": venueID,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Grant{
		Token:     signed,
		SessionID: sessionID,
		VenueID:   venueID,
		ExpiresAt: time.Unix(exp.Unix(), 0).UTC(),
	}, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sessionID, ok := claims["sub"].(string)
	if !ok || typeid.Validate(sessionID, typeid.PrefixSession) != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	venueID, _ := claims["venue"].(string)

	return &Claims{SessionID: sessionID, VenueID: venueID}, nil
}
