package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inamate/seatmap/internal/venue"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewService("test-secret")
	grant, err := s.IssueSession("venue_sample")
	if err != nil {
		t.Fatalf("IssueSession() error = %v", err)
	}
	if !strings.HasPrefix(grant.SessionID, "sess_") {
		t.Errorf("session id = %q", grant.SessionID)
	}

	claims, err := s.ValidateToken(grant.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.SessionID != grant.SessionID || claims.VenueID != "venue_sample" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewService("test-secret")
	grant, err := s.IssueSession("venue_sample")
	if err != nil {
		t.Fatal(err)
	}

	expired := NewService("test-secret")
	expired.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		svc   *Service
		token string
	}{
		{"garbage", s, "not-a-token"},
		{"wrong secret", NewService("other-secret"), grant.Token},
		{"expired", expired, grant.Token},
		{"not a session subject", s, noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	s := NewService("test-secret")
	h := NewHandler(s, venue.SampleStore{ID: "venue_sample"}, "venue_sample")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"default venue", ``, http.StatusCreated},
		{"named venue", `{"venueId":"venue_sample"}`, http.StatusCreated},
		{"unknown venue", `{"venueId":"venue_nowhere"}`, http.StatusNotFound},
		{"bad body", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateSession(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
			if tt.want != http.StatusCreated {
				return
			}
			var g Grant
			if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
				t.Fatal(err)
			}
			if _, err := s.ValidateToken(g.Token); err != nil {
				t.Errorf("issued token invalid: %v", err)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := NewService("test-secret")
	grant, _ := s.IssueSession("venue_sample")

	var seen *Claims
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + grant.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/venue", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if seen == nil || seen.SessionID != grant.SessionID {
		t.Errorf("claims in context = %+v", seen)
	}
}
