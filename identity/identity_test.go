package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cccteam/officesession/access"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	router := chi.NewRouter()
	router.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
		if creds.Identifier != "jdoe" || creds.Secret != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid Credentials"}`))

			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"expiresIn":    900,
			"user":         map[string]string{"id": "u1", "email": "jdoe@example.com", "role": "ATTORNEY"},
		})
	})
	router.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req.RefreshToken {
		case "refresh-1":
			_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "access-2"})
		case "rotating":
			_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "access-3", "refreshToken": "refresh-3"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	router.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Email: "jdoe@example.com", GivenName: "Jane", FamilyName: "Doe", Role: "ATTORNEY"})
	})
	router.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func TestHTTPClient_Login(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		creds      Credentials
		want       *LoginResult
		wantStatus int
	}{
		{
			name:  "success",
			creds: Credentials{Identifier: "jdoe", Secret: "s3cret", RememberMe: true},
			want: &LoginResult{
				RefreshToken: "refresh-1",
				User:         &User{ID: "u1", Email: "jdoe@example.com", Role: "ATTORNEY"},
			},
		},
		{
			name:       "invalid credentials",
			creds:      Credentials{Identifier: "jdoe", Secret: "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewHTTPClient(srv.URL, WithHTTPClient(srv.Client()))
			if err != nil {
				t.Fatalf("NewHTTPClient() error = %v", err)
			}
			c.now = func() time.Time { return now }

			got, err := c.Login(context.Background(), tt.creds)
			if tt.wantStatus != 0 {
				if !IsStatus(err, tt.wantStatus) {
					t.Fatalf("Login() error = %v, want status %d", err, tt.wantStatus)
				}

				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if got.AccessToken.AccessToken != "access-1" {
				t.Errorf("AccessToken = %q, want access-1", got.AccessToken.AccessToken)
			}
			if want := now.Add(900 * time.Second); !got.AccessToken.Expiry.Equal(want) {
				t.Errorf("Expiry = %v, want %v", got.AccessToken.Expiry, want)
			}
			if diff := cmp.Diff(tt.want.User, got.User); diff != "" {
				t.Errorf("User mismatch (-want +got):\n%s", diff)
			}
			if got.RefreshToken != tt.want.RefreshToken {
				t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, tt.want.RefreshToken)
			}
		})
	}
}

func TestHTTPClient_Refresh(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		name         string
		refreshToken string
		wantAccess   string
		wantRotated  string
		wantRejected bool
	}{
		{name: "success", refreshToken: "refresh-1", wantAccess: "access-2"},
		{name: "rotated refresh token", refreshToken: "rotating", wantAccess: "access-3", wantRotated: "refresh-3"},
		{name: "rejected", refreshToken: "stale", wantRejected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewHTTPClient(srv.URL, WithHTTPClient(srv.Client()), WithTimeout(time.Second))
			if err != nil {
				t.Fatalf("NewHTTPClient() error = %v", err)
			}

			got, err := c.Refresh(context.Background(), tt.refreshToken)
			if tt.wantRejected {
				if !IsRejected(err) {
					t.Fatalf("Refresh() error = %v, want rejection", err)
				}

				return
			}
			if err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}
			if got.AccessToken.AccessToken != tt.wantAccess {
				t.Errorf("AccessToken = %q, want %q", got.AccessToken.AccessToken, tt.wantAccess)
			}
			if got.RefreshToken != tt.wantRotated {
				t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, tt.wantRotated)
			}
		})
	}
}

func TestHTTPClient_WhoAmIAndLogout(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	c, err := NewHTTPClient(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}

	user, err := c.WhoAmI(context.Background(), "access-2")
	if err != nil {
		t.Fatalf("WhoAmI() error = %v", err)
	}
	if role, ok := user.AccessRole(); !ok || role != access.Attorney {
		t.Errorf("AccessRole() = %q, %v, want ATTORNEY", role, ok)
	}
	if got := user.DisplayName(); got != "Jane Doe" {
		t.Errorf("DisplayName() = %q, want Jane Doe", got)
	}

	if _, err := c.WhoAmI(context.Background(), "access-1"); !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("WhoAmI() error = %v, want 401", err)
	}

	if err := c.Logout(context.Background(), "access-2"); err != nil {
		t.Errorf("Logout() error = %v", err)
	}
	if err := c.Logout(context.Background(), ""); !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("Logout() without token error = %v, want 401", err)
	}
}

func TestUser_Helpers(t *testing.T) {
	t.Parallel()

	var nilUser *User
	if _, ok := nilUser.AccessRole(); ok {
		t.Errorf("nil user has a role")
	}
	if got := (&User{Email: "a@example.com"}).DisplayName(); got != "a@example.com" {
		t.Errorf("DisplayName() = %q, want the email fallback", got)
	}
	if _, ok := (&User{Role: "JANITOR"}).AccessRole(); ok {
		t.Errorf("unknown role reported as valid")
	}
}
