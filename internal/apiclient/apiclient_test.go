package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/errors/v5"
	"golang.org/x/oauth2"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "absolute", baseURL: "https://office.example.com/api"},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "garbage", baseURL: "://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.baseURL, nil, 0)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{name: "no base path", baseURL: "https://office.example.com", path: "/auth/login", want: "https://office.example.com/auth/login"},
		{name: "base path without slash", baseURL: "https://office.example.com/api", path: "/auth/me", want: "https://office.example.com/api/auth/me"},
		{name: "base path with slash", baseURL: "https://office.example.com/api/", path: "permissions/ADMIN", want: "https://office.example.com/api/permissions/ADMIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(tt.baseURL, nil, 0)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := c.URL(tt.path); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Do(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
		in["authorization"] = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(in)
	})
	router.Get("/denied", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid Credentials"}`))
	})
	router.Get("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	})
	router.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	t.Run("round trip with bearer", func(t *testing.T) {
		t.Parallel()

		c, err := New(srv.URL, srv.Client(), time.Second)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		var out map[string]string
		if err := c.Do(context.Background(), http.MethodPost, "/echo", &oauth2.Token{AccessToken: "abc"}, map[string]string{"hello": "world"}, &out); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if out["hello"] != "world" {
			t.Errorf("out[hello] = %q, want world", out["hello"])
		}
		if out["authorization"] != "Bearer abc" {
			t.Errorf("Authorization = %q, want %q", out["authorization"], "Bearer abc")
		}
	})

	t.Run("json error message", func(t *testing.T) {
		t.Parallel()

		c, _ := New(srv.URL, srv.Client(), time.Second)
		err := c.Do(context.Background(), http.MethodGet, "/denied", nil, nil, nil)
		if !HasStatus(err, http.StatusUnauthorized) {
			t.Fatalf("Do() error = %v, want status 401", err)
		}
		var se *StatusError
		if !asStatus(err, &se) || se.Message != "Invalid Credentials" {
			t.Errorf("StatusError = %+v, want message Invalid Credentials", se)
		}
	})

	t.Run("plain error body", func(t *testing.T) {
		t.Parallel()

		c, _ := New(srv.URL, srv.Client(), time.Second)
		err := c.Do(context.Background(), http.MethodGet, "/plain", nil, nil, nil)
		var se *StatusError
		if !asStatus(err, &se) || se.StatusCode != http.StatusBadGateway || se.Message != "upstream down" {
			t.Errorf("StatusError = %+v", se)
		}
	})

	t.Run("bounded by timeout", func(t *testing.T) {
		t.Parallel()

		c, _ := New(srv.URL, srv.Client(), 50*time.Millisecond)
		start := time.Now()
		if err := c.Do(context.Background(), http.MethodGet, "/slow", nil, nil, nil); err == nil {
			t.Fatalf("Do() error = nil, want timeout")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("Do() took %s, want it bounded by the timeout", elapsed)
		}
	})
}

func asStatus(err error, target **StatusError) bool {
	return errors.As(err, target)
}
