package permissions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/authhttp"
	"github.com/cccteam/officesession/mock/mock_authhttp"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/errors/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"
)

func TestHTTPSource_Fetch(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/permissions/{role}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		switch chi.URLParam(r, "role") {
		case "ATTORNEY":
			_, _ = w.Write([]byte(`{"role":"ATTORNEY","permissions":[{"module":"dossiers","read":true,"write":true,"delete":false,"status":"active"}]}`))
		case "CLERK":
			_, _ = w.Write([]byte(`{"role":"INTERN","permissions":[]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	tests := []struct {
		name    string
		role    access.Role
		want    access.Matrix
		wantErr bool
	}{
		{name: "success", role: access.Attorney, want: access.Matrix{access.Dossiers: {Read: true, Write: true}}},
		{name: "role mismatch", role: access.Clerk, wantErr: true},
		{name: "server error", role: access.Director, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			sessions := mock_authhttp.NewMockSessionManager(ctrl)
			sessions.EXPECT().AccessToken().Return(&oauth2.Token{AccessToken: "access-1"})

			e, err := authhttp.New(srv.URL, sessions, authhttp.WithHTTPClient(srv.Client()))
			if err != nil {
				t.Fatalf("authhttp.New() error = %v", err)
			}

			res, err := NewHTTPSource(e).Fetch(context.Background(), tt.role)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, res.Matrix(context.Background())); diff != "" {
				t.Errorf("Matrix() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHTTPSource_FetchRequest(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	executor := NewMockJSONExecutor(ctrl)
	executor.EXPECT().ExecuteJSON(gomock.Any(), &authhttp.Request{Method: http.MethodGet, Path: "/permissions/LEGAL_ADVISOR"}, gomock.Any()).Return(errors.New("boom"))

	if _, err := NewHTTPSource(executor).Fetch(context.Background(), access.LegalAdvisor); err == nil {
		t.Errorf("Fetch() error = nil, want the executor error")
	}
}
