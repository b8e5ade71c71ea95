// internal/api/api_test.go
//
// Unit-tests for the HTTP layer: actor enforcement and fault → status
// mapping.  Handlers proper are exercised through the mutation and store
// tests; here we only verify the seams the API owns.

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yanizio/seonet/internal/actor"
	"github.com/yanizio/seonet/internal/netlock"
	"github.com/yanizio/seonet/internal/structure"
)

func TestRequireActor(t *testing.T) {
	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = actor.Email(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := requireActor(next)

	t.Run("missing header is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/networks", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("header is stamped into context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/networks", nil)
		req.Header.Set("X-Actor-Email", "ops@example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		if gotEmail != "ops@example.com" {
			t.Fatalf("actor = %q, want ops@example.com", gotEmail)
		}
	})
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		want     int
		wantKind string
	}{
		{"validation", &structure.ValidationError{Field: "change_note", Reason: "too short"},
			http.StatusUnprocessableEntity, "validation"},
		{"invariant", &structure.InvariantViolation{Rule: "cycle", Detail: "loop"},
			http.StatusConflict, "invariant"},
		{"not found", structure.ErrNotFound, http.StatusNotFound, "not_found"},
		{"busy", netlock.ErrBusy, http.StatusServiceUnavailable, "busy"},
		{"malformed graph", &structure.MalformedGraph{NetworkID: 7, Mains: []uint64{1, 2}},
			http.StatusInternalServerError, "malformed_graph"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tc.err)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
			if !strings.Contains(rr.Body.String(), `"kind":"`+tc.wantKind+`"`) {
				t.Fatalf("body = %s, want kind %q", rr.Body.String(), tc.wantKind)
			}
		})
	}
}
