package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadkw/splitmate/pkg/middleware"
	"github.com/hamadkw/splitmate/pkg/response"
)

func doRequest(t *testing.T, handler http.Handler, method, target, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCompute(t *testing.T) {
	svc, _ := newTestService()
	handler := NewHandler(svc).Routes()
	groupID := uuid.New()

	t.Run("returns the plan for a member", func(t *testing.T) {
		body := `{"group_id":"` + groupID.String() + `"}`

		rec := doRequest(t, handler, http.MethodPost, "/compute", body, alice)

		require.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data Plan `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data.Balances, 3)
		assert.Equal(t, 2, envelope.Data.TotalTransactions)
	})

	t.Run("forbids non-members", func(t *testing.T) {
		body := `{"group_id":"` + groupID.String() + `"}`

		rec := doRequest(t, handler, http.MethodPost, "/compute", body, dave)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("requires a group id", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/compute", `{}`, alice)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/compute", `{`, alice)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerReset(t *testing.T) {
	svc, store := newTestService()
	handler := NewHandler(svc).Routes()
	groupID := uuid.New()

	t.Run("resets for a member", func(t *testing.T) {
		body := `{"group_id":"` + groupID.String() + `"}`

		rec := doRequest(t, handler, http.MethodPost, "/reset", body, alice)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, store.deleteCalls)
	})

	t.Run("forbids non-members", func(t *testing.T) {
		body := `{"group_id":"` + groupID.String() + `"}`

		rec := doRequest(t, handler, http.MethodPost, "/reset", body, dave)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var envelope response.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.NotEmpty(t, envelope.Error)
	})
}

func TestHandlerRecord(t *testing.T) {
	svc, _ := newTestService()
	handler := NewHandler(svc).Routes()
	groupID := uuid.New()

	t.Run("records a valid plan", func(t *testing.T) {
		body := `{"group_id":"` + groupID.String() + `","settlements":[` +
			`{"from_user":"` + carol.String() + `","to_user":"` + alice.String() + `","amount":40}]}`

		rec := doRequest(t, handler, http.MethodPost, "/record", body, alice)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects an empty plan", func(t *testing.T) {
		body := `{"group_id":"` + groupID.String() + `","settlements":[]}`

		rec := doRequest(t, handler, http.MethodPost, "/record", body, alice)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerListByGroup(t *testing.T) {
	svc, _ := newTestService()
	handler := NewHandler(svc).Routes()
	groupID := uuid.New()

	t.Run("rejects malformed group ids", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/group/not-a-uuid", "", alice)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns the history for a member", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/group/"+groupID.String(), "", alice)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
