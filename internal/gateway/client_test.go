package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListTranslatesWireFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/deals", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{{
				"id":                  7,
				"title":               "Enterprise license",
				"value":               12000.0,
				"stage":               "Proposal Sent",
				"expected_close_date": "2026-10-01",
				"contact_id":          3,
				"notes":               "warm intro",
				"created_at":          "2026-08-01T10:00:00Z",
				"updated_at":          "2026-08-20T09:30:00Z",
			}},
		})
	})

	deals, err := NewGateway(c).Deals.List(context.Background())
	require.NoError(t, err)
	require.Len(t, deals, 1)

	d := deals[0]
	assert.Equal(t, 7, d.ID)
	assert.Equal(t, "Enterprise license", d.Title)
	assert.Equal(t, stage.ProposalSent, d.Stage)
	assert.Equal(t, "2026-10-01", d.ExpectedCloseDate)
	require.NotNil(t, d.ContactID)
	assert.Equal(t, 3, *d.ContactID)
	assert.Nil(t, d.CompanyID)
	assert.Equal(t, "2026-08-20T09:30:00Z", d.UpdatedAt.Format(time.RFC3339))
}

func TestListEmptyDataIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})
	deals, err := NewGateway(c).Deals.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestTopLevelFailureIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false, "message": "table unavailable"})
	})
	_, err := NewGateway(c).Contacts.List(context.Background())
	var te TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Error(), "table unavailable")
}

func TestGetMissingRecordIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"success": false, "message": "record not found"})
	})
	_, err := NewGateway(c).Deals.Get(context.Background(), 42)
	require.True(t, IsNotFound(err), "want NotFoundError, got %v", err)
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "deal", nf.Kind)
	assert.Equal(t, 42, nf.ID)
}

func TestCreateSendsSnakeCaseAndReturnsServerRecord(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{{
				"success": true,
				"data": map[string]any{
					"id": 101, "name": "Acme Corp", "industry": "Manufacturing",
					"created_at": "2026-09-01T08:00:00Z", "updated_at": "2026-09-01T08:00:00Z",
				},
			}},
		})
	})

	co, err := NewGateway(c).Companies.Create(context.Background(), companyFixture())
	require.NoError(t, err)
	assert.Equal(t, 101, co.ID)

	records := gotBody["records"].([]any)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, "Acme Corp", rec["name"])
	_, hasID := rec["id"]
	assert.False(t, hasID, "create must not send a client-assigned id")
}

func TestUpdateMissingRecordIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{{"success": false, "message": "record not found"}},
		})
	})
	st := stage.Won
	_, err := NewGateway(c).Deals.Update(context.Background(), 9, DealPatch{Stage: &st})
	require.True(t, IsNotFound(err), "want NotFoundError, got %v", err)
}

func TestActivityUpdatePatchesOnlyChangedFields(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/activities", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{{
				"success": true,
				"data": map[string]any{
					"id": 14, "type": "Meeting", "description": "QBR recap",
					"date": "2026-08-30T15:00:00Z", "deal_id": 3,
				},
			}},
		})
	})

	at := model.ActivityMeeting
	desc := "QBR recap"
	a, err := NewGateway(c).Activities.Update(context.Background(), 14, ActivityPatch{Type: &at, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, model.ActivityMeeting, a.Type)
	require.NotNil(t, a.DealID)
	assert.Equal(t, 3, *a.DealID)

	records := gotBody["records"].([]any)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, float64(14), rec["id"])
	assert.Equal(t, "Meeting", rec["type"])
	assert.Equal(t, "QBR recap", rec["description"])
	_, hasDate := rec["date"]
	assert.False(t, hasDate, "unset fields must not be sent")
}

func TestMoveStagePartialFailureReturnsSuccesses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{
				{"success": true, "data": map[string]any{"id": 1, "title": "A", "stage": "Won"}},
				{"success": false, "message": "record locked"},
			},
		})
	})

	moves := []StageMove{{ID: 1, Stage: stage.Won}, {ID: 2, Stage: stage.Won}}
	deals, err := NewGateway(c).Deals.MoveStage(context.Background(), moves)

	require.Len(t, deals, 1)
	assert.Equal(t, stage.Won, deals[0].Stage)

	var pe PartialError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Failed, 1)
	assert.Equal(t, 2, pe.Failed[0].ID)
	assert.Equal(t, "record locked", pe.Failed[0].Message)
}

func TestPartialFailureNamesEveryFailedRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{
				{"success": false, "message": "record locked"},
				{"success": false, "message": "record locked"},
			},
		})
	})

	moves := []StageMove{{ID: 11, Stage: stage.Lost}, {ID: 12, Stage: stage.Lost}}
	_, err := NewGateway(c).Deals.MoveStage(context.Background(), moves)

	var pe PartialError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Failed, 2)
	assert.Equal(t, 11, pe.Failed[0].ID)
	assert.Equal(t, 12, pe.Failed[1].ID)
}

func TestDeleteNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts/delete", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{{"success": false, "message": "record not found"}},
		})
	})
	err := NewGateway(c).Contacts.Delete(context.Background(), 5)
	require.True(t, IsNotFound(err))
}

func TestUnreachableBackendIsTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", time.Second, nil)
	_, err := NewGateway(c).Deals.List(context.Background())
	var te TransportError
	require.ErrorAs(t, err, &te)
}

func companyFixture() model.Company {
	return model.Company{Name: "Acme Corp", Industry: "Manufacturing"}
}
