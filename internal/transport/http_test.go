package transport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/testserver"
	"github.com/Transcranial-Solutions/iconpreps/internal/transport"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func get(t *testing.T, ts *testserver.TestServer, path string, query url.Values) *http.Response {
	t.Helper()
	u := ts.Server.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := http.Get(u)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func send(t *testing.T, ts *testserver.TestServer, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body errorResponse
	decode(t, resp, &body)
	return body.Error.Code
}

func ids(projects []catalog.JoinedProject) []string {
	out := make([]string, 0, len(projects))
	for _, jp := range projects {
		out = append(out, jp.ID)
	}
	return out
}

func TestHealthAndFilters(t *testing.T) {
	ts := testserver.New(t)

	resp := get(t, ts, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	resp = get(t, ts, "/filters", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var filters transport.Filters
	decode(t, resp, &filters)
	require.Len(t, filters.Categories, 6)
	require.Len(t, filters.Statuses, 4)
	require.Len(t, filters.RecentTypes, 2)
	require.Equal(t, "Updated in last 7 days", filters.RecentTypes[0].Label)
	require.Len(t, filters.Orderings["projects"], 2)
	require.Equal(t, "Rank", filters.Orderings["sponsors"][1].Value)
}

func TestListProjects(t *testing.T) {
	ts := testserver.New(t)

	resp := get(t, ts, "/projects", url.Values{"category": {"Development", "Education"}, "order": {"Newest"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list transport.ProjectList
	decode(t, resp, &list)
	require.Equal(t, []string{"p2", "p1", "p3"}, ids(list.Results))
	require.Len(t, list.Tags, 2)
	require.Equal(t, "Development", list.Tags[0].Label)
	require.Equal(t, "Newest", list.State.Order)

	resp = get(t, ts, "/projects", url.Values{"recent": {"Created"}, "status": {"Completed"}})
	decode(t, resp, &list)
	require.Equal(t, []string{"p2"}, ids(list.Results))

	resp = get(t, ts, "/projects", url.Values{"sponsor": {"hx1"}, "order": {"Newest"}, "limit": {"1"}})
	decode(t, resp, &list)
	require.Equal(t, []string{"p1"}, ids(list.Results))

	resp = get(t, ts, "/projects", url.Values{"query": {"zzz"}})
	decode(t, resp, &list)
	require.Empty(t, list.Results)
	require.Equal(t, catalog.EmptyResultsMessage, list.Message)
}

func TestListProjects_BadInput(t *testing.T) {
	ts := testserver.New(t)

	for name, q := range map[string]url.Values{
		"order":        {"order": {"Oldest"}},
		"category":     {"category": {"Gaming"}},
		"rating range": {"rating": {"9"}},
		"rating text":  {"rating": {"high"}},
		"rating NaN":   {"rating": {"NaN"}},
		"limit":        {"limit": {"-1"}},
		"status":       {"status": {"Done"}},
	} {
		t.Run(name, func(t *testing.T) {
			resp := get(t, ts, "/projects", q)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "invalid_request", errorCode(t, resp))
		})
	}
}

func TestProjectDetail(t *testing.T) {
	ts := testserver.New(t)

	resp := get(t, ts, "/projects/p1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail transport.ProjectDetail
	decode(t, resp, &detail)
	require.Equal(t, 4.0, detail.Project.Rating)
	require.Equal(t, catalog.BadgeRecentlyUpdated, detail.ActivityBadge)

	resp = get(t, ts, "/projects/p1/related", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var related struct {
		Results []catalog.JoinedProject `json:"results"`
	}
	decode(t, resp, &related)
	require.Equal(t, []string{"p3"}, ids(related.Results))

	resp = get(t, ts, "/projects/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", errorCode(t, resp))
}

func TestSponsors(t *testing.T) {
	ts := testserver.New(t)

	resp := get(t, ts, "/sponsors", url.Values{"order": {"Rank"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list transport.SponsorList
	decode(t, resp, &list)
	require.Len(t, list.Results, 2)
	require.Equal(t, "hx1", list.Results[0].Address)
	require.Equal(t, 2, list.Results[0].Projects)

	resp = get(t, ts, "/sponsors", url.Values{"status": {"Completed"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, ts, "/sponsors/hx2", url.Values{"order": {"Newest"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail transport.SponsorDetail
	decode(t, resp, &detail)
	require.Equal(t, "Sub", detail.Tier)
	require.Equal(t, []string{"p2", "p4"}, ids(detail.Projects.Results))

	resp = get(t, ts, "/sponsors/hx9", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRatingsAndFeedback(t *testing.T) {
	ts := testserver.New(t)

	resp := get(t, ts, "/ratings", nil)
	var ratings struct {
		Results []rating.Aggregate `json:"results"`
	}
	decode(t, resp, &ratings)
	require.Len(t, ratings.Results, 1)
	require.Equal(t, "p1", ratings.Results[0].ProjectID)

	resp = get(t, ts, "/feedback", url.Values{"project_id": {"p1"}})
	var feedback struct {
		Results []rating.Feedback `json:"results"`
	}
	decode(t, resp, &feedback)
	require.Len(t, feedback.Results, 2)
	require.Equal(t, "f2", feedback.Results[0].ID)

	resp = get(t, ts, "/feedback", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedback_WithAuth(t *testing.T) {
	ts := testserver.New(t, testserver.WithAuth())
	token := ts.Token(t, testserver.Alice)

	resp := send(t, ts, http.MethodPost, "/feedback", "", map[string]any{"project_id": "p4", "rating": 5, "comment": "Great"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, ts, http.MethodPost, "/feedback", "not-a-token", map[string]any{"project_id": "p4", "rating": 5, "comment": "Great"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, ts, http.MethodPost, "/feedback", token, map[string]any{"project_id": "p4", "rating": 5, "comment": "Great"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result catalog.FeedbackResult
	decode(t, resp, &result)
	require.Equal(t, "alice", result.Entry.Username)
	require.Equal(t, 5.0, result.Project.Rating)

	resp = send(t, ts, http.MethodPost, "/feedback", token, map[string]any{"project_id": "p4", "comment": "No stars"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body errorResponse
	decode(t, resp, &body)
	require.Equal(t, rating.MsgMissingRating, body.Error.Message)

	resp = send(t, ts, http.MethodPost, "/feedback", ts.Token(t, testserver.Bob), map[string]any{"project_id": "p4", "rating": 3, "comment": "Hmm"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = send(t, ts, http.MethodPost, "/feedback", token, map[string]any{"rating": 3, "comment": "Hmm"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, ts, http.MethodDelete, "/feedback/f1?project_id=p1", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = send(t, ts, http.MethodDelete, "/feedback/"+result.Entry.ID+"?project_id=p4", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = send(t, ts, http.MethodDelete, "/feedback/"+result.Entry.ID+"?project_id=p4", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, ts, "/activity", url.Values{"project_id": {"p4"}})
	var entries struct {
		Results []activity.ActivityEntry `json:"results"`
	}
	decode(t, resp, &entries)
	require.Len(t, entries.Results, 2)
	require.Equal(t, activity.TypeFeedbackDeleted, entries.Results[0].ActivityType)
	require.Equal(t, activity.TypeFeedbackAdded, entries.Results[1].ActivityType)
}

func TestFeedback_WithoutAuth(t *testing.T) {
	ts := testserver.New(t)

	resp := send(t, ts, http.MethodPost, "/feedback", "", map[string]any{"project_id": "p3", "rating": 4, "comment": "Useful"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, ts, http.MethodPost, "/feedback", "", map[string]any{
		"project_id": "p3",
		"rating":     4,
		"comment":    "Useful",
		"voter":      testserver.Alice,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result catalog.FeedbackResult
	decode(t, resp, &result)

	resp = send(t, ts, http.MethodDelete, "/feedback/"+result.Entry.ID+"?project_id=p3&username=alice", "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}
