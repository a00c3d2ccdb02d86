package mcp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/mcp"
	"github.com/Transcranial-Solutions/iconpreps/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := ts.MCP.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text := res.Content[0].(*sdkmcp.TextContent).Text
	require.False(t, res.IsError, "tool error: %s", text)
	require.NoError(t, json.Unmarshal([]byte(text), out))
}

func callToolError(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	return res.Content[0].(*sdkmcp.TextContent).Text
}

func projectIDs(projects []catalog.JoinedProject) []string {
	ids := make([]string, 0, len(projects))
	for _, jp := range projects {
		ids = append(ids, jp.ID)
	}
	return ids
}

var alice = map[string]any{"username": "alice", "level": 2, "can_submit_feedback": true}

func TestServer_ToolsAndDocs(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"search_projects", "get_project", "search_sponsors", "get_sponsor",
		"get_feedback", "add_feedback", "delete_feedback", "get_recent_activity",
		"browse_type_query", "browse_set_filters", "browse_remove_tag", "browse_results",
	}, names)

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 4)

	doc, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "preps://docs/filters"})
	require.NoError(t, err)
	require.Len(t, doc.Contents, 1)
	require.Contains(t, doc.Contents[0].Text, "# Filters")
}

func TestSearchProjects(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var list mcp.ProjectList
	callTool(t, session, "search_projects", map[string]any{"categories": []string{"Development"}, "order": "Newest"}, &list)
	require.Equal(t, []string{"p1", "p3"}, projectIDs(list.Results))
	require.Equal(t, []string{"Development"}, list.Tags)
	require.Len(t, list.Orderings, 2)

	callTool(t, session, "search_projects", map[string]any{"query": "ACADEMY"}, &list)
	require.Equal(t, []string{"p2"}, projectIDs(list.Results))
	require.Equal(t, []string{"Search for: ACADEMY"}, list.Tags)

	callTool(t, session, "search_projects", map[string]any{"rating": 4}, &list)
	require.Equal(t, []string{"p1"}, projectIDs(list.Results))
	require.Equal(t, 4.0, list.Results[0].Rating)

	callTool(t, session, "search_projects", map[string]any{"recent": "Updated", "order": "Newest"}, &list)
	require.Equal(t, []string{"p2", "p1"}, projectIDs(list.Results))

	callTool(t, session, "search_projects", map[string]any{"sponsor": "hx2", "order": "Newest", "limit": 1}, &list)
	require.Equal(t, []string{"p2"}, projectIDs(list.Results))

	callTool(t, session, "search_projects", map[string]any{"query": "nothing matches this"}, &list)
	require.Empty(t, list.Results)
	require.Equal(t, catalog.EmptyResultsMessage, list.Message)

	require.Contains(t, callToolError(t, session, "search_projects", map[string]any{"order": "Oldest"}), "UNKNOWN_ORDER")
	require.Contains(t, callToolError(t, session, "search_projects", map[string]any{"categories": []string{"Gaming"}}), "INVALID_FILTER")
	require.Contains(t, callToolError(t, session, "search_projects", map[string]any{"rating": 7}), "INVALID_FILTER")
}

func TestGetProject(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var detail mcp.ProjectDetail
	callTool(t, session, "get_project", map[string]any{"id": "p1"}, &detail)
	require.Equal(t, "ICON Wallet", detail.Project.Name)
	require.Equal(t, 4.0, detail.Project.Rating)
	require.Equal(t, 2, detail.Project.RatingCount)
	require.NotNil(t, detail.Project.Sponsor)
	require.Equal(t, "Node Alpha", detail.Project.Sponsor.Name)
	require.Equal(t, catalog.BadgeRecentlyUpdated, detail.ActivityBadge)
	require.Equal(t, []string{"p3"}, projectIDs(detail.Related))

	callTool(t, session, "get_project", map[string]any{"id": "p2"}, &detail)
	require.Equal(t, catalog.BadgeRecentlyCreated, detail.ActivityBadge)
	require.Zero(t, detail.Project.Rating)

	require.Contains(t, callToolError(t, session, "get_project", map[string]any{"id": "missing"}), "PROJECT_NOT_FOUND")
}

func TestSponsors(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var list mcp.SponsorList
	callTool(t, session, "search_sponsors", map[string]any{"order": "Rank"}, &list)
	require.Len(t, list.Results, 2)
	require.Equal(t, "hx1", list.Results[0].Address)
	require.Equal(t, "hx2", list.Results[1].Address)

	callTool(t, session, "search_sponsors", map[string]any{"categories": []string{"Education"}}, &list)
	require.Len(t, list.Results, 1)
	require.Equal(t, "hx2", list.Results[0].Address)

	var detail mcp.SponsorDetail
	callTool(t, session, "get_sponsor", map[string]any{"address": "hx1"}, &detail)
	require.Equal(t, "Main", detail.Tier)
	require.ElementsMatch(t, []string{"p1", "p3"}, projectIDs(detail.Projects.Results))

	callTool(t, session, "get_sponsor", map[string]any{"address": "hx1", "status": "Proposed"}, &detail)
	require.Equal(t, []string{"p3"}, projectIDs(detail.Projects.Results))
	require.Equal(t, []string{"Proposed"}, detail.Projects.Tags)

	callTool(t, session, "get_sponsor", map[string]any{"address": "hx2"}, &detail)
	require.Equal(t, "Sub", detail.Tier)

	require.Contains(t, callToolError(t, session, "get_sponsor", map[string]any{"address": "hx9"}), "SPONSOR_NOT_FOUND")
}

func TestFeedbackLifecycle(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var added catalog.FeedbackResult
	callTool(t, session, "add_feedback", map[string]any{
		"project_id": "p4",
		"rating":     4,
		"comment":    "Great meetups",
		"voter":      alice,
	}, &added)
	require.NotNil(t, added.Entry)
	require.Equal(t, "alice", added.Entry.Username)
	require.Len(t, added.Feedback, 1)
	require.NotNil(t, added.Project)
	require.Equal(t, 4.0, added.Project.Rating)

	var feedback mcp.FeedbackList
	callTool(t, session, "get_feedback", map[string]any{"project_id": "p1"}, &feedback)
	require.Len(t, feedback.Feedback, 2)
	require.Equal(t, "f2", feedback.Feedback[0].ID)

	var activity mcp.ActivityList
	callTool(t, session, "get_recent_activity", map[string]any{"project_id": "p4"}, &activity)
	require.Len(t, activity.Entries, 1)
	require.Equal(t, "alice", activity.Entries[0].Username)

	require.Contains(t, callToolError(t, session, "delete_feedback", map[string]any{
		"project_id":  "p1",
		"feedback_id": "f1",
		"voter":       alice,
	}), "NOT_OWNER")

	var deleted mcp.DeleteFeedbackResult
	callTool(t, session, "delete_feedback", map[string]any{
		"project_id":  "p4",
		"feedback_id": added.Entry.ID,
		"voter":       alice,
	}, &deleted)
	require.Equal(t, added.Entry.ID, deleted.Deleted)
	require.Empty(t, deleted.Feedback)

	jp, err := ts.Catalog.Project("p4")
	require.NoError(t, err)
	require.Zero(t, jp.Rating)
}

func TestAddFeedback_Rejections(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	bob := map[string]any{"username": "bob", "level": 0, "can_submit_feedback": false}
	cases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no voter", map[string]any{"project_id": "p1", "rating": 5, "comment": "ok"}, "UNAUTHORIZED"},
		{"not eligible", map[string]any{"project_id": "p1", "rating": 5, "comment": "ok", "voter": bob}, "NOT_ELIGIBLE"},
		{"no rating", map[string]any{"project_id": "p1", "comment": "ok", "voter": alice}, "You must choose a rating."},
		{"no comment", map[string]any{"project_id": "p1", "rating": 5, "voter": alice}, "You must enter a feedback comment."},
		{"unknown project", map[string]any{"project_id": "nope", "rating": 5, "comment": "ok", "voter": alice}, "PROJECT_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Contains(t, callToolError(t, session, "add_feedback", tc.args), tc.want)
		})
	}
}

func TestBrowse_FiltersAndTags(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var view mcp.BrowseView
	callTool(t, session, "browse_set_filters", map[string]any{"categories": []string{"Development"}, "order": "Newest"}, &view)
	require.Equal(t, catalog.KindProjects, view.List)
	require.Equal(t, []string{"p1", "p3"}, projectIDs(view.Projects))
	require.Equal(t, []string{"Development"}, view.Tags)

	var typed mcp.BrowseTyped
	callTool(t, session, "browse_type_query", map[string]any{"text": "bridge"}, &typed)
	require.Equal(t, "bridge", typed.Pending)
	require.Equal(t, int64(400), typed.DelayMS)

	callTool(t, session, "browse_results", map[string]any{}, &view)
	require.Equal(t, "bridge", view.Pending)
	require.Equal(t, []string{"p1", "p3"}, projectIDs(view.Projects))

	callTool(t, session, "browse_results", map[string]any{"settle": true}, &view)
	require.Equal(t, []string{"p3"}, projectIDs(view.Projects))
	require.Equal(t, []string{"Search for: bridge", "Development"}, view.Tags)

	callTool(t, session, "browse_remove_tag", map[string]any{"label": "Search for: bridge"}, &view)
	require.Empty(t, view.Pending)
	require.Empty(t, view.State.Query)
	require.Equal(t, []string{"p1", "p3"}, projectIDs(view.Projects))

	callTool(t, session, "browse_set_filters", map[string]any{"clear": []string{"categories"}, "limit": 2}, &view)
	require.Empty(t, view.Tags)
	require.Equal(t, []string{"p2", "p4"}, projectIDs(view.Projects))

	require.Contains(t, callToolError(t, session, "browse_remove_tag", map[string]any{"label": "Education"}), "TAG_NOT_FOUND")
	require.Contains(t, callToolError(t, session, "browse_set_filters", map[string]any{"list": "sponsors", "rating": 3}), "INVALID_FILTER")
	require.Contains(t, callToolError(t, session, "browse_set_filters", map[string]any{"list": "sponsors", "clear": []string{"status"}}), "INVALID_FILTER")
	require.Contains(t, callToolError(t, session, "browse_results", map[string]any{"list": "people"}), "INVALID_FILTER")
}

func TestBrowse_DebouncedQuery(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var typed mcp.BrowseTyped
	for _, text := range []string{"w", "wa", "wallet"} {
		callTool(t, session, "browse_type_query", map[string]any{"list": "projects", "text": text}, &typed)
	}
	require.Equal(t, "wallet", typed.Pending)

	projects := ts.Browse.Get(typed.SessionID).Projects
	require.Empty(t, projects.State().Query)

	ts.Clock.Add(400 * time.Millisecond)
	require.Eventually(t, func() bool {
		return projects.State().Query == "wallet"
	}, time.Second, 10*time.Millisecond)

	var view mcp.BrowseView
	callTool(t, session, "browse_results", map[string]any{}, &view)
	require.Equal(t, []string{"p1"}, projectIDs(view.Projects))
	require.Equal(t, "wallet", view.Pending)
}

func TestBrowse_SponsorList(t *testing.T) {
	ts := testserver.New(t)
	session := connect(t, ts)

	var view mcp.BrowseView
	callTool(t, session, "browse_set_filters", map[string]any{"list": "sponsors", "order": "Rank", "categories": []string{"Development"}}, &view)
	require.Equal(t, catalog.KindSponsors, view.List)
	require.Len(t, view.Sponsors, 1)
	require.Equal(t, "hx1", view.Sponsors[0].Address)

	callTool(t, session, "browse_remove_tag", map[string]any{"list": "sponsors", "label": "Development"}, &view)
	require.Len(t, view.Sponsors, 2)
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(r)
}

func TestStreamableHTTP_VoterFromToken(t *testing.T) {
	ts := testserver.New(t, testserver.WithAuth())
	ctx := context.Background()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: ts.Token(t, testserver.Alice)}},
	}, nil)
	require.NoError(t, err)
	defer session.Close()

	var added catalog.FeedbackResult
	callTool(t, session, "add_feedback", map[string]any{"project_id": "p3", "rating": 2, "comment": "Needs a roadmap"}, &added)
	require.Equal(t, "alice", added.Entry.Username)

	anonymous := connect(t, ts)
	require.Contains(t, callToolError(t, anonymous, "add_feedback", map[string]any{
		"project_id": "p3", "rating": 2, "comment": "again", "voter": alice,
	}), "UNAUTHORIZED")
}
