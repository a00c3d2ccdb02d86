package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/browse"
	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
	"github.com/Transcranial-Solutions/iconpreps/internal/search"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolset struct {
	svc          Services
	authRequired bool
	now          func() time.Time
}

func registerTools(server *sdkmcp.Server, t *toolset) {
	// Directory
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_projects",
		Description: "Filter and order the project directory. Returns results, active filter tags and the available orderings",
	}, t.searchProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project with its sponsor, average rating, activity badge and up to 3 related projects",
	}, t.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_sponsors",
		Description: "Filter and order the sponsor (P-Rep) directory",
	}, t.searchSponsors)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_sponsor",
		Description: "Get one sponsor, its tier and the projects it sponsors",
	}, t.getSponsor)

	// Feedback
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_feedback",
		Description: "List a project's feedback, most recently updated first",
	}, t.getFeedback)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_feedback",
		Description: "Rate a project from 1 to 5 stars with a comment. The voter must be eligible",
	}, t.addFeedback)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_feedback",
		Description: "Delete one of the voter's own feedback entries",
	}, t.deleteFeedback)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent feedback and import activity, newest first",
	}, t.getRecentActivity)

	// Browse sessions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "browse_type_query",
		Description: "Type into the session's search box. The query is applied after a short quiet period; later input replaces earlier input",
	}, t.browseTypeQuery)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "browse_set_filters",
		Description: "Change the session list's category, rating, recency, status, order or limit",
	}, t.browseSetFilters)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "browse_remove_tag",
		Description: "Remove one active filter from the session list by its tag label",
	}, t.browseRemoveTag)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "browse_results",
		Description: "Read the session list: results, tags, orderings and the pending search text",
	}, t.browseResults)
}

func (t *toolset) searchProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in SearchProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	view, err := t.svc.Pipeline.ProjectViewFor(t.svc.Catalog, catalog.ListRequest{
		Query:      in.Query,
		Categories: in.Categories,
		Rating:     in.Rating,
		Recent:     in.Recent,
		Status:     in.Status,
		Order:      in.Order,
		Limit:      in.Limit,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	var scope []catalog.Predicate
	if in.Sponsor != "" {
		scope = append(scope, catalog.SponsoredBy(in.Sponsor))
	}
	return jsonResult(projectList(view, scope...))
}

func (t *toolset) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
	jp, err := t.svc.Catalog.Project(in.ID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ProjectDetail{
		Project:       jp,
		ActivityBadge: jp.ActivityBadge(t.now()),
		Related:       t.svc.Pipeline.Related(t.svc.Catalog.Joined(), jp),
	})
}

func (t *toolset) searchSponsors(ctx context.Context, _ *sdkmcp.CallToolRequest, in SearchSponsorsParams) (*sdkmcp.CallToolResult, any, error) {
	view, err := t.svc.Pipeline.SponsorViewFor(t.svc.Catalog, catalog.ListRequest{
		Query:      in.Query,
		Categories: in.Categories,
		Order:      in.Order,
		Limit:      in.Limit,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(SponsorList{
		Results:   view.Results(),
		Tags:      tagLabels(view.Tags()),
		Orderings: view.Orderings(),
		State:     view.State(),
	})
}

func (t *toolset) getSponsor(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetSponsorParams) (*sdkmcp.CallToolResult, any, error) {
	sp, err := t.svc.Catalog.Sponsor(in.Address)
	if err != nil {
		return nil, nil, MapError(err)
	}
	view, err := t.svc.Pipeline.ProjectViewFor(t.svc.Catalog, catalog.ListRequest{
		Query:      in.Query,
		Categories: in.Categories,
		Status:     in.Status,
		Limit:      in.Limit,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(SponsorDetail{
		Sponsor:  sp,
		Tier:     sp.Tier(),
		Projects: projectList(view, catalog.SponsoredBy(in.Address)),
	})
}

func (t *toolset) getFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetFeedbackParams) (*sdkmcp.CallToolResult, any, error) {
	entries, err := t.svc.Feedback.List(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	if entries == nil {
		entries = []rating.Feedback{}
	}
	return jsonResult(FeedbackList{ProjectID: in.ProjectID, Feedback: entries})
}

func (t *toolset) addFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddFeedbackParams) (*sdkmcp.CallToolResult, any, error) {
	voter, err := t.voter(ctx, in.Voter)
	if err != nil {
		return nil, nil, err
	}
	result, err := t.svc.Feedback.Submit(ctx, voter, in.ProjectID, in.Rating, in.Comment)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(result)
}

func (t *toolset) deleteFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteFeedbackParams) (*sdkmcp.CallToolResult, any, error) {
	voter, err := t.voter(ctx, in.Voter)
	if err != nil {
		return nil, nil, err
	}
	result, err := t.svc.Feedback.Delete(ctx, voter, in.ProjectID, in.FeedbackID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(DeleteFeedbackResult{Deleted: in.FeedbackID, Feedback: result.Feedback})
}

func (t *toolset) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
	if in.Limit < 0 {
		return nil, nil, &APIError{Code: "INVALID_FILTER", Message: "limit must not be negative"}
	}
	entries, err := t.svc.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{
		ProjectID: in.ProjectID,
		Username:  in.Username,
		Limit:     in.Limit,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	return jsonResult(ActivityList{Entries: entries})
}

func (t *toolset) browseTypeQuery(ctx context.Context, _ *sdkmcp.CallToolRequest, in BrowseTypeQueryParams) (*sdkmcp.CallToolResult, any, error) {
	kind, err := listKind(in.List)
	if err != nil {
		return nil, nil, err
	}
	session := t.svc.Browse.Get(getSessionID(ctx))
	coord := coordinatorFor(session, kind)
	coord.Type(in.Text)
	return jsonResult(BrowseTyped{
		SessionID: session.ID,
		List:      kind,
		Pending:   coord.Pending(),
		DelayMS:   coord.Delay().Milliseconds(),
	})
}

func (t *toolset) browseSetFilters(ctx context.Context, _ *sdkmcp.CallToolRequest, in BrowseSetFiltersParams) (*sdkmcp.CallToolResult, any, error) {
	kind, err := listKind(in.List)
	if err != nil {
		return nil, nil, err
	}
	if in.Limit < 0 {
		return nil, nil, MapError(catalog.ErrInvalidLimit)
	}
	clears, err := clearActions(kind, in.Clear)
	if err != nil {
		return nil, nil, err
	}
	actions, err := t.svc.Pipeline.Actions(kind, catalog.ListRequest{
		Categories: in.Categories,
		Rating:     in.Rating,
		Recent:     in.Recent,
		Status:     in.Status,
		Order:      in.Order,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}

	session := t.svc.Browse.Get(getSessionID(ctx))
	dispatch, setLimit := session.Projects.Dispatch, session.Projects.SetLimit
	if kind == catalog.KindSponsors {
		dispatch, setLimit = session.Sponsors.Dispatch, session.Sponsors.SetLimit
	}
	for _, a := range append(clears, actions...) {
		dispatch(a)
	}
	if in.Limit > 0 {
		if err := setLimit(in.Limit); err != nil {
			return nil, nil, MapError(err)
		}
	}
	return jsonResult(browseView(session, kind))
}

func (t *toolset) browseRemoveTag(ctx context.Context, _ *sdkmcp.CallToolRequest, in BrowseRemoveTagParams) (*sdkmcp.CallToolResult, any, error) {
	kind, err := listKind(in.List)
	if err != nil {
		return nil, nil, err
	}
	session := t.svc.Browse.Get(getSessionID(ctx))
	tags := session.Projects.Tags()
	if kind == catalog.KindSponsors {
		tags = session.Sponsors.Tags()
	}
	i := slices.IndexFunc(tags, func(tag filter.Tag) bool { return tag.Label == in.Label })
	if i < 0 {
		return nil, nil, &APIError{
			Code:         "TAG_NOT_FOUND",
			Message:      fmt.Sprintf("no active tag %q", in.Label),
			RecoveryHint: "Call browse_results for the current tags",
		}
	}
	tags[i].Remove()
	return jsonResult(browseView(session, kind))
}

func (t *toolset) browseResults(ctx context.Context, _ *sdkmcp.CallToolRequest, in BrowseResultsParams) (*sdkmcp.CallToolResult, any, error) {
	kind, err := listKind(in.List)
	if err != nil {
		return nil, nil, err
	}
	session := t.svc.Browse.Get(getSessionID(ctx))
	if in.Settle {
		coordinatorFor(session, kind).Flush()
	}
	return jsonResult(browseView(session, kind))
}

// voter returns the authenticated voter, or the caller-supplied voter when
// auth is off.
func (t *toolset) voter(ctx context.Context, fromArgs *rating.Voter) (rating.Voter, error) {
	if v, ok := getVoter(ctx); ok {
		return v, nil
	}
	if t.authRequired || fromArgs == nil || strings.TrimSpace(fromArgs.Username) == "" {
		return rating.Voter{}, errUnauthorized
	}
	return *fromArgs, nil
}

func listKind(raw string) (catalog.Kind, error) {
	switch catalog.Kind(raw) {
	case "", catalog.KindProjects:
		return catalog.KindProjects, nil
	case catalog.KindSponsors:
		return catalog.KindSponsors, nil
	}
	return "", &APIError{Code: "INVALID_FILTER", Message: fmt.Sprintf("unknown list %q", raw), RecoveryHint: "Use projects or sponsors"}
}

// clearActions maps filter names to the actions that clear them. Sponsor
// lists only carry a category filter besides the query.
func clearActions(kind catalog.Kind, names []string) ([]filter.Action, error) {
	var actions []filter.Action
	for _, name := range names {
		var a filter.Action
		switch name {
		case "categories":
			a = filter.SetCategories{}
		case "rating":
			a = filter.SetRating{}
		case "recent":
			a = filter.SetRecent{}
		case "status":
			a = filter.SetStatus{}
		default:
			return nil, &APIError{Code: "INVALID_FILTER", Message: fmt.Sprintf("cannot clear %q", name)}
		}
		if kind == catalog.KindSponsors && name != "categories" {
			return nil, &APIError{Code: "INVALID_FILTER", Message: fmt.Sprintf("sponsor lists have no %s filter", name)}
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func coordinatorFor(s *browse.Session, kind catalog.Kind) *search.Coordinator {
	if kind == catalog.KindSponsors {
		return s.SponsorSearch
	}
	return s.ProjectSearch
}

func browseView(s *browse.Session, kind catalog.Kind) BrowseView {
	if kind == catalog.KindSponsors {
		return BrowseView{
			SessionID: s.ID,
			List:      kind,
			Pending:   s.SponsorSearch.Pending(),
			Sponsors:  s.Sponsors.Results(),
			Tags:      tagLabels(s.Sponsors.Tags()),
			Orderings: s.Sponsors.Orderings(),
			State:     s.Sponsors.State(),
		}
	}
	list := projectList(s.Projects)
	return BrowseView{
		SessionID: s.ID,
		List:      kind,
		Pending:   s.ProjectSearch.Pending(),
		Projects:  list.Results,
		Tags:      list.Tags,
		Orderings: list.Orderings,
		State:     list.State,
		Message:   list.Message,
	}
}

func projectList(view *catalog.ProjectView, scope ...catalog.Predicate) ProjectList {
	list := ProjectList{
		Results:   view.Results(scope...),
		Tags:      tagLabels(view.Tags()),
		Orderings: view.Orderings(),
		State:     view.State(),
	}
	if len(list.Results) == 0 {
		list.Message = catalog.EmptyResultsMessage
	}
	return list
}

func tagLabels(tags []filter.Tag) []string {
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		labels = append(labels, tag.Label)
	}
	return labels
}

// jsonResult renders v as the tool's text content.
func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
