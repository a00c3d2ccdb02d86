package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ProjectList is a filtered project list.
type ProjectList struct {
	Results   []catalog.JoinedProject `json:"results"`
	Tags      []filter.Tag            `json:"tags"`
	Orderings []filter.Choice         `json:"orderings"`
	State     filter.State            `json:"state"`
	Message   string                  `json:"message,omitempty"`
}

// SponsorList is a filtered sponsor list.
type SponsorList struct {
	Results   []sponsor.Sponsor `json:"results"`
	Tags      []filter.Tag      `json:"tags"`
	Orderings []filter.Choice   `json:"orderings"`
	State     filter.State      `json:"state"`
}

// ProjectDetail is one joined project.
type ProjectDetail struct {
	Project       catalog.JoinedProject `json:"project"`
	ActivityBadge string                `json:"activity_badge,omitempty"`
}

// SponsorDetail is one sponsor and the projects it sponsors.
type SponsorDetail struct {
	Sponsor  sponsor.Sponsor `json:"sponsor"`
	Tier     string          `json:"tier"`
	Projects ProjectList     `json:"projects"`
}

// Filters lists every value a list filter accepts.
type Filters struct {
	Categories  []project.Category         `json:"categories"`
	Statuses    []project.Status           `json:"statuses"`
	RecentTypes []filter.RecentType        `json:"recent_types"`
	Orderings   map[string][]filter.Choice `json:"orderings"`
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Filters{
		Categories:  project.Categories,
		Statuses:    project.Statuses,
		RecentTypes: filter.RecentTypes,
		Orderings: map[string][]filter.Choice{
			string(catalog.KindProjects): catalog.Orderings(catalog.KindProjects),
			string(catalog.KindSponsors): catalog.Orderings(catalog.KindSponsors),
		},
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	req, err := listRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	view, err := s.svc.Pipeline.ProjectViewFor(s.svc.Catalog, req)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	var scope []catalog.Predicate
	if addr := r.URL.Query().Get("sponsor"); addr != "" {
		scope = append(scope, catalog.SponsoredBy(addr))
	}
	writeJSON(w, http.StatusOK, projectList(view, scope...))
}

func projectList(view *catalog.ProjectView, scope ...catalog.Predicate) ProjectList {
	list := ProjectList{
		Results:   view.Results(scope...),
		Tags:      nonNilTags(view.Tags()),
		Orderings: view.Orderings(),
		State:     view.State(),
	}
	if len(list.Results) == 0 {
		list.Message = catalog.EmptyResultsMessage
	}
	return list
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	jp, err := s.svc.Catalog.Project(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectDetail{Project: jp, ActivityBadge: jp.ActivityBadge(s.opts.Now())})
}

func (s *Server) handleRelatedProjects(w http.ResponseWriter, r *http.Request) {
	jp, err := s.svc.Catalog.Project(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": s.svc.Pipeline.Related(s.svc.Catalog.Joined(), jp),
	})
}

func (s *Server) handleListSponsors(w http.ResponseWriter, r *http.Request) {
	req, err := listRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	view, err := s.svc.Pipeline.SponsorViewFor(s.svc.Catalog, req)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SponsorList{
		Results:   view.Results(),
		Tags:      nonNilTags(view.Tags()),
		Orderings: view.Orderings(),
		State:     view.State(),
	})
}

func (s *Server) handleGetSponsor(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	sp, err := s.svc.Catalog.Sponsor(address)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	req, err := listRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	view, err := s.svc.Pipeline.ProjectViewFor(s.svc.Catalog, req)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, SponsorDetail{
		Sponsor:  sp,
		Tier:     sp.Tier(),
		Projects: projectList(view, catalog.SponsoredBy(address)),
	})
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	aggs, err := s.svc.Ratings.GetAllRatings(r.Context())
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": aggs})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "project_id is required")
		return
	}
	entries, err := s.svc.Feedback.List(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	if entries == nil {
		entries = []rating.Feedback{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": entries})
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := activity.ListActivityOptions{
		ProjectID: q.Get("project_id"),
		Username:  q.Get("username"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": entries})
}

type addFeedbackRequest struct {
	ProjectID string        `json:"project_id" validate:"required"`
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment"`
	Voter     *rating.Voter `json:"voter,omitempty"`
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req addFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "project_id is required")
		return
	}

	voter, ok := s.voter(r, req.Voter)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "voter required")
		return
	}

	result, err := s.svc.Feedback.Submit(r.Context(), voter, req.ProjectID, req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID := q.Get("project_id")
	if projectID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "project_id is required")
		return
	}

	var fallback *rating.Voter
	if username := q.Get("username"); username != "" {
		fallback = &rating.Voter{Username: username}
	}
	voter, ok := s.voter(r, fallback)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "voter required")
		return
	}

	if _, err := s.svc.Feedback.Delete(r.Context(), voter, projectID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// voter returns the authenticated voter, or the request's own voter when
// auth is disabled.
func (s *Server) voter(r *http.Request, fromRequest *rating.Voter) (rating.Voter, bool) {
	if v, ok := VoterFromContext(r.Context()); ok {
		return v, true
	}
	if s.opts.AuthEnabled || fromRequest == nil || strings.TrimSpace(fromRequest.Username) == "" {
		return rating.Voter{}, false
	}
	return *fromRequest, true
}

func listRequest(q url.Values) (catalog.ListRequest, error) {
	req := catalog.ListRequest{
		Query:      q.Get("query"),
		Categories: q["category"],
		Recent:     q.Get("recent"),
		Status:     q.Get("status"),
		Order:      q.Get("order"),
	}
	if raw := q.Get("rating"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return catalog.ListRequest{}, errors.New("rating must be a number")
		}
		req.Rating = &r
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.ListRequest{}, errors.New("limit must be an integer")
		}
		req.Limit = n
	}
	return req, nil
}

func nonNilTags(tags []filter.Tag) []filter.Tag {
	if tags == nil {
		return []filter.Tag{}
	}
	return tags
}
