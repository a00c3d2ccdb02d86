package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `iconpreps is a directory of ICON ecosystem projects and the P-Reps (sponsors) backing them.

Core concepts:
- Project: a funded project with a category, a status, a sponsor address and an average rating.
- Sponsor: a P-Rep, identified by wallet address and ranked by delegation.
- Filter state: query, categories, minimum rating, recency, status, order and limit. Every list is this state run through filter, order and truncate.
- Tag: a label for one active filter. Removing a tag clears that filter.

One-shot lookups:
- search_projects / search_sponsors take the whole filter state in one call.
- get_project / get_sponsor return details; get_feedback and get_recent_activity read feedback history.

Browse sessions (stateful, one per MCP session):
1) browse_set_filters to select categories, rating, recency, status, order and limit.
2) browse_type_query as the user types. The query applies after a quiet period and the latest input wins.
3) browse_results to read the list. Pass settle=true to apply pending input immediately.
4) browse_remove_tag with a label from browse_results to drop one filter.

Feedback:
- add_feedback needs a rating from 1 to 5 and a comment. Over HTTP with auth the voter comes from the bearer token.
- delete_feedback removes the voter's own entry.

Docs:
- preps://docs/filters
- preps://docs/orderings
- preps://docs/browse
- preps://docs/feedback
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "preps://docs/filters",
		Name:        "docs_filters",
		Title:       "Filter model",
		Description: "The filter state, how each filter matches and the order tags are listed in.",
		Content: `# Filters

A list is its filter state run through three steps: filter, order, truncate to limit.

| Filter | Matches when |
|---|---|
| query | name or description contains the text, ignoring case |
| categories | the project's category is any selected category (empty selects all) |
| rating | the average rating is at least the threshold (0 to 5) |
| recent | Created or Updated date falls within the last 7 days |
| status | the project's status equals the selected one |

Sponsor lists filter by query (name) and by the categories of
the projects each sponsor backs. Rating, recency and status do not apply to sponsors.

## Tags

Active filters are reported as tags in this order: the query ("Search for: x"),
each category, the rating ("4 stars & up"), recency ("Created recently"), status.
Removing a tag clears exactly that filter.

## Empty lists

A project list with no results carries the message
"No projects found matching the search criteria.".
`,
	},
	{
		URI:         "preps://docs/orderings",
		Name:        "docs_orderings",
		Title:       "Orderings",
		Description: "Ordering keys for project and sponsor lists.",
		Content: `# Orderings

| List | Key | Order |
|---|---|---|
| projects | Random | shuffled (default) |
| projects | Newest | created date, newest first |
| sponsors | Random | shuffled (default) |
| sponsors | Rank | delegation rank, ascending |

Keys are case sensitive. Unknown keys are rejected with UNKNOWN_ORDER. Ties keep catalog order.
`,
	},
	{
		URI:         "preps://docs/browse",
		Name:        "docs_browse",
		Title:       "Browse sessions",
		Description: "Stateful project and sponsor lists with debounced search input.",
		Content: `# Browse sessions

Each MCP session owns a project list and a sponsor list. The session is keyed by the
Mcp-Session-Id header over HTTP, or _meta.session_id over stdio. Idle sessions expire.

## Search input

browse_type_query records the whole input text. The list's query changes only after a
quiet period with no further input, so "a", "ab", "abc" in quick succession applies "abc"
once. Removing the query tag clears both the query and the pending input.

## Reading

browse_results returns results, tags, orderings, the filter state and the pending input.
settle=true applies pending input first.
`,
	},
	{
		URI:         "preps://docs/feedback",
		Name:        "docs_feedback",
		Title:       "Feedback",
		Description: "Rules for adding and deleting project feedback.",
		Content: `# Feedback

- A voter must be eligible (enough delegated ICX) to leave feedback: NOT_ELIGIBLE otherwise.
- A rating from 1 to 5 is required, then a non-empty comment: VALIDATION_ERROR otherwise.
- Only the author can delete an entry: NOT_OWNER otherwise.
- One mutation per voter and project runs at a time: BUSY while one is in flight.
- After a change the project's average rating and feedback list are refreshed.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
