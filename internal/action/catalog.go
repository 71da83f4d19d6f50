package action

import (
	"fmt"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"go.uber.org/zap"
)

// Trending sources accepted in Services.TrendingSource.
const (
	SourceTrakt = "trakt"
	SourceTMDB  = "tmdb"
)

// Services are the backends the action functions call.
type Services struct {
	Metadata roles.MovieMetadata
	// Reference is optional. It serves trending charts when
	// TrendingSource is SourceTMDB.
	Reference      roles.MovieReference
	TrendingSource string
}

// Catalog is the fixed set of action specs. It is built once and never
// changes afterwards.
type Catalog struct {
	specs        map[ID]Spec
	routerPrompt string
}

// NewCatalog builds the catalog on top of svc.
func NewCatalog(svc Services, logger *zap.Logger) *Catalog {
	a := &actions{svc: svc, logger: logger}

	specs := []Spec{
		{
			ID:          GetTrending,
			Description: "Get movies that are popular right now.",
			ImmediateArgs: []Arg{
				{Name: "num", Hint: "int (opt) default 3"},
				{Name: "chart", Hint: "str (opt) default trending"},
			},
			Final: a.trending,
		},
		{
			ID:          GetDetails,
			Description: "Get info on a specific movie.",
			ImmediateArgs: []Arg{
				{Name: "title", Hint: "(opt)"},
				{Name: "year", Hint: "(opt)"},
				{Name: "trakt_id", Hint: "(opt)"},
			},
			FollowUpArgs: []Arg{
				{Name: "title", Hint: "str (opt)"},
				{Name: "trakt_id", Hint: "int (opt)"},
			},
			FollowUp: a.detailsFollowUp,
			Final:    a.detailsFinal,
		},
		{
			ID:          GetSimilar,
			Description: "Get movies related to the given movie.",
			ImmediateArgs: []Arg{
				{Name: "title", Hint: "(opt)"},
				{Name: "year", Hint: "(opt)"},
				{Name: "trakt_id", Hint: "(opt)"},
				{Name: "num", Hint: "(opt)"},
			},
			ImmediateArgNotes: "One of 'title' or 'trakt_id' required.",
			Final:             a.similar,
		},
		{
			ID:          GetUserList,
			Description: "Get a list of the user's movies (i.e. their watchlist).",
			ImmediateArgs: []Arg{
				{Name: "list_type", Hint: "(req)"},
				{Name: "limit", Hint: "(opt)"},
			},
			FollowUpArgs: []Arg{
				{Name: "page", Hint: "int (opt, default 1)"},
				{Name: "genres", Hint: "[str] (opt) filter"},
				{Name: "subgenres", Hint: "[str] (opt) filter"},
				{Name: "streaming_on", Hint: "[str] (opt) streaming services filter"},
				{Name: "country", Hint: "str (opt) two-letter country code filter"},
				{Name: "runtime_range", Hint: "[int, int] (opt) min/max runtime in minutes"},
				{Name: "year_range", Hint: "[int, int] (opt) min/max release year"},
				{Name: "score_cutoff", Hint: "float (opt) minimum trakt_rating"},
				{Name: "sort_by", Hint: "one of trakt_rating, runtime, year (opt)"},
			},
			Final:         a.userList,
			FinalArgNotes: "If a user asks for more list entries, add the previous number of entries to the current page and use that as the page value.",
		},
		{
			ID:          AddOrRemoveFromWatchList,
			Description: "Add a single movie to, or remove it from, the user's watchlist.",
			ImmediateArgs: []Arg{
				{Name: "title", Hint: "(req)"},
				{Name: "trakt_id", Hint: "(opt)"},
				{Name: "mode", Hint: "(opt)"},
			},
			Final: a.updateWatchlist,
		},
	}

	c := &Catalog{specs: make(map[ID]Spec, len(specs))}
	for _, s := range specs {
		c.specs[s.ID] = s
	}
	c.routerPrompt = buildRouterPrompt(c.All())
	return c
}

// Lookup returns the spec for a model-supplied action name.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	id, ok := ParseID(name)
	if !ok {
		return Spec{}, false
	}
	s, ok := c.specs[id]
	if !ok {
		return Spec{}, false
	}
	return s.clone(), true
}

// All returns every spec in router prompt order.
func (c *Catalog) All() []Spec {
	out := make([]Spec, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.specs[id]; ok {
			out = append(out, s.clone())
		}
	}
	return out
}

// RouterPrompt returns the system prompt used to classify a user message.
func (c *Catalog) RouterPrompt() string {
	return c.routerPrompt
}

// argDetails describes the immediate args shared by several actions.
var argDetails = []Arg{
	{Name: "title (str)", Hint: "best guess movie title, **never** include the year. If the movie is unknown to you, rely on the user's words"},
	{Name: "year (int)", Hint: "movie release year"},
	{Name: "trakt_id (int)", Hint: "trakt.tv movie id. Only use one found in an earlier message for the same movie. Never invent it"},
	{Name: "num (int)", Hint: "number of movies, max 10"},
	{Name: "chart (str)", Hint: "one of 'trending', 'popular', 'anticipated', 'watched', 'boxoffice'"},
	{Name: "limit (int)", Hint: "max movies, max 100"},
	{Name: "list_type (str)", Hint: "one of 'watchlist', 'collection', 'ratings', 'history', 'comments'"},
	{Name: "mode (str)", Hint: "one of 'add' or 'remove'"},
}

func buildRouterPrompt(specs []Spec) string {
	var b strings.Builder
	b.WriteString(`You are the router of a movie recommendation agent. Select **one action** to perform based on the last two messages, giving priority to the **most recent message**.

You **must respond only** with a single JSON object with two keys:
- "action" (string): the name of the chosen action
- "args" (object): arguments for the action (an empty object if there are none)

Rules:
1. Never include any extra text, commentary or explanation.
2. Never embed the JSON inside natural language.
3. Always return a complete, valid JSON object.
4. Use natural language **if and only if** no action fits the user's most recent message.
5. You may receive "HIDDEN MEMORY" JSON. It is for your reference only. Never repeat it in your reply.
6. Never make up trakt.tv ids. Only reuse ids from earlier messages that belong to the target movie.

These are your actions:

`)

	var filters []Arg
	for _, s := range specs {
		fmt.Fprintf(&b, "- %s: %s", s.ID, s.Description)

		names := make([]string, 0, len(s.ImmediateArgs)+1)
		for _, a := range s.ImmediateArgs {
			names = append(names, a.Name)
		}
		if s.FollowUp == nil && len(s.FollowUpArgs) > 0 {
			names = append(names, "filters")
			filters = append(filters, s.FollowUpArgs...)
		}
		if len(names) > 0 {
			fmt.Fprintf(&b, " (args: %s)", strings.Join(names, ", "))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\nArg details:\n")
	for _, a := range argDetails {
		fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Hint)
	}
	if len(filters) > 0 {
		b.WriteString("- filters: optional keys placed directly in args:\n")
		for _, a := range filters {
			fmt.Fprintf(&b, "  - %s: %s\n", a.Name, a.Hint)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
