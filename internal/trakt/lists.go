package trakt

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"go.uber.org/zap"
)

// TopicListUpdated is published after every sync call against a user list.
const TopicListUpdated = "trakt.list.updated"

// ListUpdatedEvent is the payload of TopicListUpdated.
type ListUpdatedEvent struct {
	Target  models.ListKind `json:"target"`
	Mode    models.ListMode `json:"mode"`
	Updated []string        `json:"updated"`
	Failed  []string        `json:"failed"`
}

var chartPaths = map[models.Chart]string{
	models.ChartTrending:    "/movies/trending",
	models.ChartPopular:     "/movies/popular",
	models.ChartAnticipated: "/movies/anticipated",
	models.ChartWatched:     "/movies/watched/weekly",
	models.ChartBoxOffice:   "/movies/boxoffice",
}

var listPaths = map[models.ListKind]string{
	models.ListWatchlist:  "/sync/watchlist/movies",
	models.ListCollection: "/sync/collection/movies",
	models.ListRatings:    "/sync/ratings/movies",
	models.ListHistory:    "/sync/history/movies",
	models.ListComments:   "/users/me/comments/movies",
}

const (
	reducedChartSize = 8  // Charts this long skip directors and trim cast.
	richListSize     = 10 // Filtered user lists up to this size keep full fields.
	creditsListSize  = 5  // Filtered user lists shorter than this get credits.
)

// TopMovies returns the first num (at most 10) movies of a chart, each
// with its leading cast. Short charts also carry the director.
func (s *Service) TopMovies(ctx context.Context, chart models.Chart, num int) (models.MovieList, error) {
	path, ok := chartPaths[chart]
	if !ok {
		return models.MovieList{}, fmt.Errorf("unknown chart %q", chart)
	}
	num = min(max(num, 1), 10)

	var entries []Entry
	query := url.Values{"extended": {"full"}, "limit": {strconv.Itoa(num)}}
	if err := s.client.get(ctx, "chart", path, query, &entries); err != nil {
		return models.MovieList{}, fmt.Errorf("%s chart: %w", chart, err)
	}
	entries = entries[:min(len(entries), num)]

	reduced := num >= reducedChartSize
	castCount := 5
	if reduced {
		castCount = 3
	}

	movies := make([]models.Movie, len(entries))
	for i, e := range entries {
		movies[i] = mapMovie(e.Movie, nil, nil, chartFields)
	}
	err := s.addCredits(ctx, entries, movies, castCount, !reduced)
	if err != nil {
		return models.MovieList{}, err
	}
	return models.MovieList{Movies: movies}, nil
}

// addCredits fetches /people for every entry in parallel and fills cast
// (and optionally director) on the matching movie.
func (s *Service) addCredits(ctx context.Context, entries []Entry, movies []models.Movie, castCount int, director bool) error {
	g, gctx := s.group(ctx)
	for i, e := range entries {
		if e.Movie.IDs.Trakt == 0 {
			continue
		}
		g.Go(func() error {
			var p People
			path := "/movies/" + strconv.Itoa(e.Movie.IDs.Trakt) + "/people"
			if err := s.client.get(gctx, "people", path, nil, &p); err != nil {
				return fmt.Errorf("credits for %q: %w", e.Movie.Title, err)
			}
			movies[i].Cast = p.castNames(castCount)
			if director {
				movies[i].Director = first(p.names("directing", "Director"))
			}
			return nil
		})
	}
	return g.Wait()
}

// UserList fetches one page of the user's list, filters it on the raw
// records, maps the survivors (richer fields for short results) and
// sorts them when asked.
func (s *Service) UserList(ctx context.Context, q models.ListQuery) (models.MovieList, error) {
	if q.Kind == "" {
		q.Kind = models.ListWatchlist
	}
	path, ok := listPaths[q.Kind]
	if !ok {
		return models.MovieList{}, fmt.Errorf("unknown list %q", q.Kind)
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	q.Limit = min(q.Limit, 100)
	q.Page = max(q.Page, 1)

	var entries []Entry
	query := url.Values{
		"extended": {"full"},
		"limit":    {strconv.Itoa(q.Limit)},
		"page":     {strconv.Itoa(q.Page)},
	}
	if err := s.client.getUser(ctx, "user_list", path, query, &entries); err != nil {
		return models.MovieList{}, fmt.Errorf("%s list: %w", q.Kind, err)
	}

	var kept []Entry
	for _, e := range entries {
		if matches(e.Movie, q) {
			kept = append(kept, e)
		}
	}
	kept = kept[:min(len(kept), q.Limit)]

	sel := leanListFields
	if len(kept) <= richListSize {
		sel = listFields
	}
	if q.SortBy != models.SortNone {
		sel = sel.with(string(q.SortBy))
	}

	movies := make([]models.Movie, len(kept))
	for i, e := range kept {
		movies[i] = mapMovie(e.Movie, nil, nil, sel)
		if q.Kind == models.ListRatings {
			movies[i].UserRating = e.UserRating
		}
		if q.Kind == models.ListComments && e.Comment != "" {
			movies[i].Comments = []string{e.Comment}
		}
	}

	if len(kept) < creditsListSize {
		if err := s.addCredits(ctx, kept, movies, 5, true); err != nil {
			return models.MovieList{}, err
		}
	}

	sortMovies(movies, q.SortBy)
	return models.MovieList{Movies: movies}, nil
}

// matches applies every filter set on q to a raw record.
func matches(m TraktMovie, q models.ListQuery) bool {
	if len(q.Genres) > 0 && !anyFold(q.Genres, m.Genres) {
		return false
	}
	if len(q.Subgenres) > 0 && !anyFold(q.Subgenres, m.Subgenres) {
		return false
	}
	// Trakt records carry no streaming data, so a streaming filter
	// excludes everything.
	if len(q.StreamingOn) > 0 {
		return false
	}
	if q.Country != "" && (m.Country == "" || !strings.Contains(strings.ToLower(m.Country), strings.ToLower(q.Country))) {
		return false
	}
	if q.RuntimeRange != nil {
		runtime := 0
		if m.Runtime != nil {
			runtime = *m.Runtime
		}
		if !q.RuntimeRange.Contains(runtime) {
			return false
		}
	}
	if q.YearRange != nil && m.Year != nil && !q.YearRange.Contains(*m.Year) {
		return false
	}
	if q.ScoreCutoff != nil && *q.ScoreCutoff != 0 {
		if m.Rating == nil || *m.Rating < *q.ScoreCutoff {
			return false
		}
	}
	return true
}

// anyFold reports whether any wanted term equals one of have, ignoring case.
func anyFold(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}

// sortMovies orders movies by key, highest first. Missing values sort as
// zero; equal keys keep list order.
func sortMovies(movies []models.Movie, key models.SortKey) {
	var value func(m models.Movie) float64
	switch key {
	case models.SortRating:
		value = func(m models.Movie) float64 { return deref(m.TraktRating) }
	case models.SortRuntime:
		value = func(m models.Movie) float64 { return float64(deref(m.Runtime)) }
	case models.SortYear:
		value = func(m models.Movie) float64 { return float64(deref(m.Year)) }
	default:
		return
	}
	slices.SortStableFunc(movies, func(a, b models.Movie) int {
		return cmp.Compare(value(b), value(a))
	})
}

func deref[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}

// resolvedItem is a list update item after its Trakt id is known.
type resolvedItem struct {
	title string
	id    int
}

// UpdateList adds or removes movies on a user list with a single sync
// call and reports the outcome of every item. Titles are resolved first;
// items that cannot be resolved are reported, never dropped.
func (s *Service) UpdateList(ctx context.Context, u models.ListUpdate) (models.ListActionResult, error) {
	if u.Target == "" {
		u.Target = models.ListWatchlist
	}
	if u.Mode == "" {
		u.Mode = models.ListAdd
	}
	if _, ok := listPaths[u.Target]; !ok || u.Target == models.ListComments {
		return models.ListActionResult{}, fmt.Errorf("list %q cannot be updated", u.Target)
	}

	res := models.ListActionResult{
		ActionName:                string(u.Mode) + "_to_list",
		TargetList:                string(u.Target),
		SuccessfullyUpdatedTitles: []string{},
		NonUpdatedErrorTitles:     []string{},
	}
	var messages []string
	fail := func(title, msg string) {
		res.NonUpdatedErrorTitles = append(res.NonUpdatedErrorTitles, title)
		messages = append(messages, msg)
	}

	var items []resolvedItem
	for _, q := range u.Items {
		item, msg, err := s.resolve(ctx, q)
		if err != nil {
			return models.ListActionResult{}, err
		}
		if msg != "" {
			fail(itemName(q), msg)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		messages = append(messages, "No valid movies could be processed for this action.")
		res.Message = strings.Join(messages, "\n")
		return res, nil
	}

	req := syncRequest{}
	for _, it := range items {
		req.Movies = append(req.Movies, newSyncItem(it.id))
	}
	path := "/sync/" + string(u.Target)
	if u.Mode == models.ListRemove {
		path += "/remove"
	}
	var resp SyncResponse
	if err := s.client.postUser(ctx, "sync", path, req, &resp); err != nil {
		return models.ListActionResult{}, fmt.Errorf("sync %s: %w", u.Target, err)
	}

	tally := newSyncTally(resp, u.Mode)
	for _, it := range items {
		switch tally.outcome(it.id) {
		case syncDone:
			res.SuccessfullyUpdatedTitles = append(res.SuccessfullyUpdatedTitles, it.title)
			verb := "added to"
			if u.Mode == models.ListRemove {
				verb = "removed from"
			}
			messages = append(messages, fmt.Sprintf("✅ Successfully %s %s: '%s'.", verb, u.Target, it.title))
		case syncNoop:
			if u.Mode == models.ListAdd {
				fail(it.title, fmt.Sprintf("ℹ '%s' is already in your %s. No action taken.", it.title, u.Target))
			} else {
				fail(it.title, fmt.Sprintf("ℹ '%s' was not found in your %s, so it couldn't be removed.", it.title, u.Target))
			}
		default:
			if u.Mode == models.ListAdd {
				fail(it.title, fmt.Sprintf("❌ Failed to add '%s' to %s for an unknown reason.", it.title, u.Target))
			} else {
				fail(it.title, fmt.Sprintf("❌ Failed to remove '%s' from %s for an unknown reason.", it.title, u.Target))
			}
		}
	}

	res.ActionSuccess = len(res.SuccessfullyUpdatedTitles) > 0
	res.Message = strings.Join(messages, "\n")
	res.Details = resp

	s.logger.Info("list updated",
		zap.String("list", string(u.Target)),
		zap.String("mode", string(u.Mode)),
		zap.Int("updated", len(res.SuccessfullyUpdatedTitles)),
		zap.Int("failed", len(res.NonUpdatedErrorTitles)),
	)
	if s.bus != nil {
		s.bus.PublishAsync(context.WithoutCancel(ctx), plugin.Event{
			Topic:     TopicListUpdated,
			Source:    "trakt",
			Timestamp: time.Now(),
			Payload: ListUpdatedEvent{
				Target:  u.Target,
				Mode:    u.Mode,
				Updated: res.SuccessfullyUpdatedTitles,
				Failed:  res.NonUpdatedErrorTitles,
			},
		})
	}
	return res, nil
}

// resolve finds the Trakt id for q. A non-empty message means the item
// cannot be processed and says why.
func (s *Service) resolve(ctx context.Context, q models.MovieQuery) (resolvedItem, string, error) {
	if q.TraktID != nil && *q.TraktID != 0 {
		id := *q.TraktID
		if q.Title != "" {
			return resolvedItem{title: q.Title, id: id}, "", nil
		}
		m, err := s.movieByID(ctx, id, fieldSet{only: true})
		if errors.Is(err, ErrNotFound) {
			return resolvedItem{}, fmt.Sprintf("❌ Could not find 'Trakt id %d' on Trakt.", id), nil
		}
		if err != nil {
			return resolvedItem{}, "", err
		}
		return resolvedItem{title: m.Title, id: id}, "", nil
	}
	if q.Title == "" {
		return resolvedItem{}, "❌ Could not find 'Unknown title' on Trakt.", nil
	}

	found, err := s.SearchMovie(ctx, q.Title, q.Year)
	if err != nil {
		return resolvedItem{}, "", err
	}
	switch {
	case found.Status == models.LookupMatch && found.Movie.TraktID != nil:
		return resolvedItem{title: found.Movie.Title, id: *found.Movie.TraktID}, "", nil
	case found.Status == models.LookupMultiple:
		return resolvedItem{}, fmt.Sprintf(
			"❌ '%s' matches several movies on Trakt. Try a more specific title.", q.Title), nil
	default:
		return resolvedItem{}, fmt.Sprintf("❌ Could not find '%s' on Trakt.", q.Title), nil
	}
}

func itemName(q models.MovieQuery) string {
	switch {
	case q.Title != "":
		return q.Title
	case q.TraktID != nil:
		return fmt.Sprintf("Trakt id %d", *q.TraktID)
	}
	return "Unknown title"
}

type syncOutcome int

const (
	syncFailed syncOutcome = iota
	syncDone
	syncNoop
)

// syncTally hands out per-item outcomes from a sync response. Items
// listed explicitly win; otherwise the numeric counts are consumed in
// item order.
type syncTally struct {
	done     SyncCount
	noop     SyncCount
	notFound SyncCount
	doneLeft int
	noopLeft int
	mode     models.ListMode
}

func newSyncTally(resp SyncResponse, mode models.ListMode) *syncTally {
	t := &syncTally{notFound: resp.NotFound.Movies, mode: mode}
	if mode == models.ListRemove {
		t.done = resp.Deleted.Movies
	} else {
		t.done = resp.Added.Movies
		t.noop = resp.Existing.Movies
	}
	t.doneLeft = t.done.Count
	t.noopLeft = t.noop.Count
	return t
}

func (t *syncTally) outcome(id int) syncOutcome {
	switch {
	case t.notFound.Has(id):
		if t.mode == models.ListRemove {
			return syncNoop
		}
		return syncFailed
	case t.done.Has(id):
		return syncDone
	case t.noop.Has(id):
		return syncNoop
	case len(t.done.IDs) == 0 && t.doneLeft > 0:
		t.doneLeft--
		return syncDone
	case len(t.noop.IDs) == 0 && t.noopLeft > 0:
		t.noopLeft--
		return syncNoop
	case t.mode == models.ListRemove && len(t.done.IDs) == 0:
		// Trakt counts removals and says nothing about ids that were
		// never on the list.
		return syncNoop
	}
	return syncFailed
}
