package action

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"go.uber.org/zap"
)

// confidentScore is the title similarity above which a single match is
// presented without asking the user to confirm it.
const confidentScore = 0.6

type callType int

const (
	callFollowUp callType = iota
	callFinal
)

type actions struct {
	svc    Services
	logger *zap.Logger
}

type trendingParams struct {
	Num   int    `json:"num"`
	Chart string `json:"chart"`
}

func (a *actions) trending(ctx context.Context, args Args) (Outcome, error) {
	var p trendingParams
	if err := decodeArgs(args, &p); err != nil {
		return a.argsFailure(err), nil
	}
	num := clamp(p.Num, 3, 10)

	chart := models.Chart(normalize(p.Chart))
	switch chart {
	case models.ChartTrending, models.ChartPopular, models.ChartAnticipated,
		models.ChartWatched, models.ChartBoxOffice:
	default:
		chart = models.ChartTrending
	}

	var (
		list models.MovieList
		err  error
	)
	if a.svc.TrendingSource == SourceTMDB && a.svc.Reference != nil && chart == models.ChartTrending {
		list, err = a.svc.Reference.Trending(ctx, num)
	} else {
		list, err = a.svc.Metadata.TopMovies(ctx, chart, num)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch %s chart: %w", chart, err)
	}

	label := string(chart)
	if chart == models.ChartBoxOffice {
		label = "box office"
	}
	prompt, err := render(trendingTmpl, promptData{Chart: label}, list)
	if err != nil {
		return Outcome{}, err
	}
	return Success(list, prompt), nil
}

type movieParams struct {
	Title   string `json:"title"`
	Year    *int   `json:"year"`
	TraktID *int   `json:"trakt_id"`
	Num     int    `json:"num"`
}

func (p movieParams) query() models.MovieQuery {
	q := models.MovieQuery{Title: strings.TrimSpace(p.Title)}
	if p.Year != nil && *p.Year > 0 {
		q.Year = p.Year
	}
	if p.TraktID != nil && *p.TraktID > 0 {
		q.TraktID = p.TraktID
	}
	return q
}

func (a *actions) detailsFollowUp(ctx context.Context, args Args) (Outcome, error) {
	return a.details(ctx, args, callFollowUp)
}

func (a *actions) detailsFinal(ctx context.Context, args Args) (Outcome, error) {
	return a.details(ctx, args, callFinal)
}

// details looks a movie up. Ambiguous or missing results ask for a
// disambiguation round when called as the follow-up, and are reported to
// the user when called as the final step.
func (a *actions) details(ctx context.Context, args Args, call callType) (Outcome, error) {
	var p movieParams
	if err := decodeArgs(args, &p); err != nil {
		return a.argsFailure(err), nil
	}
	q := p.query()
	if q.Empty() {
		return Failure(NoTitlePrompt), nil
	}

	res, err := a.svc.Metadata.FindMovie(ctx, q)
	if err != nil {
		return Outcome{}, fmt.Errorf("find movie: %w", err)
	}
	title := displayTitle(q)

	switch res.Status {
	case models.LookupMultiple:
		if call == callFollowUp {
			prompt, err := render(pickCandidateTmpl, promptData{Title: title}, nil)
			return Secondary(res.Candidates, prompt), err
		}
		prompt, err := render(listCandidatesTmpl, promptData{Title: title}, nil)
		return Success(res.Candidates, prompt), err

	case models.LookupNoMatch:
		if call == callFollowUp {
			prompt, err := render(recallTitleTmpl, promptData{Title: title}, nil)
			return Secondary(models.Movie{Title: title}, prompt), err
		}
		return Failure(fmt.Sprintf(
			"Sorry, I couldn't find a movie matching '%s'. Could you try again with a title closer to the movie's real name?",
			title)), nil

	case models.LookupMatch:
		if res.Movie == nil {
			return Outcome{}, fmt.Errorf("find movie: match without a movie")
		}
		tmpl := detailsTmpl
		if res.Score <= confidentScore {
			tmpl = detailsUnsureTmpl
		}
		prompt, err := render(tmpl, promptData{Title: title}, *res.Movie)
		return Success(*res.Movie, prompt), err
	}

	return Outcome{}, fmt.Errorf("find movie: unknown lookup status %q", res.Status)
}

func (a *actions) similar(ctx context.Context, args Args) (Outcome, error) {
	var p movieParams
	if err := decodeArgs(args, &p); err != nil {
		return a.argsFailure(err), nil
	}
	q := p.query()
	if q.Empty() {
		return Failure(NoTitlePrompt), nil
	}

	res, err := a.svc.Metadata.RelatedMovies(ctx, q, clamp(p.Num, 3, 10))
	if err != nil {
		return Outcome{}, fmt.Errorf("related movies: %w", err)
	}

	title := displayTitle(q)
	if res.Source != nil && res.Source.Title != "" {
		title = res.Source.Title
	}

	switch res.Status {
	case models.RelatedFound:
		prompt, err := render(similarTmpl, promptData{Title: title}, res.Similar)
		return Success(res.Similar, prompt), err
	case models.RelatedNone:
		prompt, err := render(noSimilarTmpl, promptData{Title: title}, nil)
		return Success(res.Similar, prompt), err
	case models.RelatedAmbiguous:
		prompt, err := render(similarCandidatesTmpl, promptData{Title: title}, nil)
		return Success(res.Candidates, prompt), err
	case models.RelatedNoMatch:
		return Failure(fmt.Sprintf(
			"Sorry, I couldn't find a movie matching '%s' to base recommendations on. Could you check the title and try again?",
			title)), nil
	}

	return Outcome{}, fmt.Errorf("related movies: unknown status %q", res.Status)
}

type listParams struct {
	ListType     string   `json:"list_type"`
	Limit        int      `json:"limit"`
	Page         int      `json:"page"`
	Genres       []string `json:"genres"`
	Subgenres    []string `json:"subgenres"`
	StreamingOn  []string `json:"streaming_on"`
	Country      string   `json:"country"`
	RuntimeRange []int    `json:"runtime_range"`
	YearRange    []int    `json:"year_range"`
	ScoreCutoff  *float64 `json:"score_cutoff"`
	SortBy       string   `json:"sort_by"`
}

var listKinds = []models.ListKind{
	models.ListWatchlist, models.ListCollection, models.ListRatings,
	models.ListHistory, models.ListComments,
}

func (a *actions) userList(ctx context.Context, args Args) (Outcome, error) {
	var p listParams
	if err := decodeArgs(flatten(args, "filters"), &p); err != nil {
		return a.argsFailure(err), nil
	}

	kind := models.ListKind(normalize(p.ListType))
	if kind == "" {
		kind = models.ListWatchlist
	}
	if !slices.Contains(listKinds, kind) {
		return Failure(fmt.Sprintf(
			"Tell the user '%s' is not a list I can read. Available lists: watchlist, collection, ratings, history and comments.",
			p.ListType)), nil
	}

	sortBy := models.SortKey(normalize(p.SortBy))
	switch sortBy {
	case models.SortNone, models.SortRating, models.SortRuntime, models.SortYear:
	default:
		a.logger.Debug("ignoring unknown sort key", zap.String("sort_by", p.SortBy))
		sortBy = models.SortNone
	}

	q := models.ListQuery{
		Kind:         kind,
		Limit:        clamp(p.Limit, 10, 100),
		Page:         clamp(p.Page, 1, 1<<20),
		Genres:       p.Genres,
		Subgenres:    p.Subgenres,
		StreamingOn:  p.StreamingOn,
		Country:      strings.TrimSpace(p.Country),
		RuntimeRange: toRange(p.RuntimeRange),
		YearRange:    toRange(p.YearRange),
		ScoreCutoff:  p.ScoreCutoff,
		SortBy:       sortBy,
	}

	list, err := a.svc.Metadata.UserList(ctx, q)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch %s list: %w", kind, err)
	}

	prompt, err := render(userListTmpl, promptData{ListType: string(kind)}, list)
	if err != nil {
		return Outcome{}, err
	}
	return Success(list, prompt), nil
}

type watchlistParams struct {
	Title   string `json:"title"`
	TraktID *int   `json:"trakt_id"`
	Mode    string `json:"mode"`
}

func (a *actions) updateWatchlist(ctx context.Context, args Args) (Outcome, error) {
	var p watchlistParams
	if err := decodeArgs(args, &p); err != nil {
		return a.argsFailure(err), nil
	}

	mode := models.ListMode(normalize(p.Mode))
	if mode == "" {
		mode = models.ListAdd
	}
	if mode != models.ListAdd && mode != models.ListRemove {
		return Failure(fmt.Sprintf(
			"Tell the user the watchlist can only be updated with 'add' or 'remove', not '%s'.", p.Mode)), nil
	}

	item := movieParams{Title: p.Title, TraktID: p.TraktID}.query()
	if item.Empty() {
		return Failure(NoTitlePrompt), nil
	}

	res, err := a.svc.Metadata.UpdateList(ctx, models.ListUpdate{
		Items:  []models.MovieQuery{item},
		Target: models.ListWatchlist,
		Mode:   mode,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("update watchlist: %w", err)
	}

	prompt, err := render(listUpdateTmpl, promptData{ListType: string(models.ListWatchlist)}, nil)
	if err != nil {
		return Outcome{}, err
	}
	return Success(res, prompt), nil
}

func toRange(v []int) *models.Range {
	if len(v) != 2 {
		return nil
	}
	lo, hi := v[0], v[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return &models.Range{Min: lo, Max: hi}
}

func displayTitle(q models.MovieQuery) string {
	if q.Title != "" {
		return q.Title
	}
	return fmt.Sprintf("Trakt id %d", *q.TraktID)
}
