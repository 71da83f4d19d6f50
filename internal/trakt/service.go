package trakt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var _ roles.MovieMetadata = (*Service)(nil)

// Service implements roles.MovieMetadata on top of the Trakt API.
type Service struct {
	client      *Client
	bus         plugin.EventBus
	logger      *zap.Logger
	maxParallel int
}

// NewService creates a Service. bus may be nil.
func NewService(client *Client, bus plugin.EventBus, maxParallel int, logger *zap.Logger) *Service {
	if maxParallel <= 0 {
		maxParallel = DefaultConfig().MaxParallel
	}
	return &Service{
		client:      client,
		bus:         bus,
		logger:      logger,
		maxParallel: maxParallel,
	}
}

func (s *Service) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	return g, gctx
}

// FindMovie resolves q to a single movie. An id lookup is exact and
// scores 1.0; a title lookup goes through SearchMovie.
func (s *Service) FindMovie(ctx context.Context, q models.MovieQuery) (models.Lookup, error) {
	if q.TraktID != nil && *q.TraktID != 0 {
		m, err := s.movieByID(ctx, *q.TraktID, detailFields)
		if errors.Is(err, ErrNotFound) {
			return models.Lookup{Status: models.LookupNoMatch}, nil
		}
		if err != nil {
			return models.Lookup{}, err
		}
		return models.Lookup{Status: models.LookupMatch, Movie: &m, Score: 1.0}, nil
	}
	if q.Title == "" {
		return models.Lookup{Status: models.LookupNoMatch}, nil
	}
	return s.SearchMovie(ctx, q.Title, q.Year)
}

// SearchMovie searches Trakt by title and classifies the hits: one clear
// winner (match), several near-identical titles (multiple_candidates with
// up to five lightly detailed candidates) or nothing (no_match).
func (s *Service) SearchMovie(ctx context.Context, title string, year *int) (models.Lookup, error) {
	query := url.Values{"query": {title}, "limit": {"10"}}
	if year != nil {
		query.Set("years", strconv.Itoa(*year))
	}

	var results []SearchResult
	if err := s.client.get(ctx, "search", "/search/movie", query, &results); err != nil {
		return models.Lookup{}, fmt.Errorf("search %q: %w", title, err)
	}

	hits := scoreHits(title, results)
	if len(hits) == 0 {
		return models.Lookup{Status: models.LookupNoMatch}, nil
	}

	best, candidates := pickBest(hits, year)
	if len(candidates) > 0 {
		list, err := s.candidates(ctx, candidates)
		if err != nil {
			return models.Lookup{}, err
		}
		s.logger.Debug("ambiguous title",
			zap.String("title", title),
			zap.Int("candidates", len(list.Movies)),
		)
		return models.Lookup{Status: models.LookupMultiple, Candidates: list, Score: 1.0}, nil
	}

	if best.movie.IDs.Trakt == 0 {
		return models.Lookup{Status: models.LookupNoMatch}, nil
	}
	m, err := s.movieByID(ctx, best.movie.IDs.Trakt, detailFields)
	if errors.Is(err, ErrNotFound) {
		return models.Lookup{Status: models.LookupNoMatch}, nil
	}
	if err != nil {
		return models.Lookup{}, err
	}
	return models.Lookup{Status: models.LookupMatch, Movie: &m, Score: best.score}, nil
}

// candidates fetches candidate details in parallel, keeping hit order.
func (s *Service) candidates(ctx context.Context, hits []scoredHit) (models.MovieList, error) {
	movies := make([]models.Movie, len(hits))
	g, gctx := s.group(ctx)
	for i, h := range hits {
		g.Go(func() error {
			m, err := s.movieByID(gctx, h.movie.IDs.Trakt, candidateFields)
			if err != nil {
				return err
			}
			movies[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.MovieList{}, err
	}
	return models.MovieList{Movies: movies}, nil
}

// movieByID fetches the core record plus whatever sel needs from the
// people and related endpoints, concurrently. Any failed fetch fails the
// lookup.
func (s *Service) movieByID(ctx context.Context, id int, sel fieldSet) (models.Movie, error) {
	path := "/movies/" + strconv.Itoa(id)

	var (
		core    TraktMovie
		people  *People
		related []TraktMovie
	)
	g, gctx := s.group(ctx)
	g.Go(func() error {
		return s.client.get(gctx, "movie", path, url.Values{"extended": {"full"}}, &core)
	})
	if sel.needsPeople() {
		people = &People{}
		g.Go(func() error {
			return s.client.get(gctx, "people", path+"/people", nil, people)
		})
	}
	if sel.has(fieldRelated) {
		g.Go(func() error {
			return s.client.get(gctx, "related", path+"/related", nil, &related)
		})
	}
	if err := g.Wait(); err != nil {
		return models.Movie{}, fmt.Errorf("movie %d: %w", id, err)
	}
	return mapMovie(core, people, related, sel), nil
}

// RelatedMovies returns up to num titles related to the movie q names.
// A title that does not resolve to exactly one movie is reported instead
// of guessed.
func (s *Service) RelatedMovies(ctx context.Context, q models.MovieQuery, num int) (models.RelatedResult, error) {
	num = min(max(num, 1), 10)

	var source *models.Movie
	id := 0
	if q.TraktID != nil {
		id = *q.TraktID
	}
	if id == 0 {
		if q.Title == "" {
			return models.RelatedResult{
				Status:  models.RelatedNoMatch,
				Message: "No title or Trakt id was provided.",
			}, nil
		}
		found, err := s.FindMovie(ctx, models.MovieQuery{Title: q.Title, Year: q.Year})
		if err != nil {
			return models.RelatedResult{}, err
		}
		switch {
		case found.Status == models.LookupMatch && found.Movie.TraktID != nil:
			source = found.Movie
			id = *found.Movie.TraktID
		case found.Status == models.LookupMultiple:
			return models.RelatedResult{
				Status:     models.RelatedAmbiguous,
				Candidates: found.Candidates,
				Message:    "Too many potential matches for the search movie. Try again with a more specific title.",
			}, nil
		default:
			return models.RelatedResult{
				Status:  models.RelatedNoMatch,
				Message: fmt.Sprintf("No match on Trakt could be found for the title '%s'.", q.Title),
			}, nil
		}
	}

	var raw []TraktMovie
	path := "/movies/" + strconv.Itoa(id) + "/related"
	query := url.Values{"limit": {strconv.Itoa(num)}, "extended": {"full"}}
	if err := s.client.get(ctx, "related", path, query, &raw); err != nil {
		return models.RelatedResult{}, fmt.Errorf("related to %d: %w", id, err)
	}

	var similar []models.Movie
	for _, r := range raw[:min(len(raw), num)] {
		similar = append(similar, relatedMovie(r))
	}
	if len(similar) == 0 {
		return models.RelatedResult{Status: models.RelatedNone, Source: source}, nil
	}
	return models.RelatedResult{
		Status:  models.RelatedFound,
		Source:  source,
		Similar: models.MovieList{Movies: similar},
		Message: "Found movies similar to the search movie.",
	}, nil
}

func relatedMovie(r TraktMovie) models.Movie {
	m := models.Movie{
		Title:         r.Title,
		OriginalTitle: r.Title,
		Year:          r.Year,
		Genres:        r.Genres,
		Tagline:       r.Tagline,
		Description:   r.Overview,
		Runtime:       r.Runtime,
		Trailer:       r.Trailer,
	}
	if r.IDs.Trakt != 0 {
		m.TraktID = models.Ptr(r.IDs.Trakt)
	}
	return m
}
