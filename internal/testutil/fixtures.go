// Package testutil builds movie fixtures for tests.
package testutil

import (
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
)

// NewMovie returns a Movie carrying only a title and year, suitable for
// test fixtures. Override or add fields with options.
func NewMovie(opts ...func(*models.Movie)) models.Movie {
	m := models.Movie{
		Title: "Test Movie",
		Year:  models.Ptr(2020),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithTitle sets the title.
func WithTitle(title string) func(*models.Movie) {
	return func(m *models.Movie) { m.Title = title }
}

// WithYear sets the release year.
func WithYear(year int) func(*models.Movie) {
	return func(m *models.Movie) { m.Year = models.Ptr(year) }
}

// WithTraktID sets the Trakt id.
func WithTraktID(id int) func(*models.Movie) {
	return func(m *models.Movie) { m.TraktID = models.Ptr(id) }
}

// NewMovieList wraps movies built from titles.
func NewMovieList(titles ...string) models.MovieList {
	list := models.MovieList{Movies: make([]models.Movie, 0, len(titles))}
	for _, t := range titles {
		list.Movies = append(list.Movies, NewMovie(WithTitle(t)))
	}
	return list
}
