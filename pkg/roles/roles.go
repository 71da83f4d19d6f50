// Package roles defines typed contracts for module roles. A module that
// declares a role in PluginInfo.Roles implements the matching interface,
// so callers resolve it with PluginResolver.ResolveByRole and a type
// assertion.
package roles

import (
	"context"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
)

// Role name constants match the strings used in PluginInfo.Roles.
const (
	RoleLLM            = "llm"
	RoleMovieMetadata  = "movie_metadata"
	RoleMovieReference = "movie_reference"
	RoleNotification   = "notification"
)

// LLMProvider is implemented by the module owning the chat model.
type LLMProvider interface {
	Provider() llm.Provider
}

// MovieMetadata is the movie tracking service: lookups, charts, related
// titles and the user's lists.
type MovieMetadata interface {
	FindMovie(ctx context.Context, q models.MovieQuery) (models.Lookup, error)
	TopMovies(ctx context.Context, chart models.Chart, num int) (models.MovieList, error)
	RelatedMovies(ctx context.Context, q models.MovieQuery, num int) (models.RelatedResult, error)
	UserList(ctx context.Context, q models.ListQuery) (models.MovieList, error)
	UpdateList(ctx context.Context, u models.ListUpdate) (models.ListActionResult, error)
}

// MetadataProvider is implemented by the module that fills RoleMovieMetadata.
type MetadataProvider interface {
	Metadata() MovieMetadata
}

// MovieReference is a secondary catalogue used for trending charts and
// reference data such as genre names.
type MovieReference interface {
	Trending(ctx context.Context, num int) (models.MovieList, error)
}

// ReferenceProvider is implemented by the module that fills RoleMovieReference.
type ReferenceProvider interface {
	Reference() MovieReference
}
