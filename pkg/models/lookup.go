package models

// MovieQuery identifies a movie by title (optionally with a year) or by
// Trakt id. The id wins when both are set.
type MovieQuery struct {
	Title   string `json:"title,omitempty"`
	Year    *int   `json:"year,omitempty"`
	TraktID *int   `json:"trakt_id,omitempty"`
}

// Empty reports whether the query carries no identifying input.
func (q MovieQuery) Empty() bool {
	return q.Title == "" && (q.TraktID == nil || *q.TraktID == 0)
}

// LookupStatus classifies the result of a single-movie lookup.
type LookupStatus string

const (
	LookupMatch    LookupStatus = "match"
	LookupNoMatch  LookupStatus = "no_match"
	LookupMultiple LookupStatus = "multiple_candidates"
)

// Lookup is the classified result of FindMovie.
type Lookup struct {
	Status     LookupStatus
	Movie      *Movie    // Set when Status is LookupMatch.
	Candidates MovieList // Set when Status is LookupMultiple.
	Score      float64   // Title similarity of the match; 1.0 for id lookups.
}

// RelatedStatus classifies the result of a related-titles lookup.
type RelatedStatus string

const (
	RelatedFound     RelatedStatus = "success"
	RelatedNone      RelatedStatus = "no_related_movies"
	RelatedAmbiguous RelatedStatus = "search_movie_has_many_matches"
	RelatedNoMatch   RelatedStatus = "no_match"
)

// RelatedResult is the classified result of RelatedMovies.
type RelatedResult struct {
	Status     RelatedStatus
	Source     *Movie    // The movie related titles were fetched for.
	Similar    MovieList // Set when Status is RelatedFound.
	Candidates MovieList // Set when Status is RelatedAmbiguous.
	Message    string
}

// Chart names a ranked movie list on the tracking service.
type Chart string

const (
	ChartTrending    Chart = "trending"
	ChartPopular     Chart = "popular"
	ChartAnticipated Chart = "anticipated"
	ChartWatched     Chart = "watched"
	ChartBoxOffice   Chart = "boxoffice"
)

// ListKind names one of the user's lists.
type ListKind string

const (
	ListWatchlist  ListKind = "watchlist"
	ListCollection ListKind = "collection"
	ListRatings    ListKind = "ratings"
	ListHistory    ListKind = "history"
	ListComments   ListKind = "comments"
)

// SortKey orders user list results, highest first.
type SortKey string

const (
	SortNone    SortKey = ""
	SortRating  SortKey = "trakt_rating"
	SortRuntime SortKey = "runtime"
	SortYear    SortKey = "year"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// ListQuery selects and filters entries of a user list.
type ListQuery struct {
	Kind         ListKind
	Limit        int
	Page         int
	Genres       []string
	Subgenres    []string
	StreamingOn  []string
	Country      string
	RuntimeRange *Range
	YearRange    *Range
	ScoreCutoff  *float64
	SortBy       SortKey
}

// ListMode is the direction of a list update.
type ListMode string

const (
	ListAdd    ListMode = "add"
	ListRemove ListMode = "remove"
)

// ListUpdate adds or removes movies on a user list.
type ListUpdate struct {
	Items  []MovieQuery
	Target ListKind
	Mode   ListMode
}
