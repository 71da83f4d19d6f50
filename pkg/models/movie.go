package models

// Movie is the assistant's view of a single film. Only populated fields
// are serialized, so the JSON handed to the model stays minimal.
type Movie struct {
	Title string `json:"title" example:"Inception"`

	OriginalTitle      string   `json:"original_title,omitempty"`
	Tagline            string   `json:"tagline,omitempty"`
	Runtime            *int     `json:"runtime,omitempty"`
	Genres             []string `json:"genres,omitempty"`
	Subgenres          []string `json:"subgenres,omitempty"`
	Description        string   `json:"description,omitempty"`
	Related            []string `json:"related,omitempty"`
	AgeRating          string   `json:"age_rating,omitempty"`
	Country            string   `json:"country,omitempty"`
	AfterCreditsScene  *bool    `json:"after_credits_scene,omitempty"`
	DuringCreditsScene *bool    `json:"during_credits_scene,omitempty"`

	Year            *int     `json:"year,omitempty"`
	ReleaseDate     string   `json:"release_date,omitempty"`
	Cast            []string `json:"cast,omitempty"`
	Characters      []string `json:"characters,omitempty"`
	Director        string   `json:"director,omitempty"`
	MusicBy         string   `json:"music_by,omitempty"`
	Cinematographer string   `json:"cinematographer,omitempty"`
	ProducedBy      []string `json:"produced_by,omitempty"`
	WrittenBy       []string `json:"written_by,omitempty"`

	StreamingOn []string `json:"streaming_on,omitempty"`

	TraktID     *int     `json:"trakt_id,omitempty"`
	TraktRating *float64 `json:"trakt_rating,omitempty"`
	TraktVotes  *int     `json:"trakt_votes,omitempty"`
	UserRating  *int     `json:"user_rating,omitempty"`
	Comments    []string `json:"comments,omitempty"`

	Poster  string `json:"poster,omitempty"`
	Trailer string `json:"trailer,omitempty"`
}

// MovieList wraps several movies.
type MovieList struct {
	Movies []Movie `json:"movies"`
}

// ListActionResult summarizes an add/remove call against a Trakt list.
type ListActionResult struct {
	ActionName                string   `json:"action_name"`
	TargetList                string   `json:"target_list"`
	ActionSuccess             bool     `json:"action_success"`
	SuccessfullyUpdatedTitles []string `json:"successfully_updated_titles"`
	NonUpdatedErrorTitles     []string `json:"non_updated_error_titles"`
	Message                   string   `json:"message"`
	Details                   any      `json:"details,omitempty"`
}

// Ptr returns a pointer to v. Handy for the optional Movie fields.
func Ptr[T any](v T) *T {
	return &v
}
