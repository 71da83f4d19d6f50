package trakt

import (
	"encoding/json"
	"fmt"
	"slices"
)

// IDs are the identifiers Trakt attaches to every movie.
type IDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
}

// TraktMovie is a movie as returned with extended=full.
type TraktMovie struct {
	Title         string   `json:"title"`
	Year          *int     `json:"year"`
	IDs           IDs      `json:"ids"`
	OriginalTitle string   `json:"original_title"`
	Tagline       string   `json:"tagline"`
	Overview      string   `json:"overview"`
	Released      string   `json:"released"`
	Runtime       *int     `json:"runtime"`
	Country       string   `json:"country"`
	Trailer       string   `json:"trailer"`
	Rating        *float64 `json:"rating"`
	Votes         *int     `json:"votes"`
	Genres        []string `json:"genres"`
	Subgenres     []string `json:"subgenres"`
	Certification string   `json:"certification"`
	AfterCredits  *bool    `json:"after_credits"`
	DuringCredits *bool    `json:"during_credits"`
}

// Entry is one element of a chart or user list. Charts such as trending
// wrap the movie ({"watchers": 12, "movie": {...}}) while popular returns
// bare movies; both decode into Entry.
type Entry struct {
	Movie      TraktMovie
	UserRating *int   // Set on the ratings list.
	Comment    string // Set on the comments list.
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		Movie   *TraktMovie     `json:"movie"`
		Rating  json.RawMessage `json:"rating"`
		Comment *struct {
			Comment string `json:"comment"`
		} `json:"comment"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return fmt.Errorf("decode list entry: %w", err)
	}
	if wrapped.Movie == nil {
		return json.Unmarshal(b, &e.Movie)
	}

	e.Movie = *wrapped.Movie
	if len(wrapped.Rating) > 0 {
		var r float64
		if err := json.Unmarshal(wrapped.Rating, &r); err == nil {
			n := int(r)
			e.UserRating = &n
		}
	}
	if wrapped.Comment != nil {
		e.Comment = wrapped.Comment.Comment
	}
	return nil
}

// SearchResult is one hit from /search/movie.
type SearchResult struct {
	Type  string      `json:"type"`
	Score float64     `json:"score"`
	Movie *TraktMovie `json:"movie"`
}

// Person is a cast or crew member's identity.
type Person struct {
	Name string `json:"name"`
}

// CastMember is one entry of People.Cast.
type CastMember struct {
	Character string  `json:"character"`
	Person    *Person `json:"person"`
}

// CrewMember is one entry of a People.Crew department. Older responses
// carry a single job, newer ones a jobs list.
type CrewMember struct {
	Job    string   `json:"job"`
	Jobs   []string `json:"jobs"`
	Person *Person  `json:"person"`
}

// Does reports whether the crew member held job.
func (c CrewMember) Does(job string) bool {
	return c.Job == job || slices.Contains(c.Jobs, job)
}

// People is the /movies/{id}/people response.
type People struct {
	Cast []CastMember            `json:"cast"`
	Crew map[string][]CrewMember `json:"crew"`
}

// names returns the names in a crew department, optionally restricted
// to one job.
func (p *People) names(department, job string) []string {
	var out []string
	for _, c := range p.Crew[department] {
		if c.Person == nil || (job != "" && !c.Does(job)) {
			continue
		}
		out = append(out, c.Person.Name)
	}
	return out
}

func (p *People) castNames(limit int) []string {
	var out []string
	for _, c := range p.Cast {
		if c.Person == nil {
			continue
		}
		out = append(out, c.Person.Name)
		if len(out) == limit {
			break
		}
	}
	return out
}

// syncItem references one movie in a /sync request.
type syncItem struct {
	IDs struct {
		Trakt int `json:"trakt"`
	} `json:"ids"`
}

func newSyncItem(id int) syncItem {
	var it syncItem
	it.IDs.Trakt = id
	return it
}

type syncRequest struct {
	Movies []syncItem `json:"movies"`
}

// SyncCount is a per-type count in a /sync response. Trakt reports
// added/deleted/existing as numbers and not_found as a list of the ids it
// could not resolve; both shapes are accepted for every field.
type SyncCount struct {
	Count int
	IDs   []int
}

func (s *SyncCount) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &s.Count); err == nil {
		return nil
	}
	var items []struct {
		IDs   IDs `json:"ids"`
		Trakt int `json:"trakt"`
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decode sync count: %w", err)
	}
	for _, it := range items {
		id := it.IDs.Trakt
		if id == 0 {
			id = it.Trakt
		}
		s.IDs = append(s.IDs, id)
	}
	s.Count = len(items)
	return nil
}

// Has reports whether id was listed explicitly.
func (s SyncCount) Has(id int) bool {
	return slices.Contains(s.IDs, id)
}

type syncBucket struct {
	Movies SyncCount `json:"movies"`
}

// SyncResponse is the body returned by /sync/{list} and /sync/{list}/remove.
type SyncResponse struct {
	Added    syncBucket `json:"added"`
	Deleted  syncBucket `json:"deleted"`
	Existing syncBucket `json:"existing"`
	NotFound syncBucket `json:"not_found"`
}
