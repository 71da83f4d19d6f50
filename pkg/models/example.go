package models

import (
	"encoding/json"
	"fmt"
)

// movieExample holds the canonical example value for every Movie field.
// Prompt templates show the model an example restricted to the fields a
// real record actually carries.
var movieExample = Movie{
	Title:              "Inception",
	OriginalTitle:      "Inception",
	Tagline:            "Your mind is the scene of the crime.",
	Runtime:            Ptr(148),
	Genres:             []string{"action", "adventure", "science-fiction"},
	Subgenres:          []string{"heist", "virtual-reality"},
	Description:        "A thief steals secrets from dreams.",
	Related:            []string{"Interstellar", "Tenet"},
	AgeRating:          "PG-13",
	Country:            "us",
	AfterCreditsScene:  Ptr(false),
	DuringCreditsScene: Ptr(false),
	Year:               Ptr(2010),
	ReleaseDate:        "2010-07-16",
	Cast:               []string{"Leonardo DiCaprio"},
	Characters:         []string{"Dom Cobb"},
	Director:           "Christopher Nolan",
	MusicBy:            "Hans Zimmer",
	Cinematographer:    "Wally Pfister",
	ProducedBy:         []string{"Emma Thomas"},
	WrittenBy:          []string{"Christopher Nolan"},
	StreamingOn:        []string{"Netflix", "YouTube"},
	TraktID:            Ptr(16662),
	TraktRating:        Ptr(8.8),
	TraktVotes:         Ptr(2000000),
	UserRating:         Ptr(9),
	Comments:           []string{"Loved it!"},
	Poster:             "https://image.tmdb.org/t/p/w500/inception.jpg",
	Trailer:            "https://youtube.com/watch?v=YoHD9XEInc0",
}

// CompactJSON serializes a record with unset fields omitted.
func CompactJSON(record any) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal %T: %w", record, err)
	}
	return string(b), nil
}

// ExampleJSON renders an indented example shaped like record: the
// canonical example movie reduced to the fields record populates. For a
// MovieList the first movie decides the field set. Other record types are
// returned as themselves.
func ExampleJSON(record any) (string, error) {
	var example any
	switch r := record.(type) {
	case Movie:
		m, err := exampleMovie(r)
		if err != nil {
			return "", err
		}
		example = m
	case *Movie:
		return ExampleJSON(*r)
	case MovieList:
		var first Movie
		if len(r.Movies) > 0 {
			first = r.Movies[0]
		}
		m, err := exampleMovie(first)
		if err != nil {
			return "", err
		}
		example = map[string]any{"movies": []any{m}}
	case *MovieList:
		return ExampleJSON(*r)
	default:
		example = record
	}

	b, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal example: %w", err)
	}
	return string(b), nil
}

func exampleMovie(m Movie) (map[string]any, error) {
	populated, err := toMap(m)
	if err != nil {
		return nil, err
	}
	full, err := toMap(movieExample)
	if err != nil {
		return nil, err
	}

	out := map[string]any{"title": full["title"]}
	for key, v := range populated {
		if isBlank(v) {
			continue
		}
		out[key] = full[key]
	}
	return out, nil
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// isBlank mirrors what counts as "not really populated" for examples:
// null, empty string, empty collection, zero and false.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return x == 0
	case bool:
		return !x
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
