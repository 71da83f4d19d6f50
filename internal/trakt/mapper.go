package trakt

import (
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
)

// Field names follow the JSON keys of models.Movie.
const (
	fieldOriginalTitle   = "original_title"
	fieldTagline         = "tagline"
	fieldRuntime         = "runtime"
	fieldGenres          = "genres"
	fieldSubgenres       = "subgenres"
	fieldDescription     = "description"
	fieldReleaseDate     = "release_date"
	fieldCountry         = "country"
	fieldAgeRating       = "age_rating"
	fieldAfterCredits    = "after_credits_scene"
	fieldDuringCredits   = "during_credits_scene"
	fieldTraktID         = "trakt_id"
	fieldTrailer         = "trailer"
	fieldTraktRating     = "trakt_rating"
	fieldTraktVotes      = "trakt_votes"
	fieldCast            = "cast"
	fieldCharacters      = "characters"
	fieldDirector        = "director"
	fieldMusicBy         = "music_by"
	fieldCinematographer = "cinematographer"
	fieldWrittenBy       = "written_by"
	fieldProducedBy      = "produced_by"
	fieldRelated         = "related"
)

// castLimit caps the cast copied from a people response.
const castLimit = 4

// fieldSet selects which Movie fields a mapping fills. Title and year are
// always mapped. With only set, exactly the included fields are mapped;
// otherwise everything except skipped fields is, and include overrides
// skip.
type fieldSet struct {
	include map[string]bool
	skip    map[string]bool
	only    bool
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func (f fieldSet) has(name string) bool {
	if f.only {
		return f.include[name]
	}
	if f.include[name] {
		return true
	}
	return !f.skip[name]
}

// needsPeople reports whether any selected field comes from /people.
func (f fieldSet) needsPeople() bool {
	for _, n := range []string{fieldCast, fieldCharacters, fieldDirector, fieldMusicBy,
		fieldCinematographer, fieldWrittenBy, fieldProducedBy} {
		if f.has(n) {
			return true
		}
	}
	return false
}

// with returns a copy of f that also includes name.
func (f fieldSet) with(name string) fieldSet {
	inc := make(map[string]bool, len(f.include)+1)
	for k, v := range f.include {
		inc[k] = v
	}
	inc[name] = true
	f.include = inc
	return f
}

var (
	// detailFields is used for a single resolved movie.
	detailFields = fieldSet{skip: set(
		fieldCharacters, fieldAfterCredits, fieldDuringCredits, fieldMusicBy,
		fieldCinematographer, fieldProducedBy, fieldWrittenBy, fieldRelated,
	)}

	// candidateFields is just enough for the user to tell candidates apart.
	candidateFields = fieldSet{only: true, include: set(
		fieldTraktID, fieldRuntime, fieldDirector, fieldCast,
	)}

	// chartFields is used for chart entries; cast and director are filled
	// from a separate people call.
	chartFields = fieldSet{
		include: set(
			fieldDescription, fieldRuntime, fieldReleaseDate, fieldGenres, fieldTrailer,
			fieldTagline, fieldSubgenres, fieldTraktRating, fieldCountry, fieldAgeRating,
		),
		skip: set(fieldAfterCredits, fieldDuringCredits, fieldTraktVotes),
	}

	// listFields is used for short user lists.
	listFields = fieldSet{
		include: set(
			fieldDescription, fieldRuntime, fieldReleaseDate, fieldGenres, fieldTrailer,
			fieldTagline, fieldTraktRating, fieldCountry, fieldAgeRating, fieldSubgenres,
		),
		skip: set(fieldAfterCredits, fieldDuringCredits, fieldTraktVotes, fieldDirector, fieldCast),
	}

	// leanListFields keeps long user lists small.
	leanListFields = fieldSet{only: true, include: set(
		fieldTraktID, fieldRuntime, fieldGenres, fieldTagline, fieldTraktRating,
	)}
)

// mapMovie converts Trakt responses into a models.Movie restricted to
// sel. people and related may be nil.
func mapMovie(core TraktMovie, people *People, related []TraktMovie, sel fieldSet) models.Movie {
	m := models.Movie{
		Title: core.Title,
		Year:  core.Year,
	}

	if sel.has(fieldOriginalTitle) {
		m.OriginalTitle = core.OriginalTitle
	}
	if sel.has(fieldTagline) {
		m.Tagline = core.Tagline
	}
	if sel.has(fieldRuntime) {
		m.Runtime = core.Runtime
	}
	if sel.has(fieldGenres) {
		m.Genres = core.Genres
	}
	if sel.has(fieldSubgenres) {
		m.Subgenres = core.Subgenres
	}
	if sel.has(fieldDescription) {
		m.Description = core.Overview
	}
	if sel.has(fieldReleaseDate) {
		m.ReleaseDate = core.Released
	}
	if sel.has(fieldCountry) {
		m.Country = core.Country
	}
	if sel.has(fieldAgeRating) {
		m.AgeRating = core.Certification
	}
	if sel.has(fieldAfterCredits) {
		m.AfterCreditsScene = core.AfterCredits
	}
	if sel.has(fieldDuringCredits) {
		m.DuringCreditsScene = core.DuringCredits
	}
	if sel.has(fieldTraktID) && core.IDs.Trakt != 0 {
		m.TraktID = models.Ptr(core.IDs.Trakt)
	}
	if sel.has(fieldTrailer) {
		m.Trailer = core.Trailer
	}
	if sel.has(fieldTraktRating) {
		m.TraktRating = core.Rating
	}
	if sel.has(fieldTraktVotes) {
		m.TraktVotes = core.Votes
	}

	if people != nil {
		mapPeople(&m, people, sel)
	}

	if sel.has(fieldRelated) {
		for _, r := range related {
			if r.Title != "" {
				m.Related = append(m.Related, r.Title)
			}
		}
	}
	return m
}

func mapPeople(m *models.Movie, p *People, sel fieldSet) {
	if sel.has(fieldCast) {
		m.Cast = p.castNames(castLimit)
	}
	if sel.has(fieldCharacters) {
		for _, c := range p.Cast {
			if c.Character != "" {
				m.Characters = append(m.Characters, c.Character)
			}
		}
	}
	if sel.has(fieldDirector) {
		m.Director = first(p.names("directing", "Director"))
	}
	if sel.has(fieldMusicBy) {
		m.MusicBy = first(p.names("sound", "Original Music Composer"))
	}
	if sel.has(fieldCinematographer) {
		m.Cinematographer = first(p.names("camera", "Director of Photography"))
	}
	if sel.has(fieldWrittenBy) {
		m.WrittenBy = p.names("writing", "")
	}
	if sel.has(fieldProducedBy) {
		m.ProducedBy = p.names("production", "Producer")
	}
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
