package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MattTPin/movie-reccomendation-agent/internal/config"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin/plugintest"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const testKey = "tmdb-key"

type fakeTMDB struct {
	genreCalls atomic.Int32
	failGenres atomic.Bool
}

func newFakeTMDB(t *testing.T) (*fakeTMDB, *httptest.Server) {
	t.Helper()
	f := &fakeTMDB{}
	mux := http.NewServeMux()
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("api_key") != testKey {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("GET /genre/movie/list", auth(func(w http.ResponseWriter, _ *http.Request) {
		f.genreCalls.Add(1)
		if f.failGenres.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeTestJSON(w, map[string]any{"genres": []map[string]any{
			{"id": 28, "name": "Action"},
			{"id": 878, "name": "Science Fiction"},
			{"id": 18, "name": "Drama"},
		}})
	}))
	mux.HandleFunc("GET /trending/movie/week", auth(func(w http.ResponseWriter, _ *http.Request) {
		writeTestJSON(w, page{Results: []Result{
			{ID: 1, Title: "Dune: Part Two", ReleaseDate: "2024-02-27", GenreIDs: []int{878, 12}, Overview: "Paul unites.", PosterPath: "/dune.jpg"},
			{ID: 2, Name: "Untitled", GenreIDs: []int{18}},
			{ID: 3, Title: "Heat", ReleaseDate: "1995-12-15", GenreIDs: []int{28, 18}},
			{ID: 4, Title: "Alien", ReleaseDate: "1979-05-25"},
		}})
	}))
	mux.HandleFunc("GET /search/movie", auth(func(w http.ResponseWriter, r *http.Request) {
		var results []Result
		if strings.EqualFold(r.URL.Query().Get("query"), "heat") {
			results = []Result{{ID: 3, Title: "Heat", ReleaseDate: "1995-12-15", GenreIDs: []int{28}}}
		}
		writeTestJSON(w, page{Results: results})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*fakeTMDB, *Client) {
	t.Helper()
	f, srv := newFakeTMDB(t)
	return f, NewClient(Config{BaseURL: srv.URL, APIKey: testKey}, nil)
}

func TestTrending(t *testing.T) {
	f, c := newTestClient(t)

	list, err := c.Trending(context.Background(), 3)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(list.Movies) != 3 {
		t.Fatalf("len = %d, want 3", len(list.Movies))
	}

	dune := list.Movies[0]
	if dune.Title != "Dune: Part Two" || dune.Year == nil || *dune.Year != 2024 {
		t.Errorf("first = %+v, want Dune: Part Two (2024)", dune)
	}
	if strings.Join(dune.Genres, ",") != "Science Fiction" {
		t.Errorf("genres = %v, want unknown id 12 skipped", dune.Genres)
	}
	if dune.Poster != posterBase+"/dune.jpg" {
		t.Errorf("poster = %q", dune.Poster)
	}
	if untitled := list.Movies[1]; untitled.Title != "Untitled" || untitled.Year != nil {
		t.Errorf("second = %+v, want name fallback without a year", untitled)
	}

	if _, err := c.Trending(context.Background(), 2); err != nil {
		t.Fatalf("second Trending() error = %v", err)
	}
	if n := f.genreCalls.Load(); n != 1 {
		t.Errorf("genre fetches = %d, want 1", n)
	}
}

func TestSearch(t *testing.T) {
	_, c := newTestClient(t)

	m, err := c.Search(context.Background(), "heat")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if m == nil || m.Title != "Heat" || strings.Join(m.Genres, ",") != "Action" {
		t.Errorf("Search() = %+v, want Heat [Action]", m)
	}

	none, err := c.Search(context.Background(), "zzzz")
	if err != nil || none != nil {
		t.Errorf("Search(zzzz) = %+v, %v, want nil, nil", none, err)
	}
}

func TestClient_Errors(t *testing.T) {
	_, srv := newFakeTMDB(t)

	noKey := NewClient(Config{BaseURL: srv.URL}, nil)
	if _, err := noKey.Trending(context.Background(), 3); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}

	badKey := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"}, nil)
	_, err := badKey.Trending(context.Background(), 3)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401 APIError", err)
	}
	if strings.Contains(err.Error(), "wrong") {
		t.Error("error must not echo the api key")
	}
}

func TestGenreCache_PopulatesOnce(t *testing.T) {
	var calls atomic.Int32
	cache := NewGenreCache(func(context.Context) (map[int]string, error) {
		calls.Add(1)
		return map[int]string{1: "Action", 2: "Drama"}, nil
	})
	if cache.Populated() {
		t.Fatal("new cache should be empty")
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := cache.Populate(context.Background()); err != nil {
				t.Errorf("Populate() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("loader calls = %d, want 1", n)
	}
	if !cache.Populated() {
		t.Error("Populated() = false after Populate")
	}
	if name, ok := cache.Name(2); !ok || name != "Drama" {
		t.Errorf("Name(2) = %q, %v", name, ok)
	}
	if _, ok := cache.Name(99); ok {
		t.Error("Name(99) should be unknown")
	}
	if got := strings.Join(cache.Names([]int{2, 99, 1}), ","); got != "Drama,Action" {
		t.Errorf("Names() = %s", got)
	}
}

func TestGenreCache_RetriesAfterFailure(t *testing.T) {
	f, c := newTestClient(t)
	f.failGenres.Store(true)

	if err := c.Genres().Populate(context.Background()); err == nil {
		t.Fatal("Populate() error = nil, want upstream failure")
	}
	if c.Genres().Populated() {
		t.Fatal("failed fetch must leave the cache empty")
	}

	f.failGenres.Store(false)
	if err := c.Genres().Populate(context.Background()); err != nil {
		t.Fatalf("retry Populate() error = %v", err)
	}
	if len(c.Genres().All()) != 3 {
		t.Errorf("All() = %v, want 3 genres", c.Genres().All())
	}
}

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() }, nil)
}

func initModule(t *testing.T, url string, enabled bool) *Module {
	t.Helper()
	v := viper.New()
	v.Set("enabled", enabled)
	v.Set("base_url", url)
	v.Set("api_key", testKey)

	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Config: config.New(v), Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return m
}

func TestModule_StartWarmsCache(t *testing.T) {
	f, srv := newFakeTMDB(t)
	m := initModule(t, srv.URL, true)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if f.genreCalls.Load() != 1 {
		t.Errorf("genre fetches = %d, want 1", f.genreCalls.Load())
	}
	if _, err := m.Reference().Trending(context.Background(), 1); err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if f.genreCalls.Load() != 1 {
		t.Error("trending should reuse the warmed cache")
	}
}

func TestModule_Disabled(t *testing.T) {
	m := initModule(t, "http://tmdb.invalid", false)
	if m.Reference() != nil {
		t.Error("Reference() should be nil when disabled")
	}

	rec := httptest.NewRecorder()
	m.handleTrending(rec, httptest.NewRequest(http.MethodGet, "/trending", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandlers(t *testing.T) {
	_, srv := newFakeTMDB(t)
	m := initModule(t, srv.URL, true)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		target     string
		wantStatus int
	}{
		{"genres", m.handleGenres, "/genres", http.StatusOK},
		{"trending", m.handleTrending, "/trending?num=2", http.StatusOK},
		{"trending bad num", m.handleTrending, "/trending?num=-1", http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.handler(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}
