package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/MattTPin/movie-reccomendation-agent/internal/action"
	"github.com/MattTPin/movie-reccomendation-agent/internal/event"
	"github.com/MattTPin/movie-reccomendation-agent/internal/gateway"
	"github.com/MattTPin/movie-reccomendation-agent/internal/router"
	"github.com/MattTPin/movie-reccomendation-agent/internal/store"
	"github.com/MattTPin/movie-reccomendation-agent/internal/turnlog"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"go.uber.org/zap"
)

const greeting = "Movie assistant, I am!."

type stubRouter struct {
	result router.Result
	seen   []models.Turn
}

func (r *stubRouter) Route(_ context.Context, history []models.Turn) router.Result {
	r.seen = history
	return r.result
}

type stubRenderer struct {
	reply string
	err   error
	reqs  []gateway.Request
}

func (r *stubRenderer) Invoke(_ context.Context, req gateway.Request) (string, error) {
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

func newTestService(res router.Result, renderer *stubRenderer, opts ...Option) (*Service, *stubRouter, *Session) {
	r := &stubRouter{result: res}
	if renderer == nil {
		renderer = &stubRenderer{}
	}
	sess := NewSessionStore(greeting).Create()
	return NewService(r, renderer, zap.NewNop(), opts...), r, sess
}

func TestSend_Fallback(t *testing.T) {
	svc, r, sess := newTestService(router.Result{
		Kind:     router.KindFallback,
		Fallback: "Try https://www.youtube.com/watch?v=abc-1 maybe",
	}, nil)

	reply := svc.Send(context.Background(), sess, "hello")

	want := "Try [Watch on YouTube](https://www.youtube.com/watch?v=abc-1) maybe"
	if reply.Content != want {
		t.Errorf("Content = %q, want %q", reply.Content, want)
	}
	if len(r.seen) != 2 || r.seen[1].Content != "hello" {
		t.Errorf("router saw %+v, want greeting then user turn", r.seen)
	}
	if len(sess.Trailers()) != 0 {
		t.Error("fallback replies must not collect trailers")
	}
	visible := sess.Visible()
	if len(visible) != 3 || visible[2].Role != models.RoleAssistant {
		t.Errorf("visible = %+v", visible)
	}
}

func TestSend_Error(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"with prompt", "Sorry, nothing found.", "Sorry, nothing found."},
		{"empty prompt", "", UnexpectedError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			renderer := &stubRenderer{reply: "should not be used"}
			svc, _, sess := newTestService(router.Result{Kind: router.KindError, Prompt: tc.prompt}, renderer)

			reply := svc.Send(context.Background(), sess, "add it")
			if reply.Content != tc.want {
				t.Errorf("Content = %q, want %q", reply.Content, tc.want)
			}
			if len(renderer.reqs) != 0 {
				t.Error("error results must bypass the model")
			}
		})
	}
}

func TestSend_SuccessAddsHiddenTurn(t *testing.T) {
	renderer := &stubRenderer{reply: "1. Heat (1995)\nhttps://www.youtube.com/watch?v=0xbBLJ1WGwQ\nPoster: https://img.example/heat.jpg"}
	svc, _, sess := newTestService(router.Result{
		Kind:         router.KindSuccess,
		Action:       action.GetDetails,
		ActionJSON:   `{"title":"Heat"}`,
		ActionPrompt: "Describe the movie.",
	}, renderer)

	reply := svc.Send(context.Background(), sess, "tell me about heat")

	if len(renderer.reqs) != 1 {
		t.Fatalf("render calls = %d, want 1", len(renderer.reqs))
	}
	req := renderer.reqs[0]
	if req.Prompt != `{"title":"Heat"}` || req.System != "Describe the movie." || req.Purpose != gateway.PurposeRender {
		t.Errorf("render request = %+v", req)
	}
	if !strings.Contains(reply.Content, "[Watch on YouTube](https://www.youtube.com/watch?v=0xbBLJ1WGwQ)") {
		t.Errorf("Content = %q, want embedded trailer link", reply.Content)
	}
	if !strings.Contains(reply.Content, "![Image](https://img.example/heat.jpg)") {
		t.Errorf("Content = %q, want embedded image", reply.Content)
	}
	if got := strings.Join(reply.NewTrailers, ","); got != "0xbBLJ1WGwQ" {
		t.Errorf("NewTrailers = %s", got)
	}

	history := sess.History()
	if len(history) != 4 {
		t.Fatalf("history len = %d, want 4", len(history))
	}
	hidden := history[2]
	if hidden.Role != models.RoleHidden || hidden.Content != HiddenMemoryPrefix+`{"title":"Heat"}` {
		t.Errorf("hidden turn = %+v", hidden)
	}
	if history[3].Role != models.RoleAssistant {
		t.Errorf("last turn = %+v, want assistant", history[3])
	}
	for _, turn := range sess.Visible() {
		if turn.Role == models.RoleHidden {
			t.Fatal("visible transcript contains a hidden turn")
		}
	}
}

func TestSend_SuccessEmptyReply(t *testing.T) {
	svc, _, sess := newTestService(router.Result{Kind: router.KindSuccess, ActionJSON: `{}`}, &stubRenderer{reply: "  "})
	if reply := svc.Send(context.Background(), sess, "x"); reply.Content != NoContentReply {
		t.Errorf("Content = %q, want %q", reply.Content, NoContentReply)
	}
}

func TestSend_RenderFailure(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("overloaded")}
	svc, _, sess := newTestService(router.Result{Kind: router.KindSuccess, ActionJSON: `{"ok":true}`}, renderer)

	reply := svc.Send(context.Background(), sess, "add heat")
	if reply.Content != router.ModelUnavailablePrompt {
		t.Errorf("Content = %q", reply.Content)
	}
	if got := sess.History()[2]; got.Role != models.RoleHidden {
		t.Errorf("turn = %+v, want hidden record kept", got)
	}
}

func TestSend_TrailersDeduplicated(t *testing.T) {
	renderer := &stubRenderer{reply: "https://youtube.com/watch?v=aaa and https://www.youtube.com/watch?v=bbb"}
	svc, _, sess := newTestService(router.Result{Kind: router.KindSuccess, ActionJSON: `{}`}, renderer)

	svc.Send(context.Background(), sess, "one")
	second := svc.Send(context.Background(), sess, "two")

	if len(second.NewTrailers) != 0 {
		t.Errorf("NewTrailers = %v, want none on repeat", second.NewTrailers)
	}
	if got := strings.Join(sess.Trailers(), ","); got != "aaa,bbb" {
		t.Errorf("Trailers() = %s", got)
	}
}

func TestSend_UnknownKind(t *testing.T) {
	svc, _, sess := newTestService(router.Result{Kind: "weird"}, nil)
	if reply := svc.Send(context.Background(), sess, "x"); reply.Content != UnexpectedState {
		t.Errorf("Content = %q", reply.Content)
	}
}

func TestSend_RecordsTurnAndPublishes(t *testing.T) {
	db, err := store.New(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background(), "assistant", turnlog.Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	turns := turnlog.New(db.DB())

	bus := event.NewBus(zap.NewNop())
	var mu sync.Mutex
	var got []TurnCompletedEvent
	bus.Subscribe(TopicTurnCompleted, func(_ context.Context, e plugin.Event) {
		mu.Lock()
		got = append(got, e.Payload.(TurnCompletedEvent))
		mu.Unlock()
	})

	svc, _, sess := newTestService(router.Result{Kind: router.KindError, Prompt: "Trakt is down."}, nil,
		WithTurnLog(turns), WithBus(bus))
	svc.Send(context.Background(), sess, "my watchlist")
	bus.Wait()

	entries, total, err := turns.List(context.Background(), "", 10, 0)
	if err != nil || total != 1 {
		t.Fatalf("List = %v, %d, %v", entries, total, err)
	}
	if e := entries[0]; e.SessionID != sess.ID || e.Outcome != "error" || e.Error != "Trakt is down." || e.UserMessage != "my watchlist" {
		t.Errorf("entry = %+v", e)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].SessionID != sess.ID || got[0].Outcome != "error" {
		t.Errorf("events = %+v", got)
	}
}

func TestSessionStore(t *testing.T) {
	st := NewSessionStore(greeting)
	s := st.Create()

	if h := s.History(); len(h) != 1 || h[0].Content != greeting || h[0].Role != models.RoleAssistant {
		t.Errorf("initial history = %+v", h)
	}
	if got, ok := st.Get(s.ID); !ok || got != s {
		t.Error("Get() did not return the created session")
	}

	s.append(models.Turn{Role: models.RoleUser, Content: "hi"}, models.Turn{Role: models.RoleHidden, Content: "x"})
	s.addTrailers([]string{"abc"})
	st.Reset(s)
	if len(s.History()) != 1 || len(s.Trailers()) != 0 {
		t.Errorf("after Reset history = %+v trailers = %v", s.History(), s.Trailers())
	}

	if !st.Delete(s.ID) || st.Delete(s.ID) {
		t.Error("Delete() should report true once")
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
}

func TestMedia(t *testing.T) {
	text := "See https://www.youtube.com/watch?v=a_B-1 and https://youtube.com/watch?v=zz9 or https://x.io/p.webp"
	ids := ExtractYouTubeIDs(text)
	if strings.Join(ids, ",") != "a_B-1,zz9" {
		t.Errorf("ExtractYouTubeIDs() = %v", ids)
	}
	if EmbedURL("a_B-1") != "https://www.youtube.com/embed/a_B-1" {
		t.Errorf("EmbedURL() = %s", EmbedURL("a_B-1"))
	}
	if got := EmbedLinks("plain text"); got != "plain text" {
		t.Errorf("EmbedLinks() = %q", got)
	}
	if got := EmbedLinks("https://x.io/p.webp"); got != "![Image](https://x.io/p.webp)" {
		t.Errorf("EmbedLinks() = %q", got)
	}
}
