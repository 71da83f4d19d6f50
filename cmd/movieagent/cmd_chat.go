package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/chat"
	"github.com/MattTPin/movie-reccomendation-agent/internal/router"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trailerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).PaddingLeft(2)
)

var chatCommands = []string{"/reset", "/trailers", "/help", "/quit", "/exit"}

const chatHelp = `Commands:
  /reset      start over with a fresh conversation
  /trailers   list trailers mentioned so far
  /help       show this help
  /quit       leave the chat`

// runChat talks to the assistant in the terminal. Logs go to a file so
// they do not interleave with the conversation.
func runChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	logFile := fs.String("log", "movieagent-chat.log", "file that receives log output")
	history := fs.String("history", filepath.Join(os.TempDir(), "movieagent_history"), "readline history file")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, *configPath, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "movieagent: %v\n", err)
		os.Exit(1)
	}
	defer a.close(context.Background())

	service, sessions := a.assistant.Chat()
	if service == nil {
		fmt.Fprintf(os.Stderr, "movieagent: assistant unavailable: %s\n", a.assistant.Health(ctx).Message)
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptStyle.Render("you> "),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "movieagent: %v\n", err)
		return
	}
	defer rl.Close()

	r := newREPL(service, sessions, rl.Stdout(), a.assistant.TurnTimeout())
	r.greet()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if err != nil {
			return
		}
		if r.handle(ctx, line) {
			return
		}
	}
}

// repl owns one terminal conversation.
type repl struct {
	service  *chat.Service
	sessions *chat.SessionStore
	session  *chat.Session
	out      io.Writer
	timeout  time.Duration
	render   func(string) string
}

func newREPL(service *chat.Service, sessions *chat.SessionStore, out io.Writer, timeout time.Duration) *repl {
	return &repl{
		service:  service,
		sessions: sessions,
		session:  sessions.Create(),
		out:      out,
		timeout:  timeout,
		render:   markdownRenderer(),
	}
}

func (r *repl) greet() {
	for _, t := range r.session.Visible() {
		if t.Role == models.RoleAssistant {
			fmt.Fprint(r.out, r.render(t.Content))
		}
	}
	fmt.Fprintln(r.out, noticeStyle.Render("Type /help for commands."))
}

// handle processes one input line and reports whether to exit.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
		return false
	case "/reset":
		r.sessions.Reset(r.session)
		fmt.Fprintln(r.out, noticeStyle.Render("Conversation cleared."))
		r.greet()
		return false
	case "/trailers":
		r.printTrailers(r.session.Trailers())
		return false
	}
	if strings.HasPrefix(line, "/") {
		msg := "Unknown command " + line + "."
		if s := suggestCommand(line); s != "" {
			msg += " Did you mean " + s + "?"
		}
		fmt.Fprintln(r.out, warningStyle.Render(msg+" Type /help."))
		return false
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	fmt.Fprintln(r.out, noticeStyle.Render("thinking..."))
	reply := r.service.Send(ctx, r.session, line)

	switch reply.Kind {
	case router.KindError:
		fmt.Fprintln(r.out, warningStyle.Render(reply.Content))
	default:
		fmt.Fprint(r.out, r.render(reply.Content))
	}
	if len(reply.NewTrailers) > 0 {
		r.printTrailers(reply.NewTrailers)
	}
	return false
}

// suggestCommand returns the command within two edits of cmd, if any.
func suggestCommand(cmd string) string {
	best, bestDist := "", 3
	for _, c := range chatCommands {
		if d := levenshtein.ComputeDistance(cmd, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (r *repl) printTrailers(ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(r.out, noticeStyle.Render("No trailers yet."))
		return
	}
	fmt.Fprintln(r.out, noticeStyle.Render("Trailers:"))
	for _, id := range ids {
		fmt.Fprintln(r.out, trailerStyle.Render(chat.EmbedURL(id)))
	}
}

// markdownRenderer returns a glamour renderer, or plain passthrough when
// the terminal style cannot be built.
func markdownRenderer() func(string) string {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(s string) string { return s + "\n" }
	}
	return func(s string) string {
		out, err := tr.Render(s)
		if err != nil {
			return s + "\n"
		}
		return out
	}
}
