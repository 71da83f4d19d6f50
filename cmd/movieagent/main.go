package main

//	@title			Movie Agent API
//	@version		0.4.0
//	@description	Conversational movie recommendations backed by Trakt, TMDB and a chat model.
//	@license.name	MIT
//	@BasePath		/api/v1

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/MattTPin/movie-reccomendation-agent/api/swagger"
	"github.com/MattTPin/movie-reccomendation-agent/internal/server"
	"github.com/MattTPin/movie-reccomendation-agent/internal/version"
	"go.uber.org/zap"
)

const usage = `Usage: movieagent [command] [flags]

Commands:
  serve     run the HTTP and WebSocket API (default)
  chat      talk to the assistant in the terminal
  version   print build information

Flags:
  -config string   path to configuration file
`

func main() {
	// Subcommand dispatch (before flag.Parse).
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		runServe(args)
	case "chat":
		runChat(args)
	case "version":
		printVersion()
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

func printVersion() {
	info := version.Info()
	fmt.Printf("movieagent %s (commit %s, built %s, %s %s)\n",
		info["version"], info["git_commit"], info["build_date"], info["go_version"], info["os_arch"])
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	showVersion := fs.Bool("version", false, "print version information and exit")
	_ = fs.Parse(args)

	if *showVersion {
		printVersion()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := bootstrap(ctx, *configPath, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "movieagent: %v\n", err)
		os.Exit(1)
	}
	logger := a.logger
	logger.Info("movieagent server starting", zap.String("version", version.Short()))

	srvCfg := server.DefaultConfig()
	if sub := a.v.Sub("server"); sub != nil {
		if err := sub.Unmarshal(&srvCfg); err != nil {
			logger.Fatal("invalid server configuration", zap.Error(err))
		}
	}
	logger.Info("HTTP server configured",
		zap.String("component", "server"),
		zap.String("addr", srvCfg.Addr()),
		zap.Duration("write_timeout", srvCfg.WriteTimeout),
		zap.Bool("dev_mode", srvCfg.DevMode),
	)

	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		if err := a.db.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if service, _ := a.assistant.Chat(); service == nil {
			return fmt.Errorf("assistant not ready: %s", a.assistant.Health(ctx).Message)
		}
		return nil
	})
	srv := server.New(srvCfg, a.reg, logger, readyCheck)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("movieagent server ready", zap.String("addr", srvCfg.Addr()))
	fmt.Fprintf(os.Stderr, "\n  movieagent %s is ready!\n  Chat at ws://localhost:%d/api/v1/assistant/ws\n\n", version.Short(), srvCfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	a.close(shutdownCtx)

	logger.Info("movieagent server stopped")
}
