// # cmd/tokenbridge/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tokenbridge/internal/build"
	"tokenbridge/internal/config"
	"tokenbridge/internal/devserver"
	"tokenbridge/internal/export"
	"tokenbridge/internal/relevance"
	"tokenbridge/internal/shared/observability"
	"tokenbridge/internal/tokens"
	"tokenbridge/internal/watcher"
)

type App struct {
	Config *config.Config
	Server *devserver.Server
	Runner *build.Runner

	limiter    *build.Limiter
	watcher    *watcher.Watcher
	teaProgram *tea.Program

	mu        sync.Mutex
	tree      tokens.Tree
	lastBuild *build.Result
	events    []buildEvent
}

type buildEvent struct {
	When     time.Time
	File     string
	Relevant bool
	Result   *build.Result
}

func NewApp(cfg *config.Config) (*App, error) {
	srv, err := devserver.New(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Server:  srv,
		limiter: build.NewLimiter(cfg.Watch.BuildRate, cfg.Watch.BuildBurst),
	}
	a.Runner = build.NewRunner(cfg.Build, srv.Root(), nil, a.onBuildDone)
	return a, nil
}

// InitialLoad resolves the configured entry, executes it through the loader,
// and keeps the resulting token tree for the UI and health endpoint.
func (a *App) InitialLoad(ctx context.Context) error {
	tree, err := tokens.Parse(ctx, a.Server, a.Config.DefaultEntry)
	if err != nil {
		// Script entries cannot be executed by the embedded loader; the
		// build command owns evaluation then, and the graph still drives
		// change relevance.
		slog.Warn("token entry not executable here, relying on build command",
			"entry", a.Config.DefaultEntry, "error", err)
		return nil
	}

	a.mu.Lock()
	a.tree = tree
	a.mu.Unlock()

	slog.Info("loaded token tree", "entry", a.Config.DefaultEntry, "groups", len(tree))
	return nil
}

// BuildNow runs one build immediately, bypassing relevance checks.
func (a *App) BuildNow(ctx context.Context, reason string) build.Result {
	result := a.Runner.Build(ctx, reason)
	if a.watcher != nil {
		a.watcher.SetOutputFiles(result.Outputs)
	}
	return result
}

// HandleChanges is the watcher callback: re-scan changed files, decide
// whether any of them can affect the token entries, and rebuild if so.
func (a *App) HandleChanges(paths []string) {
	ctx := context.Background()
	slog.Info("detected changes", "count", len(paths))

	for _, path := range paths {
		a.Server.Invalidate(ctx, path)
	}

	relevantFile := ""
	for _, path := range paths {
		if relevance.IsRelevant(ctx, a.Server, a.Config.Sources, path) {
			relevantFile = path
			break
		}
	}

	if relevantFile == "" {
		a.recordEvent(buildEvent{When: time.Now(), File: firstOf(paths), Relevant: false})
		slog.Debug("changes not relevant to token entries", "paths", paths)
		a.notifyUI()
		return
	}

	if err := a.limiter.Wait(ctx); err != nil {
		slog.Warn("build rate limit wait aborted", "error", err)
		return
	}

	if err := a.InitialLoad(ctx); err != nil {
		slog.Warn("token reload failed", "error", err)
	}

	result := a.BuildNow(ctx, relevantFile)
	a.recordEvent(buildEvent{When: time.Now(), File: relevantFile, Relevant: true, Result: &result})
	a.notifyUI()

	if a.Config.Alerts.Beep && result.Err != nil {
		fmt.Print("\a")
	}
}

func (a *App) onBuildDone(result build.Result) {
	a.mu.Lock()
	a.lastBuild = &result
	a.mu.Unlock()
}

func (a *App) recordEvent(event buildEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	if len(a.events) > 50 {
		a.events = a.events[len(a.events)-50:]
	}
}

// ExportGraphDOT writes the current token module graph as Graphviz DOT.
func (a *App) ExportGraphDOT(ctx context.Context, path string) error {
	dot, err := export.NewDOTGenerator(a.Server).Generate(ctx, a.Config.Sources)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(dot), 0644)
}

// Health feeds the observability server's /health endpoint.
func (a *App) Health(ctx context.Context) (string, map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	details := map[string]any{
		"project_root": a.Server.Root(),
		"token_groups": len(a.tree),
	}
	status := observability.StatusOK
	if a.lastBuild != nil {
		details["last_build_id"] = a.lastBuild.RunID
		if a.lastBuild.Err != nil {
			status = "degraded"
			details["last_build_error"] = a.lastBuild.Err.Error()
		}
	}
	return status, details
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	w.SetOutputFiles(build.OutputFiles(a.Config.Build, a.Server.Root()))
	a.watcher = w

	// Note: the watcher runs for the process lifetime, no Close here.
	return w.Watch([]string{a.Server.Root()})
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go a.notifyUI()

	_, err := p.Run()
	return err
}

func (a *App) notifyUI() {
	if a.teaProgram == nil {
		return
	}

	a.mu.Lock()
	msg := updateMsg{
		events:      append([]buildEvent(nil), a.events...),
		tokenGroups: len(a.tree),
		lastBuild:   a.lastBuild,
	}
	a.mu.Unlock()

	a.teaProgram.Send(msg)
}

func firstOf(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}
