package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kobzarvs/medit/internal/config"
	"github.com/kobzarvs/medit/internal/editor"
	"github.com/kobzarvs/medit/internal/gitinfo"
	"github.com/kobzarvs/medit/internal/logger"
	"github.com/kobzarvs/medit/internal/syntax"
	"github.com/kobzarvs/medit/internal/watch"
)

// App is the top-level runtime for medit.
type App struct {
	args []string
	log  *zap.Logger

	path     string
	headFile string
}

func New(args []string) *App {
	return &App{args: args, log: logger.Nop()}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	log, closeLog, err := logger.New(cfg.Editor.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()
	a.log = log

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	return a.run(s, cfg, langs)
}

// run drives the event loop on an initialized screen until the editor asks
// to quit. Watcher events arrive as tcell interrupts, so every state change
// happens on this goroutine.
func (a *App) run(s tcell.Screen, cfg config.Config, langs config.Languages) error {
	ed := editor.New(cfg, editor.WithLogger(a.log))
	if len(a.args) > 0 {
		path, err := filepath.Abs(a.args[0])
		if err != nil {
			return err
		}
		a.path = path
		if err := ed.OpenFile(path); err != nil {
			return err
		}
		if h, err := syntax.ForPath(langs, path); err == nil {
			ed.SetHighlighter(h)
			defer h.Close()
		} else if !errors.Is(err, syntax.ErrUnsupported) {
			a.log.Warn("syntax highlighter", zap.Error(err))
		}
	}

	if info, err := gitinfo.Lookup(a.gitPath()); err == nil {
		a.headFile = info.HeadFile
		ed.SetGitBranch(info.Branch)
	}

	if cfg.Editor.WatchFile && a.path != "" {
		w, err := a.startWatcher(s)
		if err != nil {
			a.log.Warn("file watcher disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	a.log.Info("editor started", zap.String("path", a.path))
	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				a.log.Info("editor quit")
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if fe, ok := ev.Data().(watch.Event); ok {
				a.handleFileEvent(ed, fe)
			}
		}
		ed.Render(s)
	}
}

func (a *App) gitPath() string {
	if a.path != "" {
		return a.path
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

func (a *App) startWatcher(s tcell.Screen) (*watch.Watcher, error) {
	w, err := watch.New(watch.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	files := []string{a.path}
	if a.headFile != "" {
		files = append(files, a.headFile)
	}
	for _, f := range files {
		if err := w.Add(f); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch %s: %w", f, err)
		}
	}
	go func() {
		for ev := range w.Events() {
			_ = s.PostEvent(tcell.NewEventInterrupt(ev))
		}
	}()
	return w, nil
}

// handleFileEvent refreshes the branch when HEAD moves and reloads the
// document when it changed on disk.
func (a *App) handleFileEvent(ed *editor.Editor, ev watch.Event) {
	switch ev.Path {
	case a.headFile:
		ed.SetGitBranch(gitinfo.Branch(a.gitPath()))
	case a.path:
		if _, err := ed.ReloadFromDisk(); err != nil {
			a.log.Error("reload failed", zap.Error(err))
			ed.SetNotification(err.Error())
		}
	}
}
