// Package main is the entry point for the codepad terminal editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codepad/internal/clipboard"
	"github.com/dshills/codepad/internal/config"
	"github.com/dshills/codepad/internal/engine"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// frameInterval is how often the engine's deferred work runs.
const frameInterval = 16 * time.Millisecond

type options struct {
	ConfigPath string
	LogPath    string
	LogLevel   string
	Language   string
	ReadOnly   bool
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := openLogger(cfg, opts.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()
	logging.SetDefault(logger)

	langs, err := lang.NewBuiltinRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load languages: %v\n", err)
		return 1
	}
	watcher := loadLanguages(cfg, langs, logger)
	if watcher != nil {
		defer watcher.Close()
	}

	content, err := readFile(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.Editor.Language == "" && opts.File != "" {
		if def, ok := langs.ForPath(opts.File); ok {
			cfg.Editor.Language = def.Name
		}
	}

	engineOpts, err := engine.FromConfig(cfg, langs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	engineOpts = append(engineOpts,
		engine.WithLogger(logger),
		engine.WithClipboard(clipboard.NewSystem()),
		engine.WithContent(content),
	)
	e := engine.New(engineOpts...)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnablePaste()

	ed := newEditor(e, screen, logger)
	ed.path = opts.File
	ed.markSaved()

	var changes <-chan lang.Change
	if watcher != nil {
		changes = watcher.Changes()
	}
	ed.loop(changes)
	return 0
}

// loop runs the editor until it quits. Events, frame ticks and language
// reloads are all handled on this goroutine.
func (ed *editor) loop(changes <-chan lang.Change) {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go ed.screen.ChannelEvents(events, quit)
	defer close(quit)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()

	ed.draw()
	for !ed.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			ed.handleEvent(ev)
		case now := <-ticker.C:
			ed.engine.Tick(now.Sub(last))
			last = now
		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			ed.languageChanged(c)
		case <-signals:
			return
		}
		ed.draw()
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogPath, "log", "", "Write log output to this file")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Language, "lang", "", "Language used for coloring")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the file in read-only mode (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "codepad - terminal code editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: codepad [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSettings can also be set with %s<SECTION>_<KEY> variables,\n", config.EnvPrefix)
		fmt.Fprintf(os.Stderr, "for example %sEDITOR_TAB_SIZE=2.\n", config.EnvPrefix)
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("codepad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: codepad edits one file at a time\n")
		os.Exit(1)
	}
	opts.File = flag.Arg(0)
	return opts
}

// loadConfig layers the config file, the environment and the command line
// over the defaults.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg, os.Environ()); err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Language != "" {
		cfg.Editor.Language = opts.Language
	}
	if opts.ReadOnly {
		cfg.Editor.ReadOnly = true
	}
	return cfg, nil
}

// openLogger creates the logger. The terminal is owned by the editor, so
// without a log file the output is discarded.
func openLogger(cfg *config.Config, path string) (*logging.Logger, func(), error) {
	lc := cfg.LoggerConfig()
	if path == "" {
		lc.Output = io.Discard
		return logging.New(lc), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	lc.Output = f
	return logging.New(lc), func() { _ = f.Close() }, nil
}

// loadLanguages registers the configured definition files. With watching
// enabled the files are loaded through a Watcher, which is returned.
func loadLanguages(cfg *config.Config, langs *lang.Registry, logger *logging.Logger) *lang.Watcher {
	if len(cfg.Languages.Paths) == 0 {
		return nil
	}
	log := logger.WithComponent("lang")

	var watcher *lang.Watcher
	if cfg.Languages.Watch {
		w, err := lang.NewWatcher(langs)
		if err != nil {
			log.Warn("file watching unavailable: %v", err)
		} else {
			watcher = w
		}
	}

	for _, path := range cfg.Languages.Paths {
		var err error
		if watcher != nil {
			err = watcher.Add(path)
		} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			_, err = langs.LoadDir(path)
		} else {
			_, err = langs.LoadFile(path)
		}
		if err != nil {
			log.Warn("loading %s: %v", path, err)
		}
	}
	return watcher
}

// readFile returns the content of path. A missing file starts empty.
func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
