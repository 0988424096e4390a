package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/google/uuid"
	"github.com/tartampluch/go-monthcal/internal/calendar"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/server"
	"github.com/tartampluch/go-monthcal/internal/store"
	"github.com/tartampluch/go-monthcal/internal/ui"
	"github.com/zalando/go-keyring"
)

// options carries the parsed command line.
type options struct {
	showVersion bool
	debug       bool
	dataDir     string
	noFeed      bool
}

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(args []string) int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return config.ExitCodeError
	}

	if opts.showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// parseFlags reads the command line into options. Usage errors are written to out.
func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppID, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVar(&opts.showVersion, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.StringVar(&opts.dataDir, config.FlagDataDir, "", config.FlagDescDataDir)
	fs.BoolVar(&opts.noFeed, config.FlagNoFeed, false, config.FlagDescNoFeed)
	err := fs.Parse(args)
	return opts, err
}

// run initializes the Fyne application, wires dependencies, and starts the UI loop.
func run(ctx context.Context, opts options) error {
	a := app.NewWithID(config.AppID)
	prefs := a.Preferences()

	// Record the version for potential migration logic in future updates.
	prefs.SetString(config.PrefLastRun, config.Version)

	st, err := openStore(prefs, opts.dataDir)
	if err != nil {
		return err
	}

	var srv *server.CalendarServer
	if !opts.noFeed && prefs.BoolWithFallback(config.PrefFeedEnabled, true) {
		srv = newFeedServer(prefs)
	} else {
		slog.Info(config.MsgFeedDisabled, config.LogKeyComponent, config.CompMain)
	}

	gui := ui.NewMonthCalApp(a, ctx, ui.Options{
		Store:  st,
		Server: srv,
	})

	// Lifecycle Bridge:
	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	// Blocks until the main window closes.
	gui.Run()

	return nil
}

// openStore picks where events live: a directory of JSON files when dataDir
// is set, the Fyne preferences otherwise.
func openStore(prefs fyne.Preferences, dataDir string) (calendar.Store, error) {
	if dataDir == "" {
		slog.Info(config.MsgStoreSelected,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyStore, config.StoreKindPreferences)
		return store.NewEventStore(store.NewPreferencesBlob(prefs)), nil
	}

	blob, err := store.NewFileBlob(dataDir)
	if err != nil {
		return nil, err
	}
	slog.Info(config.MsgStoreSelected,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyStore, config.StoreKindFile,
		config.LogKeyFile, dataDir)
	return store.NewEventStore(blob), nil
}

// newFeedServer builds the localhost feed server, or returns nil when no
// access token can be obtained.
func newFeedServer(prefs fyne.Preferences) *server.CalendarServer {
	token, err := feedToken()
	if err != nil {
		slog.Warn(config.ErrKeyring,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return nil
	}
	return server.NewCalendarServer(feedPort(prefs), token)
}

// feedPort reads the port preference, falling back to the default when the
// stored value is not a valid port.
func feedPort(prefs fyne.Preferences) string {
	port := prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort)
	if _, err := server.ParsePort(port); err != nil {
		slog.Warn(config.ErrInvalidPortPref,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyPort, port,
			config.LogKeyError, err)
		return config.DefaultPort
	}
	return port
}

// feedToken returns the feed access token from the OS keyring, creating one
// on first launch.
func feedToken() (string, error) {
	token, err := keyring.Get(config.KeyringService, config.KeyringFeedUser)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}

	token = uuid.NewString()
	if err := keyring.Set(config.KeyringService, config.KeyringFeedUser, token); err != nil {
		return "", err
	}
	slog.Info(config.MsgFeedToken, config.LogKeyComponent, config.CompMain)
	return token, nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: JSON to stdout and to a
// log file in the user cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
