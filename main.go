package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"

	"github.com/llehouerou/chorus/internal/acrcloud"
	"github.com/llehouerou/chorus/internal/app"
	"github.com/llehouerou/chorus/internal/capture"
	"github.com/llehouerou/chorus/internal/config"
	"github.com/llehouerou/chorus/internal/detect"
	"github.com/llehouerou/chorus/internal/errmsg"
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/lastfm"
	"github.com/llehouerou/chorus/internal/logging"
	"github.com/llehouerou/chorus/internal/lrclib"
	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/mpris"
	"github.com/llehouerou/chorus/internal/notify"
	"github.com/llehouerou/chorus/internal/state"
)

type options struct {
	logLevel logger.Level
	clip     string
	listen   bool
	history  int
}

func main() {
	opts := options{logLevel: logger.LevelInfo}
	pflag.Var(&opts.logLevel, "log-level", "Log level")
	pflag.StringVar(&opts.clip, "file", "", "Replay this audio clip instead of recording from the microphone")
	pflag.BoolVar(&opts.listen, "listen", false, "Start detecting right away")
	pflag.IntVar(&opts.history, "history", 0, "Print the last N detected tracks and exit")
	pflag.Parse()

	var err error
	if opts.history > 0 {
		err = printHistory(os.Stdout, opts.history)
	} else {
		err = run(opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if opts.clip != "" {
		cfg.Capture.Backend = "file"
		cfg.Capture.File = opts.clip
	}

	l, logFile := openLog(logging.OpenFile, opts.logLevel, os.Stderr)
	ctx := logging.Install(context.Background(), l)
	defer belt.Flush(ctx)

	// The store is optional: without it lyrics are cached in memory and
	// history is not kept.
	var cache lyrics.Cache
	store, err := state.Open()
	if err != nil {
		logger.Warnf(ctx, "%s: %v", errmsg.OpStateOpen, err)
	} else {
		cache = store
	}

	identifier, err := newIdentifier(cfg, cache)
	if err != nil {
		closeStore(store)
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	capCfg := cfg.GetCaptureConfig()
	rec, err := newRecorder(capCfg)
	if err != nil {
		closeStore(store)
		return errors.New(errmsg.Format(errmsg.OpRecorderOpen, err))
	}

	syncCfg := cfg.GetSyncConfig()
	svc := detect.New(ctx, rec, identifier, detect.Config{
		SampleDuration: capCfg.Duration,
		RetryDelay:     syncCfg.RetryDelay,
		RequestTimeout: syncCfg.RequestTimeout,
		Sync:           syncCfg.ClockParams(),
	})

	// Closed in order: the loop first so no cycle outlives the recorder.
	closers := []io.Closer{svc, rec}
	deps := app.Deps{Detect: svc, EndGrace: syncCfg.EndGrace}
	if store != nil {
		closers = append(closers, store)
		deps.History = store
	}

	if cfg.Notifications {
		n, err := notify.New()
		if err != nil {
			logger.Warnf(ctx, "%s: %v", errmsg.OpNotify, err)
		} else {
			deps.Notifier = notify.NewTrackNotifier(n)
		}
	}
	if cfg.MPRIS {
		adapter, err := mpris.New(svc)
		if err != nil {
			logger.Warnf(ctx, "%s: %v", errmsg.OpMPRISStart, err)
		} else {
			closers = append([]io.Closer{adapter}, closers...)
		}
	}
	if cfg.HasLastfmConfig() {
		client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		client.SetSessionKey(cfg.Lastfm.SessionKey)
		deps.Lastfm = client
	}

	if opts.listen {
		if err := svc.Start(); err != nil {
			logger.Errorf(ctx, "%s: %v", errmsg.OpDetectStart, err)
		}
	}

	logger.Infof(ctx, "chorus started (capture: %s)", capCfg.Backend)
	p := tea.NewProgram(app.New(ctx, deps), tea.WithAltScreen())
	_, runErr := p.Run()

	if logFile != nil {
		closers = append(closers, logFile)
	}
	if err := closeAll(closers); err != nil {
		logger.Errorf(ctx, "%s: %v", errmsg.OpShutdown, err)
		if runErr == nil {
			runErr = errors.New(errmsg.Format(errmsg.OpShutdown, err))
		}
	}
	return runErr
}

type logOpener func(logger.Level) (logger.Logger, io.Closer, error)

// openLog falls back to discarding logs, telling the user on stderr before
// the TUI takes over the terminal.
func openLog(open logOpener, level logger.Level, stderr io.Writer) (logger.Logger, io.Closer) {
	l, f, err := open(level)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %s; logging is disabled\n", errmsg.Format(errmsg.OpLogOpen, err))
		return logging.New(io.Discard, level), nil
	}
	return l, f
}

// newIdentifier prefers a chorusd server when one is configured.
// A nil cache keeps lyrics in memory.
func newIdentifier(cfg *config.Config, cache lyrics.Cache) (identify.Identifier, error) {
	if cfg.HasServerConfig() {
		return identify.NewRemote(cfg.Server.URL, cfg.GetSyncConfig().RequestTimeout), nil
	}
	if !cfg.HasACRCloudConfig() {
		return nil, errors.New("set acrcloud.access_key and acrcloud.access_secret, or server.url")
	}
	recognizer := acrcloud.New(acrcloud.Config{
		Host:         cfg.ACRCloud.Host,
		AccessKey:    cfg.ACRCloud.AccessKey,
		AccessSecret: cfg.ACRCloud.AccessSecret,
		Timeout:      cfg.ACRCloud.Timeout,
	})
	client := lrclib.New(cfg.Lrclib.URL)
	source := lyrics.NewSource(client)
	if cache != nil {
		source = lyrics.NewCachedSource(client, cache)
	}
	return identify.NewService(recognizer, source), nil
}

func newRecorder(cfg config.CaptureConfig) (capture.Recorder, error) {
	if cfg.Backend == "file" {
		if cfg.File == "" {
			return nil, errors.New("capture.file is required by the file backend")
		}
		return capture.NewFileRecorder(cfg.File), nil
	}
	return capture.NewPulseRecorder(capture.PulseOptions{
		SampleRate: cfg.SampleRate,
		Source:     cfg.Source,
		Gain:       cfg.Gain,
	})
}

func closeAll(closers []io.Closer) error {
	var mErr *multierror.Error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("close %T: %w", c, err))
		}
	}
	return mErr.ErrorOrNil()
}

func closeStore(store *state.Manager) {
	if store != nil {
		store.Close()
	}
}

func printHistory(w io.Writer, limit int) error {
	store, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}
	defer store.Close()

	detections, err := store.RecentDetections(context.Background(), limit)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpHistoryLoad, err))
	}
	return writeHistory(w, detections, time.Now())
}

func writeHistory(w io.Writer, detections []state.Detection, now time.Time) error {
	if len(detections) == 0 {
		_, err := fmt.Fprintln(w, "No tracks detected yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range detections {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			humanize.RelTime(d.LockedAt, now, "ago", "from now"),
			d.Track.Name, d.Track.Artist, d.Track.Album)
	}
	return tw.Flush()
}
