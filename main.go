package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"acrn-configurator/api"
	"acrn-configurator/history"
	"acrn-configurator/watcher"
	"acrn-configurator/window"
)

// Set using -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "acrn-configurator",
		Short:         "Backend for the ACRN configurator frontend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is the normal case.
			_ = godotenv.Load()

			conf, err := readConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), conf)
		},
	}
	addFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, conf Config) error {
	zlog := newLogger(conf.LogFormat == "json")
	defer zlog.Sync() //nolint:errcheck
	log := zlog.Sugar()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	osFS := afero.NewOsFs()
	store := history.Open(osFS, log, conf.ConfigDir, history.WithMaxHistory(conf.MaxHistory))
	windows := window.NewManager()

	if conf.Watch && store.WriteEnabled() {
		go func() {
			err := watcher.Watch(ctx, log, store, func() {
				windows.Broadcast(window.Event{Type: "reload"})
			})
			if err != nil {
				log.Warnw("config watcher stopped", "err", err)
			}
		}()
	}

	if conf.WindowIdle > 0 {
		go reapWindows(ctx, log, windows, conf.WindowIdle)
	}

	var frontend fs.FS = staticFiles
	if conf.Static != "" {
		frontend = os.DirFS(conf.Static)
	}

	srv := &http.Server{
		Addr: conf.Addr,
		Handler: api.RegisterRoutes(api.Deps{
			Windows: windows,
			Store:   store,
			FS:      osFS,
			Log:     log,
		}, frontend),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infow("acrn-configurator listening", "addr", conf.Addr, "version", version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server error", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// reapWindows closes windows whose frontend went away without closing them.
func reapWindows(ctx context.Context, log *zap.SugaredLogger, windows *window.Manager, maxIdle time.Duration) {
	interval := maxIdle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range windows.Reap(maxIdle) {
				log.Infow("closed idle window", "id", id, "idle", maxIdle)
			}
		}
	}
}

func newLogger(json bool) *zap.Logger {
	econf := zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var core zapcore.Core

	if json {
		core = zapcore.NewCore(zapcore.NewJSONEncoder(econf), os.Stderr, zap.DebugLevel)
	} else {
		econf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(econf), os.Stderr, zap.InfoLevel)
	}
	return zap.New(core)
}
