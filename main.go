package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"codeberg.org/miketth/xkbridge/pkg/bridge"
	"codeberg.org/miketth/xkbridge/pkg/config"
	"codeberg.org/miketth/xkbridge/pkg/dbussink"
	"codeberg.org/miketth/xkbridge/pkg/groupstore"
	jsonstore "codeberg.org/miketth/xkbridge/pkg/groupstore/json"
	"codeberg.org/miketth/xkbridge/pkg/groupstore/memory"
	"codeberg.org/miketth/xkbridge/pkg/groupstore/sqlite"
	"codeberg.org/miketth/xkbridge/pkg/luahost"
	"codeberg.org/miketth/xkbridge/pkg/x11"
	"codeberg.org/miketth/xkbridge/pkg/xkblayouts"
	"github.com/coreos/go-systemd/v22/daemon"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	display := flag.String("display", "", "X display to connect to (default $DISPLAY)")
	evdevXmlPath := flag.String("evdev-xml-path", xkblayouts.DefaultPath, "path to evdev.xml")
	store := flag.String("store", string(config.StoreSQLite), "where to keep the last group: memory, json or sqlite")
	restoreGroup := flag.Bool("restore-group", false, "switch to the last saved group on startup")
	useDBus := flag.Bool("dbus", false, "broadcast signals on the session bus")
	scripts := flag.StringSlice("script", nil, "lua script to run after startup, may be repeated")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, err := newLogger(*debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flag.CommandLine.Changed("display") {
		cfg.Display = *display
	}
	if flag.CommandLine.Changed("evdev-xml-path") {
		cfg.EvdevXMLPath = *evdevXmlPath
	}
	if flag.CommandLine.Changed("store") {
		cfg.Store = config.StoreKind(*store)
	}
	if flag.CommandLine.Changed("restore-group") {
		cfg.RestoreGroup = *restoreGroup
	}
	if flag.CommandLine.Changed("dbus") {
		cfg.DBus = *useDBus
	}
	cfg.Scripts = append(cfg.Scripts, *scripts...)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var registry bridge.LayoutRegistry
	layouts, err := xkblayouts.ParseLayouts(cfg.EvdevXMLPath)
	if err != nil {
		log.Warnw("layout descriptions unavailable", "path", cfg.EvdevXMLPath, "error", err)
	} else {
		log.Debugw("loaded layout descriptions", "path", cfg.EvdevXMLPath, "entries", layouts.Len())
		registry = layouts
	}

	conn, err := x11.Connect(cfg.Display, log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	groups, saveLoop, closeStore, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open group store: %w", err)
	}
	defer closeStore()

	runtime := luahost.New(log)
	defer runtime.Close()

	sinks := bridge.Sinks{runtime, groupstore.NewRecorder(groups, log)}
	if cfg.DBus {
		dbus, closeBus, err := dbussink.Connect(log)
		if err != nil {
			return fmt.Errorf("dbus: %w", err)
		}
		defer closeBus()
		sinks = append(sinks, dbus)
	}

	kb := bridge.NewBridge(conn, sinks, registry, log)
	if err := kb.Init(); err != nil {
		log.Fatalw("xkb init failed", "error", err)
	}
	runtime.RegisterKeyboard(kb)

	if cfg.RestoreGroup {
		restoreLastGroup(kb, groups, log)
	}

	for _, script := range cfg.Scripts {
		if err := runtime.DoFile(script); err != nil {
			log.Warnw("script failed", "script", script, "error", err)
		}
	}

	if names, ok := kb.GetGroupNames(); ok {
		log.Infow("started xkbridge", "symbols", names)
	} else {
		log.Info("started xkbridge")
	}

	errChan := make(chan error, 3)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		err := conn.Pump(ctx, kb)
		if err != nil {
			errChan <- fmt.Errorf("pump events: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		err := systemdNotifyLoop(ctx)
		if err != nil {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()

	if saveLoop != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := saveLoop(ctx)
			if err != nil {
				errChan <- fmt.Errorf("save group: %w", err)
			}
		}()
	}

	return waitForShutdown(errChan, stop, &wg, log)
}

// waitForShutdown returns the first error a worker reports. Either way it
// cancels the other workers and waits for them, so the json store gets its
// final save before the process exits.
func waitForShutdown(errChan <-chan error, stop context.CancelFunc, wg *sync.WaitGroup, log *zap.SugaredLogger) error {
	err := <-errChan
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		err = nil
	}

	stop()
	wg.Wait()

	return err
}

func restoreLastGroup(kb *bridge.Bridge, groups groupstore.Store, log *zap.SugaredLogger) {
	rec, ok, err := groups.LastGroup()
	switch {
	case err != nil:
		log.Warnw("read last group", "error", err)
	case !ok:
		log.Debug("no saved group to restore")
	default:
		log.Infow("restoring group", "group", rec.Group, "saved_at", rec.UpdatedAt)
		kb.SetLayoutGroup(rec.Group)
	}
}

func openStore(cfg config.Config, log *zap.SugaredLogger) (
	store groupstore.Store,
	saveLoop func(context.Context) error,
	closeFn func() error,
	err error,
) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewGroupStore(), nil, noop, nil

	case config.StoreJSON:
		path, err := cfg.StatePath("group.json")
		if err != nil {
			return nil, nil, nil, err
		}
		s, err := jsonstore.NewGroupStore(path)
		if err != nil {
			return nil, nil, nil, err
		}
		// SaveLooper closes the file itself
		return s, s.SaveLooper, noop, nil

	case config.StoreSQLite:
		path, err := cfg.StatePath("groups.db")
		if err != nil {
			return nil, nil, nil, err
		}
		s, err := sqlite.NewGroupStore(path, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, nil, s.Close, nil
	}

	return nil, nil, nil, fmt.Errorf("store %q: %w", cfg.Store, config.ErrUnknownStore)
}

func systemdNotifyLoop(ctx context.Context) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	_, _ = daemon.SdNotify(false, "STATUS=Watching keyboard groups")

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	// if watchdog is not enabled, we don't need to notify it
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
