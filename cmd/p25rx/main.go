package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/radioscan/p25rx/internal/config"
	"github.com/radioscan/p25rx/internal/database"
	"github.com/radioscan/p25rx/internal/logger"
	"github.com/radioscan/p25rx/internal/monitor"
	"github.com/radioscan/p25rx/internal/p25"
	"github.com/radioscan/p25rx/internal/source"
)

// VERSION is the release version
const VERSION = "1.0.0"

// multiListener fans one message out to several sinks in order.
type multiListener []p25.MessageListener

func (m multiListener) Receive(msg p25.Message) {
	for _, l := range m {
		l.Receive(msg)
	}
}

// tally counts emitted messages per data unit type for the run summary.
type tally struct {
	counts map[p25.DUID]int
}

func (t *tally) Receive(msg p25.Message) {
	t.counts[msg.DUID()]++
}

func (t *tally) summary() string {
	duids := make([]p25.DUID, 0, len(t.counts))
	for d := range t.counts {
		duids = append(duids, d)
	}
	sort.Slice(duids, func(i, j int) bool { return duids[i] < duids[j] })

	s := ""
	for _, d := range duids {
		s += fmt.Sprintf(" %s:%d", d, t.counts[d])
	}
	if s == "" {
		s = " none"
	}
	return s
}

func main() {
	configFile := pflag.StringP("config", "c", "", "Configuration file path")
	inputPath := pflag.StringP("input", "i", "", "Input file path, - for stdin (overrides config)")
	inverted := pflag.Bool("invert", false, "Invert symbol polarity (overrides config)")
	logLevel := pflag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	showVersion := pflag.BoolP("version", "v", false, "Print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("p25rx v%s\n", VERSION)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input.Type = "file"
		cfg.Input.Path = *inputPath
	}
	if pflag.CommandLine.Changed("invert") {
		cfg.Decoder.Inverted = *inverted
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Output: os.Stderr})
	log.Info(fmt.Sprintf("p25rx v%s starting", VERSION))

	if err := run(cfg, log); err != nil {
		log.Error("exiting", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	framerCfg, err := cfg.FramerConfig()
	if err != nil {
		return err
	}
	framer := p25.NewFramer(framerCfg, log.WithComponent("framer"))
	defer framer.Dispose()

	counts := &tally{counts: make(map[p25.DUID]int)}
	listeners := multiListener{counts}

	// Console listener.
	listeners = append(listeners, p25.MessageListenerFunc(func(msg p25.Message) {
		log.Info(msg.String())
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.Enabled {
		dbLog := log.WithComponent("database")
		store, err := database.Open(cfg.Database.Path, dbLog)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		listeners = append(listeners, p25.MessageListenerFunc(func(msg p25.Message) {
			if err := store.Messages.Save(msg); err != nil {
				dbLog.Warn("failed to record message", logger.Err(err))
			}
		}))
	}

	if cfg.Monitor.Enabled {
		hub := monitor.NewHub(log.WithComponent("monitor"))
		server := monitor.NewServer(hub, cfg.Monitor.Bind, log.WithComponent("monitor"))
		server.Start(ctx)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			server.Stop(shutdownCtx)
		}()

		metrics := monitor.NewMetrics(nil)
		framer.SetStats(metrics)
		listeners = append(listeners, hub, metrics)
	}

	framer.SetListener(listeners)

	// Cancel on SIGINT/SIGTERM.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("shutdown requested", logger.String("signal", sig.String()))
		cancel()
	}()

	if err := runSource(ctx, cfg, framer, log); err != nil && err != context.Canceled {
		return err
	}

	log.Info("messages decoded:" + counts.summary())
	return nil
}

func runSource(ctx context.Context, cfg *config.Config, framer *p25.Framer, log *logger.Logger) error {
	format, err := source.ParseFormat(cfg.Input.Format)
	if err != nil {
		return err
	}

	switch cfg.Input.Type {
	case "udp":
		udp := source.NewUDPSource(cfg.Input.Address, format, log.WithComponent("source"))
		if err := udp.Open(); err != nil {
			return err
		}
		defer udp.Close()
		return udp.Run(ctx, framer)

	default:
		in := os.Stdin
		if cfg.Input.Path != "-" && cfg.Input.Path != "" {
			f, err := os.Open(cfg.Input.Path)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			in = f
		}
		return source.NewReader(in, format).Run(ctx, framer)
	}
}
