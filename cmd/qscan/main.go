package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/qscan/internal/adapter"
	"github.com/mmcdole/qscan/internal/adapter/camera"
	"github.com/mmcdole/qscan/internal/adapter/codec"
	"github.com/mmcdole/qscan/internal/config"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/mmcdole/qscan/internal/log"
	"github.com/mmcdole/qscan/internal/service"
	"github.com/mmcdole/qscan/internal/store"
	"github.com/mmcdole/qscan/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage: qscan [flags] [command]

Commands:
  scan              Scan codes with a camera (default)
  gen [TEXT]        Generate a QR code; with TEXT, save it and exit
  decode FILE       Decode an image file ("-" reads stdin)
  config init       Write the current configuration to the config file

Flags:
  -v, --version     Print version
`

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if showVersion {
		fmt.Printf("qscan %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qscan: logging disabled: %v\n", err)
		logger = log.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting qscan", "version", Version, "args", args)

	command := "scan"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "scan":
		if err := requireTerminal(); err != nil {
			return err
		}
		return runScan(cfg, logger)

	case "gen", "generate":
		if len(args) > 0 {
			return runGenerateOnce(cfg, logger, strings.Join(args, " "))
		}
		if err := requireTerminal(); err != nil {
			return err
		}
		return runGenerate(cfg, logger)

	case "decode":
		if len(args) != 1 {
			return fmt.Errorf("decode needs exactly one FILE argument")
		}
		return runDecode(cfg, logger, args[0])

	case "config":
		if len(args) != 1 || args[0] != "init" {
			return fmt.Errorf("usage: qscan config init")
		}
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved")
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireTerminal refuses to start the TUI when stdout is not a terminal
func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive pages need a terminal; use 'qscan decode' or 'qscan gen TEXT' in scripts")
	}
	return nil
}

func runScan(cfg *config.Config, logger *slog.Logger) error {
	decoder, err := codec.NewZXingDecoder(cfg.ScanConfig())
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	cam, err := camera.New(&cfg.Camera, logger)
	if err != nil {
		return fmt.Errorf("failed to create camera backend: %w", err)
	}

	clip := adapter.NewClipboard()
	if !clip.Available() {
		logger.Warn("no clipboard utility found, copy will fail")
	}

	deps := service.ScanDeps{
		Camera:    cam,
		Decoder:   decoder,
		Clipboard: clip,
		Opener:    adapter.NewLauncher(cfg.Browser.Command, cfg.Browser.Args, logger),
	}

	// Last-camera hint is opt-in; sessions and results are never stored
	if cfg.Preferences.RememberLastCamera {
		prefs, err := store.NewPrefStore(config.StorePath())
		if err != nil {
			logger.Warn("preferences unavailable", "error", err)
		} else {
			defer prefs.Close()
			deps.Prefs = prefs
		}
	}

	svc := service.NewScanService(deps, cfg.ScanConfig(), logger)
	defer svc.Close()

	results := make(chan domain.DecodedResult, 8)
	svc.SetObserver(tui.NewChannelObserver(results))

	model := tui.NewScanModel(svc, results, cfg.Scanner.AutoStart)
	return runProgram(model, logger)
}

func runGenerate(cfg *config.Config, logger *slog.Logger) error {
	svc, err := newGenerateService(cfg, logger)
	if err != nil {
		return err
	}
	return runProgram(tui.NewGenerateModel(svc), logger)
}

// runGenerateOnce generates text and saves it without the TUI
func runGenerateOnce(cfg *config.Config, logger *slog.Logger, text string) error {
	svc, err := newGenerateService(cfg, logger)
	if err != nil {
		return err
	}
	if _, err := svc.Generate(text); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	path, err := svc.Download()
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	fmt.Println(path)
	return nil
}

func runDecode(cfg *config.Config, logger *slog.Logger, path string) error {
	decoder, err := codec.NewZXingDecoder(cfg.ScanConfig())
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	svc := service.NewScanService(service.ScanDeps{Decoder: decoder}, cfg.ScanConfig(), logger)

	var r domain.DecodedResult
	if path == "-" {
		r, err = svc.DecodeReader(os.Stdin)
	} else {
		r, err = svc.DecodeFile(path)
	}
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	fmt.Println(r.Payload)
	return nil
}

func newGenerateService(cfg *config.Config, logger *slog.Logger) (*service.GenerateService, error) {
	encoder, err := codec.NewEncoder(cfg.Generator.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	saver := adapter.NewFileSaver(cfg.Generator.OutputDir, logger)
	return service.NewGenerateService(encoder, saver, cfg.RenderConfig(), cfg.Generator.Filename, logger), nil
}

func runProgram(model tea.Model, logger *slog.Logger) error {
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
