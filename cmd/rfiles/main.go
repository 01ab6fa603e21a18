package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/rfiles/internal/app"
	"github.com/kk-code-lab/rfiles/internal/config"
	"github.com/kk-code-lab/rfiles/internal/export"
	"github.com/kk-code-lab/rfiles/internal/logging"
	"github.com/kk-code-lab/rfiles/internal/metrics"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	"github.com/kk-code-lab/rfiles/internal/view"
	"go.uber.org/zap"
)

func printHelp() {
	fmt.Print(`rfiles - Terminal file browser over an in-memory workspace

USAGE:
    rfiles [OPTIONS]

OPTIONS:
    -h, --help            Show this help message and exit
    -c, --config FILE     Read settings from FILE (yaml, toml or json)
    -u, --upload PATH...  Upload the given files into the top folder on start
    -e, --export FILE     Write the top folder listing as CSV to FILE and exit
        --no-demo         Start with an empty workspace

Settings can also come from RFILES_* environment variables or a .env file.
`)
}

var errHelp = errors.New("help requested")

type cliOptions struct {
	configFile  string
	uploadPaths []string
	exportPath  string
	noDemo      bool
}

// parseArgs reads the command line. --upload consumes arguments until the
// next option.
func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	value := func(i int, name string) (string, error) {
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
			return "", fmt.Errorf("%s needs a value", name)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			return opts, errHelp
		case arg == "-c" || arg == "--config":
			v, err := value(i, arg)
			if err != nil {
				return opts, err
			}
			opts.configFile = v
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.configFile = strings.TrimPrefix(arg, "--config=")
		case arg == "-e" || arg == "--export":
			v, err := value(i, arg)
			if err != nil {
				return opts, err
			}
			opts.exportPath = v
			i++
		case strings.HasPrefix(arg, "--export="):
			opts.exportPath = strings.TrimPrefix(arg, "--export=")
		case arg == "-u" || arg == "--upload":
			start := len(opts.uploadPaths)
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				opts.uploadPaths = append(opts.uploadPaths, args[i+1])
				i++
			}
			if len(opts.uploadPaths) == start {
				return opts, fmt.Errorf("%s needs at least one path", arg)
			}
		case arg == "--no-demo":
			opts.noDemo = true
		default:
			return opts, fmt.Errorf("unknown option %q", arg)
		}
	}
	return opts, nil
}

// exportListing writes the top folder as the list view shows it.
func exportListing(cfg config.Config, path string, logger *zap.Logger) (int, error) {
	ws, err := statepkg.NewWorkspace(statepkg.WorkspaceOptions{
		Owner:    cfg.Upload.Owner,
		Upload:   cfg.Upload.PipelineConfig(),
		Logger:   logger,
		SeedDemo: cfg.Demo.Seed,
	})
	if err != nil {
		return 0, err
	}
	defer ws.Uploads.Close()

	nodes := statepkg.NewAppState(ws, statepkg.ViewState{Mode: view.ModeList}).VisibleNodes()
	if err := export.WriteFile(path, nodes); err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	opts, err := parseArgs(os.Args[1:])
	if errors.Is(err, errHelp) {
		printHelp()
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rfiles: %v (see --help)\n", err)
		os.Exit(2)
	}

	loadOpts := config.DefaultOptions()
	loadOpts.File = opts.configFile
	cfg, err := config.Load(loadOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if opts.noDemo {
		cfg.Demo.Seed = false
	}

	logger := logging.Must(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	defer func() {
		_ = logger.Sync()
	}()

	if opts.exportPath != "" {
		n, err := exportListing(cfg, opts.exportPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting listing: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("exported %d row(s) to %s\n", n, opts.exportPath)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger.Named("metrics")); err != nil {
				logger.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	app, err := apppkg.NewApplication(apppkg.Options{
		Config:      cfg,
		Logger:      logger,
		UploadPaths: opts.uploadPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
}
