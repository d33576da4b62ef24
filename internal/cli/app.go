package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstructure/internal/config"
	"github.com/goliatone/go-formstructure/pkg/action"
	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/logging"
	"github.com/goliatone/go-formstructure/pkg/resource"
)

// DefaultMount is where --content files without an explicit mount are loaded.
const DefaultMount = "/content"

// app holds everything a command needs once the persistent flags are parsed.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	tree    *resource.Tree
	helper  *form.StructureHelper
	actions *action.Registry
}

type globalFlags struct {
	content   []string
	config    string
	logLevel  string
	logFormat string
}

func newApp(flags globalFlags, opts options) (*app, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Output = opts.logOutput
	logger := logging.New(logCfg)

	tree := resource.NewTree(append(cfg.TreeOptions(), resource.WithLogger(logger))...)
	for _, raw := range flags.content {
		file, mount := splitContentArg(raw)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("cli: read content %s: %w", file, err)
		}
		if err := tree.Load(data, mount, filepath.Base(file)); err != nil {
			return nil, err
		}
		logger.Debug("content loaded", zap.String("file", file), zap.String("mount", mount))
	}

	helperOptions := append(cfg.HelperOptions(), form.WithLogger(logger))
	helperOptions = append(helperOptions, opts.helperOptions...)
	helper := form.New(tree, helperOptions...)

	storeOptions := append([]action.StoreOption{action.WithStoreLogger(logger)}, opts.storeOptions...)

	return &app{
		cfg:     cfg,
		logger:  logger,
		tree:    tree,
		helper:  helper,
		actions: action.DefaultRegistry(helper, storeOptions...),
	}, nil
}

// splitContentArg parses "file[@mount]".
func splitContentArg(arg string) (string, string) {
	trimmed := strings.TrimSpace(arg)
	if idx := strings.LastIndex(trimmed, "@/"); idx > 0 {
		return trimmed[:idx], trimmed[idx+1:]
	}
	return trimmed, DefaultMount
}

func (a *app) resource(path string) (*resource.Resource, error) {
	res := a.tree.GetResource(path)
	if res == nil {
		return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, path)
	}
	return res, nil
}

func (a *app) writeTree(file string) error {
	data, err := resource.Export(a.tree.Root())
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("cli: write %s: %w", file, err)
	}
	return nil
}
