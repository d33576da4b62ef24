package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstructure/pkg/action"
	"github.com/goliatone/go-formstructure/pkg/form"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Option customises the root command.
type Option func(*options)

type options struct {
	prompter      Prompter
	logOutput     io.Writer
	helperOptions []form.Option
	storeOptions  []action.StoreOption
}

// WithPrompter replaces the survey prompter.
func WithPrompter(p Prompter) Option {
	return func(o *options) {
		if p != nil {
			o.prompter = p
		}
	}
}

// WithLogOutput redirects log output, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// WithHelperOptions appends options applied after the config derived ones.
func WithHelperOptions(opts ...form.Option) Option {
	return func(o *options) {
		o.helperOptions = append(o.helperOptions, opts...)
	}
}

// WithStoreOptions appends options for the store action handler.
func WithStoreOptions(opts ...action.StoreOption) Option {
	return func(o *options) {
		o.storeOptions = append(o.storeOptions, opts...)
	}
}

// NewRootCommand builds the formstructure command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	cfg := options{
		prompter:  surveyPrompter{},
		logOutput: os.Stderr,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var (
		flags globalFlags
		state *app
	)
	load := func() (*app, error) {
		if state != nil {
			return state, nil
		}
		built, err := newApp(flags, cfg)
		if err != nil {
			return nil, err
		}
		state = built
		return state, nil
	}

	root := &cobra.Command{
		Use:   "formstructure",
		Short: "Inspect and update form structures in repository content",
		Long: `formstructure loads repository content (JSON or YAML, in the content
loader shape) and answers form structure questions about it: which container
a field belongs to, which fields a form holds, and which submission action a
form uses. Updated content can be written back out as YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = Version
	root.SetVersionTemplate("formstructure version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&flags.content, "content", "c", nil, "content file to load, as file[@mount] (mount defaults to "+DefaultMount+")")
	pf.StringVar(&flags.config, "config", "", "YAML or JSON config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(
		newInspectCmd(load),
		newElementsCmd(load),
		newUpdateCmd(load, cfg.prompter),
		newSubmitCmd(load),
		newDumpCmd(load),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

type loader func() (*app, error)
