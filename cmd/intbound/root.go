package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/njchilds90/intbound"
	"github.com/njchilds90/intbound/internal/config"
	"github.com/njchilds90/intbound/internal/logging"
)

type options struct {
	configPath string
	logLevel   string
	logJSON    bool
	output     string
	noColor    bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intbound [flags] <family> <B> <A> [<limit>]",
		Short: "Find an integral certificate for A + B*K",
		Long: `intbound searches for a nonnegative integrand whose exact integral
equals A + B*K, where K is the constant of the chosen family:

  e, pi, pi_power_<n>, e_power_<q>, e_power_pi, e_power_pi_<q>

Run "intbound families" for the kernels. Flags must precede <family>.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 || len(args) > 4 {
				return &usageError{fmt.Errorf("expected <family> <B> <A> [<limit>], got %d arguments", len(args))}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSearch(stdout, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored errors")

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output format: sympy, latex or json")
	// A target such as -71 must not be taken for a flag.
	f.SetInterspersed(false)

	cmd.AddCommand(newBatchCmd(opts, stdout), newFamiliesCmd(stdout))
	return cmd
}

// setup loads the configuration file and applies flag overrides.
func (o *options) setup(cmd *cobra.Command, stderr io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", intbound.ErrInvalidInput, err)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	if f := flags.Lookup("output"); f != nil && f.Changed {
		cfg.Output = o.output
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err}
	}
	logger, err := logging.New(stderr, cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return &usageError{err}
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}

func (o *options) runSearch(w io.Writer, args []string) error {
	keyword, b, a := args[0], args[1], args[2]
	limit := o.cfg.Limit
	if len(args) == 4 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: limit %q must be a nonnegative integer", intbound.ErrInvalidInput, args[3])
		}
		limit = n
	}

	f, err := intbound.ParseFamily(keyword, intbound.NewCache())
	if err != nil {
		return err
	}
	t, err := intbound.ParseTarget(a, b)
	if err != nil {
		return err
	}
	s := intbound.Searcher{Limit: limit, Logger: o.logger}
	c, err := s.Search(f, t)
	if err != nil {
		return err
	}
	return writeCertificate(w, o.cfg.Output, f, c)
}

func writeCertificate(w io.Writer, format string, f intbound.Family, c intbound.Certificate) error {
	switch format {
	case "latex":
		_, err := fmt.Fprintln(w, intbound.FormatLaTeX(f, c))
		return err
	case "json":
		b, err := json.MarshalIndent(intbound.Render(f, c), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	_, err := fmt.Fprintln(w, intbound.FormatSympy(f, c))
	return err
}
