// Package cli wires the geoportray commands.
package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"geoportray/internal/config"
	"geoportray/internal/tui"
)

type app struct {
	cfgPath string
	logPath string
	verbose bool

	cfg config.Config
	log *logrus.Logger
}

// NewRoot returns the root command. Output of the subcommands goes to the
// command's writer.
func NewRoot() *cobra.Command {
	a := &app{log: logrus.New()}
	root := &cobra.Command{
		Use:   "geoportray",
		Short: "Draw and inspect vector geometry.",
		Long: `geoportray renders points, lines and polygons from GeoJSON, CSV, KML,
WKT and shapefiles. Use view for the terminal viewer, export for PNG output,
inspect to hit-test a device position and route for shortest paths over line
features.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "TOML style file")
	pf.StringVar(&a.logPath, "log", "", "append logs to this file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(a.viewCmd(), a.exportCmd(), a.inspectCmd(), a.routeCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Default()
	if a.cfgPath != "" {
		c, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = c
	}
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.WithFields(logrus.Fields{"config": a.cfgPath}).Debug("configured")
	return nil
}

func (a *app) viewCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open the terminal viewer.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the terminal belongs to the viewer; logs go to --log or nowhere
			a.log.SetOutput(io.Discard)
			if a.logPath != "" {
				f, err := tea.LogToFile(a.logPath, "geoportray")
				if err != nil {
					return fmt.Errorf("geoportray: opening log: %w", err)
				}
				defer f.Close()
				a.log.SetOutput(f)
			}
			opts := tui.Options{Config: a.cfg, Log: a.log, Watch: watch}
			var m tea.Model
			if len(args) > 0 {
				m = tui.NewWithPath(opts, args[0])
			} else {
				m = tui.New(opts)
			}
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			if fm, ok := final.(tui.Model); ok {
				fm.Close()
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the open file when it changes")
	return cmd
}

// viewport holds the device size flags shared by export and inspect.
type viewport struct {
	width, height int
	margin        float64
}

func (v *viewport) register(fs *pflag.FlagSet) {
	fs.IntVar(&v.width, "width", 800, "device width in pixels")
	fs.IntVar(&v.height, "height", 600, "device height in pixels")
	fs.Float64Var(&v.margin, "margin", 10, "blank border in pixels")
}

func (v viewport) check() error {
	if v.width <= 0 || v.height <= 0 {
		return fmt.Errorf("geoportray: bad size %dx%d", v.width, v.height)
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
