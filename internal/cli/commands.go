package cli

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"geoportray/internal/geom"
	"geoportray/internal/inspect"
	"geoportray/internal/planar"
	"geoportray/internal/render"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		vp  viewport
		out string
		bg  string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Rasterize a file to PNG.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vp.check(); err != nil {
				return err
			}
			d, err := geom.Load(args[0])
			if err != nil {
				return err
			}
			disp := render.NewFamilyDisplay(d.Features, a.cfg.LayerFor, a.log)
			c := render.NewImageCanvas(vp.width, vp.height, gg.Hex(bg).Color())
			defer c.Close()
			c.SetLineWidth(a.cfg.LineWidth)

			st := disp.Draw(c, render.Fit(d.BBox, float64(vp.width), float64(vp.height), vp.margin))
			// "-" streams the image to stdout, so the summary goes to stderr
			report := cmd.OutOrStdout()
			if out == "-" {
				report = cmd.ErrOrStderr()
				err = c.EncodePNG(cmd.OutOrStdout())
			} else {
				err = c.SavePNG(out)
			}
			if err != nil {
				return fmt.Errorf("geoportray: writing %s: %w", out, err)
			}
			w, h := c.Size()
			a.log.WithFields(logrus.Fields{
				"out":     out,
				"size":    fmt.Sprintf("%dx%d", w, h),
				"drawn":   st.Drawn,
				"skipped": st.Skipped,
				"failed":  st.Failed,
			}).Info("exported")
			fmt.Fprintf(report, "%s: drawn=%d skipped=%d failed=%d\n", out, st.Drawn, st.Skipped, st.Failed)
			return nil
		},
	}
	vp.register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "output", "o", "out.png", "PNG file to write, - for stdout")
	cmd.Flags().StringVar(&bg, "background", "#FFFFFF", "background colour")
	return cmd
}

// nullCanvas discards drawing; it is used to fill the path caches before a
// hit test.
type nullCanvas struct{}

func (nullCanvas) SetPaint(color.Color)  {}
func (nullCanvas) Fill(*gg.Path) error   { return nil }
func (nullCanvas) Stroke(*gg.Path) error { return nil }

func (a *app) inspectCmd() *cobra.Command {
	var (
		vp   viewport
		x, y float64
		slop float64
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Describe the features drawn at a device position.",
		Long: `inspect lays the file out as export would and prints the inspector tabs
of every feature whose drawn shape lies within slop/2 pixels of (x, y),
top-most first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vp.check(); err != nil {
				return err
			}
			d, err := geom.Load(args[0])
			if err != nil {
				return err
			}
			disp := render.NewFamilyDisplay(d.Features, a.cfg.LayerFor, a.log)
			disp.Draw(nullCanvas{}, render.Fit(d.BBox, float64(vp.width), float64(vp.height), vp.margin))

			hits := disp.Hit(render.Rect(x, y, 0, 0), slop)
			w := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintf(w, "nothing at (%g, %g)\n", x, y)
				return nil
			}
			for i, e := range hits {
				if i > 0 {
					fmt.Fprintln(w)
				}
				for _, tab := range inspect.Build(e.Wrapper, e.Feature) {
					fmt.Fprintln(w, tab.Title)
					cols, rows := tab.Table()
					fmt.Fprintln(w, table.New().Border(lipgloss.NormalBorder()).Headers(cols...).Rows(rows...).String())
				}
			}
			return nil
		},
	}
	vp.register(cmd.Flags())
	cmd.Flags().Float64Var(&x, "x", 0, "device x")
	cmd.Flags().Float64Var(&y, "y", 0, "device y")
	cmd.Flags().Float64Var(&slop, "slop", render.DefaultSlop, "hit margin in pixels")
	return cmd
}

func (a *app) routeCmd() *cobra.Command {
	var from, to []float64
	cmd := &cobra.Command{
		Use:   "route <file>",
		Short: "Find the shortest path over the line features of a file.",
		Long: `route builds a planar network from every line string in the file, with a
node at each distinct line end, and prints the shortest route between the
nodes at --from and --to, weighted by line length.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(from) != 2 || len(to) != 2 {
				return errors.New("geoportray: --from and --to take x,y")
			}
			d, err := geom.Load(args[0])
			if err != nil {
				return err
			}
			n, err := buildNetwork(d, a.log)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"nodes": n.NumNodes(), "edges": n.NumEdges()}).Debug("network built")

			route, cost, err := n.ShortestPath(geom.Coord{X: from[0], Y: from[1]}, geom.Coord{X: to[0], Y: to[1]})
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(route))
			for i, e := range route {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					coordText(e.From().Coord),
					coordText(e.To().Coord),
					strconv.FormatFloat(e.Length(), 'g', 6, 64),
					fmt.Sprint(e.UserData()),
				})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, table.New().Border(lipgloss.NormalBorder()).Headers("#", "from", "to", "length", "feature").Rows(rows...).String())
			fmt.Fprintf(w, "total %g over %d edges\n", cost, len(route))
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&from, "from", nil, "start node as x,y")
	cmd.Flags().Float64SliceVar(&to, "to", nil, "end node as x,y")
	return cmd
}

// buildNetwork adds every line string of d, recording the feature index as
// edge user data. Lines too short to form an edge are logged and skipped.
func buildNetwork(d geom.Dataset, log logrus.FieldLogger) (*planar.Network, error) {
	n := planar.NewNetwork()
	add := func(i int, ls geom.LineString) {
		if _, err := n.AddLine(ls, i); err != nil {
			log.WithFields(logrus.Fields{"feature": i}).WithError(err).Warn("route: skipping line")
		}
	}
	for i, f := range d.Features {
		switch g := f.Geometry.(type) {
		case geom.LineString:
			add(i, g)
		case geom.MultiLineString:
			for _, ls := range g {
				add(i, ls)
			}
		}
	}
	if n.NumEdges() == 0 {
		return nil, errors.New("geoportray: no line features to route over")
	}
	return n, nil
}

func coordText(c geom.Coord) string {
	return fmt.Sprintf("%g,%g", c.X, c.Y)
}
