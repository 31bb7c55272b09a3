package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/strategy"
	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth     = 1600
	plotHeight    = 500
	maxPlotPoints = 2000
	timeFormat    = "2006-01-02\n15:04"
)

var (
	ErrNothingToPlot = errors.New("nothing to plot")

	priceColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	buyColor   = color.RGBA{G: 160, A: 255}
	sellColor  = color.RGBA{R: 200, A: 255}
	gainColor  = color.RGBA{B: 200, A: 255}
)

// Chart stacks plots vertically on a shared time axis.
type Chart struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewChart(w, h int) *Chart {
	return &Chart{w: w, h: h}
}

func (c *Chart) Add(p *plot.Plot, height float64) {
	c.plots = append(c.plots, p)
	c.heights = append(c.heights, height)
}

func (c *Chart) Save(path string) (err error) {
	if len(c.plots) == 0 {
		return ErrNothingToPlot
	}

	var axis []*plot.Axis
	for _, p := range c.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	tbl := plotext.Table{
		RowHeights: c.heights,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range c.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	h := 0.0
	for _, v := range c.heights {
		h += v * float64(c.h)
	}

	img := vgimg.New(vg.Points(float64(c.w)), vg.Points(h))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range c.plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close plot file: %w", cerr))
		}
	}()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write plot to file: %w", err)
	}

	return nil
}

// PlotRuns writes one PNG per run into dir and returns the written paths.
func PlotRuns(dir string, series []market.PricePoint, results []strategy.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot dir: %w", err)
	}

	prices := market.Downsample(series, plotInterval(series))

	var paths []string
	for i, r := range results {
		c, err := runChart(prices, r)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", r.Name, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.png", i, r.Name))
		if err := c.Save(path); err != nil {
			return nil, fmt.Errorf("failed to save plot of %s: %w", r.Name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func plotInterval(series []market.PricePoint) time.Duration {
	var first, last time.Time
	for _, p := range series {
		if !p.Valid() {
			continue
		}
		if first.IsZero() {
			first = p.Time
		}
		last = p.Time
	}

	return last.Sub(first) / maxPlotPoints
}

func runChart(prices []market.PricePoint, r strategy.Result) (*Chart, error) {
	if len(prices) == 0 {
		return nil, ErrNothingToPlot
	}

	pricePlot, err := tradesPlot(prices, r)
	if err != nil {
		return nil, err
	}

	gainsPlot, err := gainsPlot(prices, r)
	if err != nil {
		return nil, err
	}

	c := NewChart(plotWidth, plotHeight)
	c.Add(pricePlot, 1)
	c.Add(gainsPlot, 0.5)
	return c, nil
}

func tradesPlot(prices []market.PricePoint, r strategy.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.Name
	p.Y.Label.Text = "Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: timeFormat}

	pts := make(plotter.XYs, len(prices))
	for i, pp := range prices {
		pts[i] = plotter.XY{X: float64(pp.Time.Unix()), Y: pp.Price.Decimal.InexactFloat64()}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create price graph: %w", err)
	}
	line.LineStyle.Color = priceColor
	p.Add(line)

	var buys, sells plotter.XYs
	for _, t := range r.Trades {
		xy := plotter.XY{X: float64(t.Time.Unix()), Y: t.Price.InexactFloat64()}
		if t.Side == market.SideBuy {
			buys = append(buys, xy)
		} else {
			sells = append(sells, xy)
		}
	}

	if err := addMarkers(p, "buy", buys, buyColor, draw.TriangleGlyph{}); err != nil {
		return nil, err
	}
	if err := addMarkers(p, "sell", sells, sellColor, draw.CircleGlyph{}); err != nil {
		return nil, err
	}

	return p, nil
}

func addMarkers(p *plot.Plot, name string, pts plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	if len(pts) == 0 {
		return nil
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to create %s markers: %w", name, err)
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Radius = vg.Points(3)

	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}

func gainsPlot(prices []market.PricePoint, r strategy.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = "Gains"
	p.X.Tick.Marker = plot.TimeTicks{Format: timeFormat}

	pts := plotter.XYs{{X: float64(prices[0].Time.Unix())}}
	total := 0.0
	for _, t := range r.Trades {
		if t.Side != market.SideSell {
			continue
		}
		total += t.Gain.InexactFloat64()
		pts = append(pts, plotter.XY{X: float64(t.Time.Unix()), Y: total})
	}
	pts = append(pts, plotter.XY{X: float64(prices[len(prices)-1].Time.Unix()), Y: total})

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create gains graph: %w", err)
	}
	line.LineStyle.Color = gainColor
	p.Add(line)

	return p, nil
}
