package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/lars-sto/fecreport/src/results"
)

const plotDPI = 96

// pixels converts a pixel count to a gonum length at plotDPI.
func pixels(n int) vg.Length { return vg.Length(n) * vg.Inch / plotDPI }

// modeColor gives each mode the same color on every chart.
func modeColor(m results.Mode) drawing.Color {
	switch m {
	case results.ModeStatic:
		return chart.ColorBlue
	case results.ModeAdaptive:
		return chart.ColorOrange
	}
	return chart.ColorAlternateGray
}

// meanColor is a darker shade of modeColor for summary markers.
func meanColor(m results.Mode) drawing.Color {
	switch m {
	case results.ModeStatic:
		return drawing.Color{R: 0, G: 58, B: 140, A: 255}
	case results.ModeAdaptive:
		return drawing.Color{R: 140, G: 58, B: 0, A: 255}
	}
	return chart.ColorBlack
}

// seriesColors cycles through for charts that are not keyed by mode.
var seriesColors = []drawing.Color{
	chart.ColorBlue, chart.ColorOrange, chart.ColorGreen, chart.ColorRed,
	chart.ColorAlternateGray, chart.ColorCyan,
}

// pointStyle draws markers only.
func pointStyle(col drawing.Color, alpha uint8) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col.WithAlpha(alpha),
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 1.5}
}

func dashedStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 1.5, StrokeDashArray: []float64{6, 4}}
}

// legendEntry is a name and the swatch it gets in the legend.
type legendEntry struct {
	name  string
	color drawing.Color
	dash  bool
}

// legend renders a chart.Legend for entries rather than for the chart's own
// series, so marker-only series still get a visible swatch.
func legend(entries []legendEntry) chart.Renderable {
	proxy := &chart.Chart{}
	for _, e := range entries {
		st := chart.Style{StrokeColor: e.color, StrokeWidth: 3}
		if e.dash {
			st = dashedStyle(e.color)
		}
		proxy.Series = append(proxy.Series, chart.ContinuousSeries{Name: e.name, Style: st})
	}
	return chart.Legend(proxy)
}

// placeholder is a visible but undrawn series; go-chart refuses to render a
// chart without one.
func placeholder() chart.Series {
	return chart.ContinuousSeries{
		XValues: []float64{0, 1},
		YValues: []float64{0, 0},
		Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: chart.Disabled},
	}
}

// chartImage renders a go-chart chart in memory.
func chartImage(ch chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// plotImage draws a gonum plot onto a w×h pixel canvas.
func plotImage(p *plot.Plot, w, h int) image.Image {
	c := vgimg.NewWith(vgimg.UseWH(pixels(w), pixels(h)), vgimg.UseDPI(plotDPI))
	p.Draw(vgdraw.New(c))
	return c.Image()
}

// stampFootnote writes text in small print along the bottom-right edge.
func stampFootnote(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	const pad = 4
	x := b.Max.X - tw - 8
	if x < b.Min.X+pad {
		x = b.Min.X + pad
	}
	y := b.Max.Y - 5
	box := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad/2, x+tw+pad, y+pad/2)
	draw.Draw(rgba, box, image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 220}), image.Point{}, draw.Over)
	dr.Dot = fixed.P(x, y)
	dr.DrawString(text)
	return rgba
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data next to path and renames it into place, so a
// failed run never leaves a truncated image behind.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
