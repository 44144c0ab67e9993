// 14 March 2024

package entropy

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezsea/seq_colour/pkg/ramp"
)

// writePlot draws entropy against residue number. The format comes from
// the file name extension, so .png, .svg and .pdf all work.
func writePlot(fname string, args *ntrpyargs) error {
	pts := make(plotter.XYs, len(args.entropy))
	for i, h := range args.entropy {
		pts[i].X = float64(args.resnum(i))
		pts[i].Y = h
	}
	p := plot.New()
	p.Title.Text = "Entropy"
	p.X.Label.Text = "residue"
	p.Y.Label.Text = "entropy (bits)"
	p.Y.Min = 0
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("entropy plot: %w", err)
	}
	p.Add(line)
	if err = p.Save(8*vg.Inch, 3*vg.Inch, fname); err != nil {
		return fmt.Errorf("entropy plot %s: %w", fname, err)
	}
	return nil
}

// Size of the legend in pixels. The bar takes the top part and the
// labels go underneath.
const (
	legendW    = 400
	legendH    = 60
	legendBar  = 30
	legendFont = 12.
)

// rgba converts a packed colour
func rgba(c uint32) color.RGBA {
	r, g, b := ramp.Unpack(c)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// legendLabels are the values at the two ends of the bar.
func legendLabels(scale ramp.Scale) (string, string) {
	if scale.Norm == ramp.NormObserved {
		return "0", "max of column"
	}
	return "0", fmt.Sprintf("%.2f bits", scale.Max)
}

// Legend draws the colour ramp from low to high with labels.
func Legend(w io.Writer, low, high uint32, scale ramp.Scale) error {
	img := image.NewRGBA(image.Rect(0, 0, legendW, legendH))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for x := 0; x < legendW; x++ {
		c := rgba(ramp.Lerp(low, high, float64(x)/float64(legendW-1)))
		for y := 0; y < legendBar; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return fmt.Errorf("legend font: %w", err)
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(legendFont)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Black)
	left, right := legendLabels(scale)
	base := legendBar + 6 + int(legendFont)
	if _, err = ctx.DrawString(left, freetype.Pt(2, base)); err != nil {
		return err
	}
	rx := legendW - 2 - len(right)*int(legendFont)/2
	if _, err = ctx.DrawString(right, freetype.Pt(rx, base)); err != nil {
		return err
	}
	return png.Encode(w, img)
}

// writeLegend puts the colour ramp in a png file.
func writeLegend(fname string, args *ntrpyargs) error {
	return withFile(fname, "legend", func(w io.Writer) error {
		return Legend(w, args.low, args.high, args.scale)
	})
}
