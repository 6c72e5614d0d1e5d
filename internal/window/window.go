// Package window shows the live price chart in a desktop window.
package window

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/temidaradev/esset/v2"
	"golang.org/x/image/font/gofont/goregular"

	"CoinTicker/internal/render"
)

const baseFontSize = 12

var (
	background  = color.RGBA{25, 25, 25, 255}
	plotFill    = color.RGBA{50, 50, 50, 255}
	labelColor  = color.RGBA{200, 200, 200, 255}
	mutedColor  = color.RGBA{150, 150, 150, 255}
	markerColor = color.RGBA{255, 255, 0, 255}
	lineColor   = color.RGBA{0, 200, 255, 255}
	avgColor    = color.RGBA{255, 160, 0, 160}
	upColor     = color.RGBA{0, 255, 0, 255}
	downColor   = color.RGBA{255, 0, 0, 255}
)

// Window is an ebiten game that redraws the chart view every frame.
type Window struct {
	ctx         context.Context
	chart       *render.ChartRenderer
	title       string
	gap         time.Duration
	face        text.Face
	deviceScale float64
	solid       *ebiten.Image
}

// New prepares a chart window. Lines are broken where consecutive samples are more than gap apart.
func New(ctx context.Context, chart *render.ChartRenderer, title string, gap time.Duration) (*Window, error) {
	deviceScale := ebiten.Monitor().DeviceScaleFactor()
	face, err := esset.GetFont(goregular.TTF, int(baseFontSize*deviceScale))
	if err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}
	return &Window{
		ctx:         ctx,
		chart:       chart,
		title:       title,
		gap:         gap,
		face:        face,
		deviceScale: deviceScale,
	}, nil
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func (w *Window) Run(width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.solid == nil {
		w.solid = ebiten.NewImage(1, 1)
		w.solid.Fill(color.White)
	}
	screen.Fill(background)

	pad := 30.0 * w.deviceScale
	labelWidth := 70.0 * w.deviceScale
	bounds := screen.Bounds()
	rect := image.Rect(
		int(pad+labelWidth),
		int(pad*1.5),
		bounds.Dx()-int(pad),
		bounds.Dy()-int(pad),
	)
	vector.DrawFilledRect(screen, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), plotFill, false)

	view := w.chart.View()
	esset.DrawText(screen, w.title, 0, pad, pad/2, w.face, labelColor)

	if !view.OK {
		w.drawCentered(screen, rect, "Waiting for first sample...")
		return
	}

	esset.DrawText(screen, fmt.Sprintf("%.4f", view.Max), 0, pad, float64(rect.Min.Y), w.face, mutedColor)
	esset.DrawText(screen, fmt.Sprintf("%.4f", view.Min), 0, pad, float64(rect.Max.Y)-baseFontSize*w.deviceScale, w.face, mutedColor)

	w.drawLine(screen, rect, view)

	last, _ := view.Last()
	statusColor := labelColor
	if last.Change24hPct > 0 {
		statusColor = upColor
	} else if last.Change24hPct < 0 {
		statusColor = downColor
	}
	status := fmt.Sprintf("$%.4f  %+.2f%%  %s UTC", last.PriceUSD, last.Change24hPct, last.Timestamp.UTC().Format("15:04:05"))
	statusWidth, _ := text.Measure(status, w.face, 0)
	esset.DrawText(screen, status, 0, float64(rect.Max.X)-statusWidth, pad/2, w.face, statusColor)
}

func (w *Window) drawLine(screen *ebiten.Image, rect image.Rectangle, view render.ChartView) {
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)
	pw, ph := float64(rect.Dx()), float64(rect.Dy())

	if len(view.Points) > 1 {
		breaks := view.Breaks(w.gap)
		price := &vector.Path{}
		avg := &vector.Path{}
		for i := range view.Points {
			x, y := view.Project(i, x0, y0, pw, ph)
			ax, ay := view.ProjectAverage(i, x0, y0, pw, ph)
			if i == 0 || breaks[i] {
				price.MoveTo(float32(x), float32(y))
				avg.MoveTo(float32(ax), float32(ay))
			} else {
				price.LineTo(float32(x), float32(y))
				avg.LineTo(float32(ax), float32(ay))
			}
		}
		w.stroke(screen, avg, 1.0, avgColor)
		w.stroke(screen, price, 2.0, lineColor)
	}

	x, y := view.Project(len(view.Points)-1, x0, y0, pw, ph)
	vector.DrawFilledCircle(screen, float32(x), float32(y), 3.0*float32(w.deviceScale), markerColor, false)
}

func (w *Window) stroke(screen *ebiten.Image, path *vector.Path, width float32, clr color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{
		Width: width * float32(w.deviceScale),
	})
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 0, 0
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r*a, g*a, b*a, a
	}
	screen.DrawTriangles(vs, is, w.solid, &ebiten.DrawTrianglesOptions{})
}

func (w *Window) drawCentered(screen *ebiten.Image, rect image.Rectangle, msg string) {
	tw, th := text.Measure(msg, w.face, 0)
	x := float64(rect.Min.X) + (float64(rect.Dx())-tw)/2.0
	y := float64(rect.Min.Y) + (float64(rect.Dy())-th)/2.0
	esset.DrawText(screen, msg, 0, x, y, w.face, mutedColor)
}
