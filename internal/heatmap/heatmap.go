// Package heatmap рисует матрицы риска в PNG через gonum/plot.
package heatmap

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ebios-rm/internal/scoring"
)

// ErrEmpty - рисовать нечего.
var ErrEmpty = errors.New("heatmap: nothing to render")

var (
	levelColors = map[scoring.RiskLevel]color.RGBA{
		scoring.LevelLow:      {R: 0x90, G: 0xEE, B: 0x90, A: 0xFF},
		scoring.LevelMedium:   {R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
		scoring.LevelHigh:     {R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF},
		scoring.LevelCritical: {R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	}
	emptyColor = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}

	gravityTicks = []plot.Tick{
		{Value: 1, Label: "1 Mineure"},
		{Value: 2, Label: "2 Significative"},
		{Value: 3, Label: "3 Grave"},
		{Value: 4, Label: "4 Critique"},
	}
	likelihoodTicks = []plot.Tick{
		{Value: 1, Label: "1 Peu vraisemblable"},
		{Value: 2, Label: "2 Vraisemblable"},
		{Value: 3, Label: "3 Très vraisemblable"},
		{Value: 4, Label: "4 Quasi certain"},
	}
)

// сколько кодов сценариев показывает клетка до "+n"
const maxListed = 3

func square(x, y float64) plotter.XYs {
	return plotter.XYs{
		{X: x - 0.5, Y: y - 0.5},
		{X: x + 0.5, Y: y - 0.5},
		{X: x + 0.5, Y: y + 0.5},
		{X: x - 0.5, Y: y + 0.5},
	}
}

func addCell(p *plot.Plot, x, y float64, fill color.Color) error {
	poly, err := plotter.NewPolygon(square(x, y))
	if err != nil {
		return fmt.Errorf("failed to create cell polygon: %w", err)
	}
	poly.Color = fill
	poly.LineStyle.Color = color.White
	poly.LineStyle.Width = vg.Points(2)
	p.Add(poly)
	return nil
}

func addLabels(p *plot.Plot, xys plotter.XYs, texts []string) error {
	if len(xys) == 0 {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("failed to create labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)
	return nil
}

func cellText(ids []string) string {
	shown := ids
	if len(ids) > maxListed {
		shown = ids[:maxListed]
	}
	text := fmt.Sprintf("%d\n%s", len(ids), strings.Join(shown, ", "))
	if len(ids) > maxListed {
		text += fmt.Sprintf(" +%d", len(ids)-maxListed)
	}
	return text
}

// Render рисует матрицу тяжесть × вероятность. Клетка окрашена по уровню
// риска и подписана числом сценариев и их кодами.
func Render(grid scoring.Grid, title string) ([]byte, error) {
	if len(grid.Cells) != int(scoring.MaxScale*scoring.MaxScale) {
		return nil, fmt.Errorf("heatmap: grid has %d cells", len(grid.Cells))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Vraisemblance"
	p.Y.Label.Text = "Gravité"
	p.X.Min, p.X.Max = 0.5, 4.5
	p.Y.Min, p.Y.Max = 0.5, 4.5
	p.X.Tick.Marker = plot.ConstantTicks(likelihoodTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(gravityTicks)

	var (
		xys   plotter.XYs
		texts []string
	)
	for _, c := range grid.Cells {
		fill, ok := levelColors[c.Level]
		if !ok {
			return nil, fmt.Errorf("heatmap: cell (%d,%d) has no level", c.Gravity, c.Likelihood)
		}
		x, y := float64(c.Likelihood), float64(c.Gravity)
		if err := addCell(p, x, y, fill); err != nil {
			return nil, err
		}
		if c.Count() > 0 {
			xys = append(xys, plotter.XY{X: x, Y: y})
			texts = append(texts, cellText(c.ScenarioIDs))
		}
	}
	if err := addLabels(p, xys, texts); err != nil {
		return nil, err
	}
	return encode(p, vg.Points(640), vg.Points(520))
}

// RenderPairs рисует матрицу пертинентности SR × OV. Клетки заданных пар
// окрашены по пертинентности и показывают ранг, остальные серые.
func RenderPairs(pairs []scoring.RankedPair, title string) ([]byte, error) {
	if len(pairs) == 0 {
		return nil, ErrEmpty
	}

	var sources, objectives []string
	for _, rp := range pairs {
		if !slices.Contains(sources, rp.SourceID) {
			sources = append(sources, rp.SourceID)
		}
		if !slices.Contains(objectives, rp.ObjectiveID) {
			objectives = append(objectives, rp.ObjectiveID)
		}
	}
	slices.Sort(sources)
	slices.Sort(objectives)

	byKey := make(map[[2]string]scoring.RankedPair, len(pairs))
	for _, rp := range pairs {
		byKey[[2]string{rp.SourceID, rp.ObjectiveID}] = rp
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Objectifs visés"
	p.Y.Label.Text = "Sources de risque"
	p.NominalX(objectives...)
	p.NominalY(sources...)
	p.X.Min, p.X.Max = -0.5, float64(len(objectives))-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(len(sources))-0.5

	var (
		xys   plotter.XYs
		texts []string
	)
	for yi, sr := range sources {
		for xi, ov := range objectives {
			x, y := float64(xi), float64(yi)
			rp, ok := byKey[[2]string{sr, ov}]
			fill := emptyColor
			if ok {
				fill = levelColors[scoring.RiskLevel(rp.Pertinence)]
			}
			if err := addCell(p, x, y, fill); err != nil {
				return nil, err
			}
			if ok {
				xys = append(xys, plotter.XY{X: x, Y: y})
				texts = append(texts, fmt.Sprintf("P%d\n#%d", rp.Pertinence, rp.Rank))
			}
		}
	}
	if err := addLabels(p, xys, texts); err != nil {
		return nil, err
	}

	w := vg.Points(float64(160 + 90*len(objectives)))
	h := vg.Points(float64(140 + 70*len(sources)))
	return encode(p, w, h)
}

func encode(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	canvas := vgimg.New(w, h)
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
