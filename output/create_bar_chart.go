package output

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/forest-guardian/burn-recovery-cli/internal/report"
)

const (
	chartWidth  = 800
	chartHeight = 600
	chartMargin = 70
)

// RecoveryBarChart draws the area of each recovery class of one date and
// method, one bar per row, with a legend under the axis.
func RecoveryBarChart(title string, rows []report.Row) image.Image {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	maxArea := 0.0
	for _, row := range rows {
		maxArea = math.Max(maxArea, row.AreaHa)
	}
	if maxArea == 0 {
		maxArea = 1
	}

	plotLeft := float64(chartMargin)
	plotRight := float64(chartWidth - chartMargin/2)
	plotTop := float64(chartMargin)
	plotBottom := float64(chartHeight - 2*chartMargin)
	plotHeight := plotBottom - plotTop

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, chartWidth/2, chartMargin/2, 0.5, 0.5)
	dc.DrawStringAnchored("Area (hectares)", plotLeft-10, plotTop-15, 0.5, 0.5)

	// Axes and ticks
	dc.SetLineWidth(1)
	dc.DrawLine(plotLeft, plotTop, plotLeft, plotBottom)
	dc.DrawLine(plotLeft, plotBottom, plotRight, plotBottom)
	dc.Stroke()
	for i := 0; i <= 4; i++ {
		value := maxArea * float64(i) / 4
		y := plotBottom - plotHeight*float64(i)/4
		dc.DrawLine(plotLeft-4, y, plotLeft, y)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", value), plotLeft-8, y, 1, 0.5)
	}

	if len(rows) > 0 {
		slot := (plotRight - plotLeft) / float64(len(rows))
		barWidth := slot * 0.6
		for i, row := range rows {
			class := uint8(row.Class)
			x := plotLeft + slot*float64(i) + (slot-barWidth)/2
			h := plotHeight * row.AreaHa / maxArea

			dc.SetColor(ClassColor(class))
			dc.DrawRectangle(x, plotBottom-h, barWidth, h)
			dc.Fill()
			dc.SetRGB(0, 0, 0)
			dc.DrawRectangle(x, plotBottom-h, barWidth, h)
			dc.Stroke()

			dc.DrawStringAnchored(fmt.Sprintf("%.2f ha", row.AreaHa), x+barWidth/2, plotBottom-h-10, 0.5, 0.5)
			dc.DrawStringAnchored(ClassLabel(class), x+barWidth/2, plotBottom+15, 0.5, 0.5)
		}
	}
	dc.DrawStringAnchored("Recovery Class", chartWidth/2, plotBottom+40, 0.5, 0.5)

	// Legend
	legendY := plotBottom + 65
	for i, row := range rows {
		class := uint8(row.Class)
		x := plotLeft + float64(i)*200

		dc.SetColor(ClassColor(class))
		dc.DrawRectangle(x, legendY, 15, 15)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(x, legendY, 15, 15)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%s (%d px)", ClassLabel(class), row.Pixels), x+20, legendY+7, 0, 0.5)
	}

	return dc.Image()
}
