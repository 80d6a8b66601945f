package tg_charts

// Renders the polled balance history as a bar chart PNG for Telegram.

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"vortex-swap/internal/infra/fs"
	logging "vortex-swap/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

const (
	chartWidth  = 1200
	chartHeight = 700

	chartAreaLeft   = 100.0
	chartAreaRight  = 1140.0
	chartAreaTop    = 120.0
	chartAreaBottom = 620.0

	maxBars    = 24
	barSpacing = 8.0

	titleFontSize = 28.0
	labelFontSize = 18.0
)

var fontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// GenerateBalanceChart draws the recent history of one symbol's balance
// and returns the path of the PNG file.
func GenerateBalanceChart(dataDir, symbol string) (string, error) {
	history, err := fs.LoadBalanceHistory(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to load balance history: %w", err)
	}
	if len(history.Entries) == 0 {
		return "", fmt.Errorf("no balance history available")
	}

	entries := history.Entries
	if len(entries) > maxBars {
		entries = entries[len(entries)-maxBars:]
	}

	values := make([]float64, len(entries))
	labels := make([]string, len(entries))
	var maxValue float64
	for i, entry := range entries {
		values[i] = entry.Balances[symbol]
		if values[i] > maxValue {
			maxValue = values[i]
		}
		if ts, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			labels[i] = ts.Format("15:04")
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(color.Black)
	dc.Clear()

	fontLoaded := loadFont(dc, titleFontSize)

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%s balance", symbol), chartWidth/2, 60, 0.5, 0.5)

	if fontLoaded {
		loadFont(dc, labelFontSize)
	}

	// Horizontal grid lines with axis values.
	dc.SetRGBA(1, 1, 1, 0.2)
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		y := chartAreaBottom - (chartAreaBottom-chartAreaTop)*float64(i)/4
		dc.DrawLine(chartAreaLeft, y, chartAreaRight, y)
		dc.Stroke()
		dc.SetRGBA(1, 1, 1, 0.7)
		dc.DrawStringAnchored(formatAxisValue(maxValue*float64(i)/4), chartAreaLeft-10, y, 1, 0.5)
		dc.SetRGBA(1, 1, 1, 0.2)
	}

	barWidth := (chartAreaRight - chartAreaLeft) / float64(len(values))
	for i, v := range values {
		x := chartAreaLeft + float64(i)*barWidth
		h := (chartAreaBottom - chartAreaTop) * v / maxValue
		dc.SetRGB(0.26, 0.62, 0.95)
		dc.DrawRectangle(x+barSpacing/2, chartAreaBottom-h, barWidth-barSpacing, h)
		dc.Fill()

		// Label every few bars so the axis stays readable.
		if labels[i] != "" && i%4 == 0 {
			dc.SetRGBA(1, 1, 1, 0.7)
			dc.DrawStringAnchored(labels[i], x+barWidth/2, chartAreaBottom+24, 0.5, 0.5)
		}
	}

	chartsDir := filepath.Join(dataDir, "charts")
	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create charts directory: %w", err)
	}

	filename := filepath.Join(chartsDir, fmt.Sprintf("balance_%s.png", symbol))
	if err := dc.SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	logging.LogInfo("Balance chart generated",
		zap.String("symbol", symbol), zap.String("file", filename))

	return filename, nil
}

func loadFont(dc *gg.Context, size float64) bool {
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			if err := dc.LoadFontFace(path, size); err == nil {
				return true
			}
		}
	}
	return false
}

func formatAxisValue(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
