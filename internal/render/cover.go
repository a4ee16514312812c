package render

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/studyforge/studyforge-backend/internal/types"
)

const (
	coverWidth  = 1200
	coverHeight = 630
)

var (
	coverFontOnce sync.Once
	coverFont     *truetype.Font
	coverFontErr  error
)

// Cover renders a PNG share card for a plan: title plus the summary lines.
// Fields sourced from degraded stages fall back the same way the summary
// view does.
func Cover(plan *types.PlanRecord) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan required")
	}

	f, err := loadCoverFont()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(coverWidth, coverHeight)

	// Backdrop
	dc.SetColor(color.NRGBA{R: 0x1E, G: 0x29, B: 0x3B, A: 0xFF})
	dc.Clear()

	// Card
	dc.SetColor(color.NRGBA{R: 0x2B, G: 0x3A, B: 0x55, A: 0xFF})
	dc.DrawRoundedRectangle(60, 60, coverWidth-120, coverHeight-120, 28)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(newCoverFace(f, 58))
	dc.DrawStringAnchored("Personalized Study Plan", coverWidth/2, 180, 0.5, 0.5)

	summary := plan.Summary()
	style := "not determined"
	if summary.PrimaryLearningStyle != nil {
		style = *summary.PrimaryLearningStyle
	}
	lines := []string{
		fmt.Sprintf("Duration: %d days", summary.DurationDays),
		fmt.Sprintf("Estimated hours: %.0f", summary.TotalEstimatedHours),
		"Learning style: " + style,
	}

	dc.SetFontFace(newCoverFace(f, 34))
	y := 300.0
	for _, line := range lines {
		dc.DrawStringAnchored(line, coverWidth/2, y, 0.5, 0.5)
		y += 64
	}

	dc.SetColor(color.NRGBA{R: 0x9C, G: 0xB3, B: 0xD9, A: 0xFF})
	dc.SetFontFace(newCoverFace(f, 24))
	dc.DrawStringAnchored("Created "+plan.CreatedAt.UTC().Format("2006-01-02"), coverWidth/2, coverHeight-110, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode cover png: %w", err)
	}
	return buf.Bytes(), nil
}

func loadCoverFont() (*truetype.Font, error) {
	coverFontOnce.Do(func() {
		if path := strings.TrimSpace(os.Getenv("PLAN_COVER_FONT_PATH")); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				coverFontErr = fmt.Errorf("read cover font: %w", err)
				return
			}
			coverFont, coverFontErr = truetype.Parse(data)
			return
		}
		coverFont, coverFontErr = truetype.Parse(goregular.TTF)
	})
	return coverFont, coverFontErr
}

func newCoverFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
