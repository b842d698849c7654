package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stagekit/imageseq/pkg/layout"
)

// List styles
var (
	tuneSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuneNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tuneDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TuneModel - Interactive parameter tuning
// =============================================================================

// tuneField identifies one adjustable parameter.
type tuneField int

const (
	fieldPPI tuneField = iota
	fieldGap
	fieldCurve
	fieldPerRow
	fieldCount
)

// fieldSteps are the increments applied per keypress.
var fieldSteps = map[tuneField]float64{
	fieldPPI:    10,
	fieldGap:    0.05,
	fieldCurve:  0.05,
	fieldPerRow: 1,
}

// TuneModel is the bubbletea model for interactive parameter tuning.
// It shows the current parameters alongside a coarse character plan of the
// resulting layout, recomputed on every change.
type TuneModel struct {
	Images   []layout.Image
	Params   layout.Params
	Cursor   tuneField
	Accepted bool
	planErr  error
	plan     string
}

// NewTuneModel creates a tune model seeded with the given parameters.
func NewTuneModel(images []layout.Image, params layout.Params) TuneModel {
	m := TuneModel{Images: images, Params: params}
	m.recompute()
	return m
}

func (m TuneModel) Init() tea.Cmd {
	return nil
}

func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < fieldCount-1 {
				m.Cursor++
			}
		case "left", "h", "-":
			m.adjust(-1)
			m.recompute()
		case "right", "l", "+":
			m.adjust(1)
			m.recompute()
		case "enter":
			m.Accepted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// adjust applies one step to the selected field, clamping to valid ranges.
func (m *TuneModel) adjust(direction float64) {
	step := fieldSteps[m.Cursor] * direction
	switch m.Cursor {
	case fieldPPI:
		m.Params.PixelsPerInch = math.Max(10, m.Params.PixelsPerInch+step)
	case fieldGap:
		m.Params.GapFraction = math.Max(0, m.Params.GapFraction+step)
	case fieldCurve:
		m.Params.CurveFraction = math.Min(1, math.Max(0, m.Params.CurveFraction+step))
	case fieldPerRow:
		m.Params.ImagesPerRow += int(step)
		if m.Params.ImagesPerRow < 0 {
			m.Params.ImagesPerRow = 0
		}
	}
}

// recompute refreshes the character plan from the current parameters.
func (m *TuneModel) recompute() {
	transforms, err := layout.Compute(m.Images, m.Params)
	if err != nil {
		m.planErr = err
		m.plan = ""
		return
	}
	m.planErr = nil
	m.plan = charPlan(transforms, 48, 14)
}

func (m TuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tune Arrangement"))
	b.WriteString("\n")
	b.WriteString(tuneDimStyle.Render("↑/↓ field  ←/→ adjust  ⏎ accept  q quit"))
	b.WriteString("\n\n")

	rows := []struct {
		field tuneField
		label string
		value string
	}{
		{fieldPPI, "pixels per inch", fmt.Sprintf("%g", m.Params.PixelsPerInch)},
		{fieldGap, "gap fraction", fmt.Sprintf("%.2f", m.Params.GapFraction)},
		{fieldCurve, "curve fraction", fmt.Sprintf("%.2f", m.Params.CurveFraction)},
		{fieldPerRow, "images per row", fmt.Sprintf("%d", m.Params.ImagesPerRow)},
	}

	for _, row := range rows {
		cursor := "  "
		style := tuneNormalStyle
		if row.field == m.Cursor {
			cursor = "▸ "
			style = tuneSelectedStyle
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-16s %s", row.label, row.value)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.planErr != nil {
		b.WriteString(StyleWarning.Render(m.planErr.Error()))
	} else {
		b.WriteString(tuneDimStyle.Render(m.plan))
	}
	b.WriteString("\n")

	return b.String()
}

// charPlan draws the transforms as a coarse character grid, looking down
// the Y axis. Each image center becomes one mark.
func charPlan(transforms map[string]layout.Transform, width, height int) string {
	if len(transforms) == 0 {
		return "(no images)"
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, tr := range transforms {
		minX = math.Min(minX, tr.Translate.X())
		maxX = math.Max(maxX, tr.Translate.X())
		minZ = math.Min(minZ, tr.Translate.Z())
		maxZ = math.Max(maxZ, tr.Translate.Z())
	}
	spanX := math.Max(maxX-minX, 1e-9)
	spanZ := math.Max(maxZ-minZ, 1e-9)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat("·", width))
	}

	for _, tr := range transforms {
		col := int((tr.Translate.X() - minX) / spanX * float64(width-1))
		row := int((maxZ - tr.Translate.Z()) / spanZ * float64(height-1))
		grid[row][col] = '■'
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}
