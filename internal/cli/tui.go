package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mosaic/internal/watch"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// Terminal characters per grid unit.
const (
	unitCols = 6
	unitRows = 3
)

// Lines reserved for the header and status bar.
const chromeRows = 3

var tilePalette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorCyan),
	lipgloss.NewStyle().Foreground(colorGreen),
	lipgloss.NewStyle().Foreground(colorYellow),
	lipgloss.NewStyle().Foreground(colorBlue),
	lipgloss.NewStyle().Foreground(colorRed),
	lipgloss.NewStyle().Foreground(colorWhite),
}

var statusErrStyle = lipgloss.NewStyle().Foreground(colorRed)

// =============================================================================
// MosaicModel - Virtualized grid viewer
// =============================================================================

// reloadMsg carries a manifest reload from the file watcher.
type reloadMsg watch.Reload

// MosaicModel is the bubbletea model for scrolling through a packed manifest.
// Each grid unit is drawn as a unitCols×unitRows block of characters, and
// only the rows on screen are ever packed.
type MosaicModel struct {
	Path     string
	Manifest *manifest.Manifest
	Layout   *mosaic.Layout

	// Offset is the scroll position in grid units along the scroll axis.
	Offset int

	inset   geom.Insets
	cols    int
	rows    int
	reloads <-chan watch.Reload
	status  string
	err     error
}

// NewMosaicModel creates a viewer for m. A non-nil reloads channel makes the
// viewer swap in every reloaded manifest.
func NewMosaicModel(path string, m *manifest.Manifest, opts mosaic.Options, reloads <-chan watch.Reload) MosaicModel {
	opts.Insets = m
	return MosaicModel{
		Path:     path,
		Manifest: m,
		Layout:   mosaic.New(m, m, opts),
		inset:    opts.ContentInset,
		cols:     80,
		rows:     24,
		reloads:  reloads,
	}
}

func (m MosaicModel) Init() tea.Cmd {
	return waitForReload(m.reloads)
}

// waitForReload blocks on the next watcher reload.
func waitForReload(ch <-chan watch.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(r)
	}
}

func (m MosaicModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		page := m.visibleUnits()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			m.scroll(-1)
		case "down", "j", "right", "l":
			m.scroll(1)
		case "pgup", "b":
			m.scroll(-page)
		case "pgdown", " ", "f":
			m.scroll(page)
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.scrollToEnd()
		case "r":
			m.Layout.Invalidate()
			m.status = "layout invalidated"
			m.err = nil
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		if m.Layout.SetViewport(m.viewportSize(), m.inset) {
			m.status = fmt.Sprintf("capacity %d", m.Layout.Capacity())
		}
		m.clampOffset()
	case reloadMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.Manifest = msg.Manifest
			m.Layout.SetSource(msg.Manifest)
			m.Layout.SetDelegate(msg.Manifest, msg.Manifest)
			m.clampOffset()
			m.status = fmt.Sprintf("reloaded %d items", msg.Manifest.Len())
			m.err = nil
		}
		return m, waitForReload(m.reloads)
	}
	return m, nil
}

// unitSpan returns how many whole grid units fit in the terminal body along
// each screen axis.
func (m MosaicModel) unitSpan() (across, down int) {
	across = max(m.cols/unitCols, 1)
	down = max((m.rows-chromeRows)/unitRows, 1)
	return across, down
}

// viewportSize maps the terminal body to a pixel viewport.
func (m MosaicModel) viewportSize() geom.Size {
	across, down := m.unitSpan()
	u := m.Layout.Unit()
	return geom.Size{W: float64(across) * u.W, H: float64(down) * u.H}
}

// visibleUnits is the number of grid units on screen along the scroll axis.
func (m MosaicModel) visibleUnits() int {
	across, down := m.unitSpan()
	if m.Layout.Axis() == mosaic.Horizontal {
		return across
	}
	return down
}

// visibleRect is the pixel rectangle on screen at the current offset.
func (m MosaicModel) visibleRect() geom.Rect {
	vp := m.viewportSize()
	u := m.Layout.Unit()
	if m.Layout.Axis() == mosaic.Horizontal {
		return geom.Rect{X: float64(m.Offset) * u.W, W: vp.W, H: vp.H}
	}
	return geom.Rect{Y: float64(m.Offset) * u.H, W: vp.W, H: vp.H}
}

// extentUnits is the scrollable content length in grid units after packing
// ahead of the current offset.
func (m MosaicModel) extentUnits() int {
	r := m.visibleRect()
	m.Layout.Prepare(geom.Point{X: r.X, Y: r.Y})
	ext := m.Layout.ContentExtent()
	u := m.Layout.Unit()
	if m.Layout.Axis() == mosaic.Horizontal {
		return int(ext.W / u.W)
	}
	return int(ext.H / u.H)
}

func (m *MosaicModel) scroll(delta int) {
	m.Offset += delta
	m.clampOffset()
}

// clampOffset keeps at least one row of content on screen.
func (m *MosaicModel) clampOffset() {
	if m.Offset < 0 {
		m.Offset = 0
	}
	if limit := max(m.extentUnits()-m.visibleUnits(), 0); m.Offset > limit {
		m.Offset = limit
	}
}

// scrollToEnd packs through the last item and scrolls to it.
func (m *MosaicModel) scrollToEnd() {
	for g := m.Manifest.GroupCount() - 1; g >= 0; g-- {
		if n := m.Manifest.ItemCount(g); n > 0 {
			m.Layout.CellFor(mosaic.ItemID{Group: g, Ordinal: n - 1})
			break
		}
	}
	m.Offset = m.extentUnits()
	m.clampOffset()
}

func (m MosaicModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName) + " " + StyleDim.Render(m.Path))
	b.WriteString("\n")

	b.WriteString(m.renderGrid())

	st := m.Layout.Stats()
	info := fmt.Sprintf("offset %d · capacity %d · packed %d/%d · epoch %d",
		m.Offset, st.Capacity, st.Packed, m.Manifest.Len(), st.Epoch)
	b.WriteString(StyleDim.Render(info))
	switch {
	case m.err != nil:
		b.WriteString("  " + statusErrStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString("  " + StyleHighlight.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ scroll  pgup/pgdn page  g/G ends  r relayout  q quit"))

	return b.String()
}

// tile is one character of the rendered grid. item is -1 for empty space.
type tile struct {
	r    rune
	item int
}

// renderGrid draws the frames in the visible rows into a character buffer.
func (m MosaicModel) renderGrid() string {
	across, down := m.unitSpan()
	width, height := across*unitCols, down*unitRows

	buf := make([][]tile, height)
	for y := range buf {
		buf[y] = make([]tile, width)
		for x := range buf[y] {
			buf[y][x] = tile{r: ' ', item: -1}
		}
	}

	offX, offY := 0, m.Offset
	if m.Layout.Axis() == mosaic.Horizontal {
		offX, offY = m.Offset, 0
	}

	for _, f := range m.Layout.FramesForRect(m.visibleRect()) {
		d := pipeline.Describe(m.Manifest, m.Layout, f)
		x0 := (d.Cell.X - offX) * unitCols
		y0 := (d.Cell.Y - offY) * unitRows
		x1 := x0 + d.Span.W*unitCols - 1
		y1 := y0 + d.Span.H*unitRows - 1
		for y := max(y0, 0); y < min(y1, height); y++ {
			for x := max(x0, 0); x < min(x1, width); x++ {
				buf[y][x] = tile{r: '▒', item: d.ID.Ordinal}
			}
		}
		if y0 >= 0 && y0 < height {
			label := d.Label
			if label == "" {
				label = d.ID.String()
			}
			for i, r := range []rune(label) {
				x := x0 + i
				if x >= x1 || x >= width {
					break
				}
				if x >= 0 {
					buf[y0][x] = tile{r: r, item: d.ID.Ordinal}
				}
			}
		}
	}

	var b strings.Builder
	for _, line := range buf {
		for x := 0; x < len(line); {
			end := x
			for end < len(line) && line[end].item == line[x].item {
				end++
			}
			run := make([]rune, 0, end-x)
			for _, t := range line[x:end] {
				run = append(run, t.r)
			}
			if line[x].item < 0 {
				b.WriteString(string(run))
			} else {
				style := tilePalette[line[x].item%len(tilePalette)]
				b.WriteString(style.Render(string(run)))
			}
			x = end
		}
		b.WriteString("\n")
	}
	return b.String()
}
