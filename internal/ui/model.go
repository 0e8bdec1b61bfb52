package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/gubarz/codeappendix/internal/appendix"
	"github.com/gubarz/codeappendix/internal/config"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Preview Rendering
// ============================================================================

// Renderer turns markdown into terminal output
type Renderer interface {
	Render(in string) (string, error)
}

// plainRenderer shows markdown as-is
type plainRenderer struct{}

func (plainRenderer) Render(in string) (string, error) { return in, nil }

// NewRenderer returns a glamour renderer configured from the user config,
// or the plain renderer when glamour cannot be set up
func NewRenderer() Renderer {
	styleOpt := glamour.WithAutoStyle()
	if s := config.GetPreviewStyle(); s != "auto" {
		styleOpt = glamour.WithStandardStyle(s)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(config.GetPreviewWrap()))
	if err != nil {
		return plainRenderer{}
	}
	return r
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Model
// ============================================================================

const (
	listShare   = 3 // list takes 1/listShare of the height
	inputLines  = 3 // divider + info + input
	headerLines = 2 // preview header + divider
)

// model browses collected entries: a filtered list on top, the selected
// entry's code and output rendered below
type model struct {
	width     int
	height    int
	textInput textinput.Model
	preview   viewport.Model
	quitting  bool

	title    string
	items    []entryItem
	filtered []entryItem
	cursor   int
	offset   int

	renderer    Renderer
	previewFor  int // number of the entry shown in the preview, 0 for none
	previewErr  error
	renderCache map[int]string
}

func newModel(title string, entries []appendix.Entry, r Renderer) model {
	ti := textinput.New()
	ti.Placeholder = "Filter by language, file or code..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	items := newEntryItems(entries)
	m := model{
		title:       title,
		items:       items,
		filtered:    items,
		textInput:   ti,
		preview:     viewport.New(80, 10),
		renderer:    r,
		renderCache: make(map[int]string),
	}
	m.refreshPreview()
	return m
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = maxInt(msg.Width-4, 10)
		m.resizePreview()
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case filterMsg:
		m.filterEntries()
		m.refreshPreview()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes navigation keys; anything else goes to the filter input
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.moveCursor(-len(m.filtered))
	case "end", "ctrl+e":
		m.moveCursor(len(m.filtered))
	case "ctrl+u":
		m.preview.HalfViewUp()
	case "ctrl+d":
		m.preview.HalfViewDown()
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *model) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, maxInt(0, len(m.filtered)-1))
	m.refreshPreview()
}

// filterEntries filters the list based on the query
func (m *model) filterEntries() {
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.items
	} else {
		words := strings.Fields(strings.ToLower(query))
		m.filtered = make([]entryItem, 0, len(m.items))
		for i := range m.items {
			if m.items[i].matchesQuery(words) {
				m.filtered = append(m.filtered, m.items[i])
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, maxInt(0, len(m.filtered)-1))
}

func (m *model) listHeight() int {
	return maxInt(maxInt(m.height, 24)/listShare, 3)
}

func (m *model) resizePreview() {
	height := maxInt(m.height, 24)
	m.preview.Width = maxInt(m.width, 80)
	m.preview.Height = maxInt(height-m.listHeight()-inputLines-headerLines, 3)
}

// refreshPreview loads the selected entry into the viewport, rendering it
// once per entry
func (m *model) refreshPreview() {
	if m.cursor >= len(m.filtered) {
		m.previewFor = 0
		m.preview.SetContent("")
		return
	}
	item := m.filtered[m.cursor]
	if item.number == m.previewFor {
		return
	}

	m.previewErr = nil
	out, ok := m.renderCache[item.number]
	if !ok {
		var err error
		src := Markdown(item.number, item.entry)
		out, err = m.renderer.Render(src)
		if err != nil {
			m.previewErr = err
			out = src
		}
		m.renderCache[item.number] = out
	}

	m.previewFor = item.number
	m.preview.SetContent(out)
	m.preview.GotoTop()
}

// ============================================================================
// View
// ============================================================================

// View implements tea.Model
func (m model) View() string {
	if m.quitting {
		return ""
	}

	width := maxInt(m.width, 80)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(m.renderList(m.listHeight()))
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.renderPreviewHeader())
	b.WriteString("\n")
	b.WriteString(m.preview.View())
	b.WriteString("\n")
	b.WriteString(m.renderInput(width))
	return b.String()
}

// renderList renders the scrollable list of entries, padded to height
func (m *model) renderList(height int) string {
	b := getBuilder()
	defer putBuilder(b)

	start, end := scrollWindow(m.cursor, len(m.filtered), height, &m.offset)
	lines := 0
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor))
		b.WriteString("\n")
		lines++
	}
	for ; lines < height; lines++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderListItem renders a single list row: number, language, file, first line
func (m model) renderListItem(item entryItem, selected bool) string {
	lang, file, origin := styles.Language, styles.Filename, styles.Origin
	if selected {
		lang = styles.WithSelection(lang)
		file = styles.WithSelection(file)
		origin = styles.WithSelection(origin)
	}

	name := item.entry.Filename
	if name == "" {
		name = "-"
	}
	line := fmt.Sprintf("%3d ", item.number) +
		lang.Render(fmt.Sprintf("%-12s", truncateString(item.entry.Language, 12))) + " " +
		file.Render(fmt.Sprintf("%-20s", truncateString(name, 20))) + " " +
		origin.Render(fmt.Sprintf("%-10s", item.entry.Origin)) + " " +
		truncateString(item.firstLine(), maxInt(m.width-52, 20))

	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

func (m model) renderPreviewHeader() string {
	if m.cursor >= len(m.filtered) {
		return styles.Dim.Render("  no matching code blocks")
	}
	item := m.filtered[m.cursor]
	header := fmt.Sprintf("%s · %d output(s)", item.entry.Language, len(item.entry.Results))
	if m.previewErr != nil {
		header += " · " + m.previewErr.Error()
	}
	return styles.PreviewHeader.Render(header)
}

// renderInput renders the input section at the bottom
func (m model) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %s %d/%d", m.title, len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Ctrl+U/D scroll"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// maxInt returns the larger of a and b
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates a string to maxLen with ellipsis
func truncateString(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// firstLine returns the first line of a string
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
