// Package tui provides the interactive BubbleTea search view for oxisearch.
//
// Layout:
//
//	┌─────────────────────────────────────┐
//	│  oxisearch  file search              │  ← header
//	│  ❯ <query input>                     │  ← search bar
//	│  ─────────────────────────────────   │  ← divider
//	│  <icon> dir/name.go      1.2 kB      │  ← results
//	│  ...                                  │
//	│  ─────────────────────────────────   │  ← divider
//	│  3 results  ^i info  esc clear  ↑↓ nav  ^q quit │  ← status bar
//	└─────────────────────────────────────┘
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ale-01cu/oxisearch/internal/logger"
	"github.com/ale-01cu/oxisearch/internal/record"
	"github.com/ale-01cu/oxisearch/internal/service"
)

// ── Palette ──────────────────────────────────────────────────────────────────

var (
	colorAccent  = lipgloss.Color("#7C6AF7")
	colorDim     = lipgloss.Color("#555555")
	colorMuted   = lipgloss.Color("#888888")
	colorText    = lipgloss.Color("#DDDDDD")
	colorSubdued = lipgloss.Color("#444444")
	colorSize    = lipgloss.Color("#5ECEF5")
	colorErr     = lipgloss.Color("#FF6B6B")
	colorGreen   = lipgloss.Color("#5AF078")

	sTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	sAccent = lipgloss.NewStyle().Foreground(colorAccent)
	sDim    = lipgloss.NewStyle().Foreground(colorDim)
	sMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	sSize   = lipgloss.NewStyle().Foreground(colorSize)
	sPath   = lipgloss.NewStyle().Foreground(colorText)
	sDir    = lipgloss.NewStyle().Foreground(colorMuted)
	sErr    = lipgloss.NewStyle().Foreground(colorErr)
	sGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	sSel    = lipgloss.NewStyle().
		Background(lipgloss.Color("#1E1A3A")).
		Foreground(colorText)
	sHint = lipgloss.NewStyle().
		Foreground(colorDim).
		Background(lipgloss.Color("#111111"))
	sDivider = lipgloss.NewStyle().Foreground(colorSubdued)
)

// ── Extension → icon map ─────────────────────────────────────────────────────

var extIcon = map[string]string{
	".go": "󰟓 ", ".py": "󰌠 ", ".rs": "󱘗 ", ".js": "󰌞 ",
	".ts": "󰛦 ", ".md": "󰍔 ", ".txt": "󰦨 ", ".json": "󰘦 ",
	".yaml": "󰗊 ", ".yml": "󰗊 ", ".toml": " ", ".c": "󰙱 ",
	".cpp": "󰙲 ", ".h": "󰙳 ", ".conf": "󰒓 ", ".sh": " ",
}

func fileIcon(r record.SearchResult) string {
	if r.IsDir {
		return " "
	}
	if icon, ok := extIcon[filepath.Ext(r.Path)]; ok {
		return icon
	}
	return " "
}

// ── Spinner frames ────────────────────────────────────────────────────────────

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinTickMsg struct{}

func spinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return spinTickMsg{} })
}

// ── Messages ─────────────────────────────────────────────────────────────────

type mode int

const (
	modeSearch mode = iota
	modeStatus
)

type (
	searchResultMsg record.SearchResults
	statusMsg       record.IndexingStatus
	errMsg          struct{ err error }
	debounceMsg     struct {
		query string
		id    int
	}
)

// ── Model ─────────────────────────────────────────────────────────────────────

// Model is the BubbleTea application model for the oxisearch TUI.
type Model struct {
	svc        *service.Service
	input      textinput.Model
	results    []record.SearchResult
	total      int
	cursor     int
	mode       mode
	err        error
	width      int
	height     int
	searching  bool
	spinFrame  int
	status     *record.IndexingStatus
	debounceID int
	lastQuery  string
}

// New creates a TUI model backed by the given service.
func New(svc *service.Service) Model {
	ti := textinput.New()
	ti.Placeholder = "search your files…"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60
	ti.PromptStyle = sAccent
	ti.Prompt = "❯ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)

	return Model{
		svc:   svc,
		input: ti,
		mode:  modeSearch,
	}
}

// Init is the BubbleTea init hook.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, spinTick())
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 8
		return m, nil

	case spinTickMsg:
		m.spinFrame = (m.spinFrame + 1) % len(spinnerFrames)
		return m, spinTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit

		case "ctrl+i", "tab": // terminals deliver ctrl+i as tab
			if m.mode != modeStatus {
				m.mode = modeStatus
				m.input.Blur()
				return m, statusCmd(m.svc)
			}
			m.mode = modeSearch
			m.input.Focus()
			m.status = nil
			return m, nil

		case "esc":
			m.mode = modeSearch
			m.input.Focus()
			m.status = nil
			m.err = nil
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}

	case debounceMsg:
		if msg.id == m.debounceID && msg.query == m.input.Value() {
			if strings.TrimSpace(msg.query) == "" {
				m.searching = false
				m.results = nil
				m.total = 0
				return m, nil
			}
			m.searching = true
			m.lastQuery = msg.query
			return m, searchCmd(m.svc, msg.query)
		}
		return m, nil

	case searchResultMsg:
		m.searching = false
		m.results = msg.Results
		m.total = msg.Total
		m.cursor = 0
		m.err = nil
		return m, nil

	case statusMsg:
		s := record.IndexingStatus(msg)
		m.status = &s
		return m, nil

	case errMsg:
		m.searching = false
		m.err = msg.err
		return m, nil
	}

	// Delegate to the text input in search mode.
	if m.mode == modeSearch {
		prevVal := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != prevVal {
			m.debounceID++
			id := m.debounceID
			q := m.input.Value()
			return m, tea.Batch(cmd, debounceCmd(q, id, 280*time.Millisecond))
		}
		return m, cmd
	}

	return m, nil
}

// ── Views ─────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.mode == modeStatus {
		return m.statusView()
	}
	return m.searchView()
}

func (m Model) searchView() string {
	var b strings.Builder
	w := m.width
	divider := sDivider.Render(strings.Repeat("─", clamp(w-2, 10, 200)))

	left := "  " + sTitle.Render("oxisearch") + "  " + sMuted.Render("file search")
	header := padBetween(left, sDim.Render("ctrl+i for status"), w)
	fmt.Fprintln(&b, header)

	fmt.Fprintln(&b, "  "+m.input.View())
	fmt.Fprintln(&b, "  "+divider)

	switch {
	case m.err != nil:
		fmt.Fprintln(&b, sErr.Render("  error: "+m.err.Error()))
	case m.searching:
		frame := spinnerFrames[m.spinFrame]
		fmt.Fprintln(&b, "  "+sAccent.Render(frame)+"  "+sMuted.Render("searching…"))
	case len(m.results) == 0 && m.input.Value() == "":
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, sMuted.Render("  Start typing to search the index."))
		fmt.Fprintln(&b, sDim.Render("  Matches are by name substring."))
	case len(m.results) == 0:
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, sMuted.Render("  no results for ")+sAccent.Render("\""+m.lastQuery+"\""))
		fmt.Fprintln(&b, sDim.Render("  try a shorter query or reindex with `oxisearch index`"))
	default:
		bodyHeight := m.height - 7
		m.renderResults(&b, bodyHeight)
	}

	b.WriteString("\n  " + divider + "\n")
	m.renderStatusBar(&b)

	return b.String()
}

func (m *Model) renderResults(b *strings.Builder, maxRows int) {
	maxResults := maxRows
	if maxResults < 1 {
		maxResults = 1
	}

	for i, r := range m.results {
		if i >= maxResults {
			remaining := len(m.results) - i
			fmt.Fprintf(b, "  %s\n", sDim.Render(fmt.Sprintf("… %d more results", remaining)))
			break
		}

		dir := filepath.Dir(r.Path)
		icon := fileIcon(r)
		size := ""
		if !r.IsDir && r.FileSize != nil {
			size = logger.Bytes(*r.FileSize)
		}

		pathStr := sDir.Render(dir+"/") + sPath.Render(r.Name)
		line := fmt.Sprintf("  %s%s  %s", icon, pathStr, sSize.Render(size))

		if i == m.cursor {
			raw := icon + dir + "/" + r.Name + "  " + size
			pad := clamp(m.width-len(raw)-3, 0, m.width)
			line = sSel.Render("  " + icon + sDir.Render(dir+"/") + sPath.Render(r.Name) + "  " + sSize.Render(size) + strings.Repeat(" ", pad))
		}

		fmt.Fprintln(b, line)
	}
}

func (m *Model) renderStatusBar(b *strings.Builder) {
	var left string
	switch {
	case len(m.results) > 0:
		left = sGreen.Render(fmt.Sprintf("  %d result", m.total))
		if m.total != 1 {
			left += sGreen.Render("s")
		}
	case m.err != nil:
		left = "  " + sErr.Render(m.err.Error())
	default:
		left = sDim.Render("  no results")
	}

	right := sHint.Render("^i info  esc clear  ↑↓ nav  ^q quit  ")
	fmt.Fprint(b, padBetween(left, right, m.width))
}

func (m Model) statusView() string {
	var b strings.Builder
	w := clamp(m.width, 10, 200)
	divider := sDivider.Render(strings.Repeat("─", w-2))

	fmt.Fprintln(&b, "  "+sTitle.Render("oxisearch")+" "+sMuted.Render("— index status"))
	fmt.Fprintln(&b, "  "+divider)

	if m.status != nil {
		s := m.status
		fmt.Fprintln(&b, "")
		row := func(label, value string) {
			fmt.Fprintf(&b, "  %-18s %s\n", sDim.Render(label), value)
		}
		row("indexing", sAccent.Render(fmt.Sprintf("%v", s.IsIndexing)))
		lastIndexed := "never"
		if s.LastIndexed != nil {
			lastIndexed = *s.LastIndexed
		}
		row("last indexed", sMuted.Render(lastIndexed))
		row("total files", sAccent.Render(fmt.Sprintf("%d", s.TotalFiles)))
		row("database size", sAccent.Render(logger.Bytes(s.DatabaseSize)))
	}

	fmt.Fprintln(&b, "")
	fmt.Fprintln(&b, "  "+divider)
	fmt.Fprint(&b, sHint.Render("  esc back to search  ctrl+q quit"+strings.Repeat(" ", clamp(w-35, 0, 200))))
	return b.String()
}

// ── Commands ──────────────────────────────────────────────────────────────────

func debounceCmd(query string, id int, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(delay)
		return debounceMsg{query: query, id: id}
	}
}

func searchCmd(svc *service.Service, query string) tea.Cmd {
	return func() tea.Msg {
		results, err := svc.SearchFiles(query, record.SearchFilters{}, 1, 100)
		if err != nil {
			return errMsg{err}
		}
		return searchResultMsg(results)
	}
}

func statusCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		status, err := svc.GetIndexingStatus()
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(status)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// padBetween pads left and right strings to fill width.
func padBetween(left, right string, width int) string {
	lv := visibleLen(left)
	rv := visibleLen(right)
	gap := width - lv - rv
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// visibleLen estimates printable character count (strips common ANSI sequences).
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if inEsc {
			if r == 'm' {
				inEsc = false
			}
			continue
		}
		if r == '\x1b' {
			inEsc = true
			continue
		}
		n++
	}
	return n
}
