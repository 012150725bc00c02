package browse

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobscout/jobscout/internal/model"
)

// Lines per listing in the list view (title + subtitle + blank separator).
const listItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// detailFetchedMsg is sent when an async detail fetch completes.
type detailFetchedMsg struct {
	record model.JobRecord
	err    error
}

type browseModel struct {
	records        []model.JobRecord
	providerErrors map[string]string
	listViewport   viewport.Model
	cursor         int
	width          int
	height         int
	ready          bool

	// Detail view state
	view           viewState
	detailRecord   model.JobRecord
	detailLoading  bool
	detailError    string
	detailViewport viewport.Model
	detailFetchers map[string]model.DetailProvider
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case detailFetchedMsg:
		m.detailLoading = false
		if msg.err != nil {
			m.detailError = fmt.Sprintf("failed to load detail: %v", msg.err)
			m.detailViewport.SetContent(m.renderDetail())
			return m, nil
		}
		m.detailError = ""
		m.detailRecord = mergeDetail(m.detailRecord, msg.record)
		m.updateRecordInList(m.detailRecord)
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "o":
		if len(m.records) > 0 {
			openURL(m.records[m.cursor].URL)
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.detailRecord.URL)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.records)-1, 0))
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * listItemHeight
	cursorBottom := cursorTop + listItemHeight - 1

	if cursorTop < m.listViewport.YOffset {
		m.listViewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(cursorBottom - m.listViewport.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.records) == 0 {
		return m, nil
	}

	record := m.records[m.cursor]
	m.view = viewDetail
	m.detailRecord = record
	m.detailError = ""
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())

	// Interactive sources can fetch the full posting on demand.
	if fetcher, ok := m.detailFetchers[record.Source]; ok {
		m.detailLoading = true
		return m, fetchDetailCmd(fetcher, record.URL)
	}

	return m, nil
}

func fetchDetailCmd(fetcher model.DetailProvider, jobURL string) tea.Cmd {
	return func() tea.Msg {
		record, err := fetcher.FetchDetail(context.Background(), jobURL)
		return detailFetchedMsg{record: record, err: err}
	}
}

// mergeDetail overlays non-empty fields of the fetched record onto the base
// listing, so a sparse detail page never erases what the search already knew.
func mergeDetail(base, fetched model.JobRecord) model.JobRecord {
	if fetched.Title != "" {
		base.Title = fetched.Title
	}
	if fetched.Company != "" {
		base.Company = fetched.Company
	}
	if fetched.Location != "" {
		base.Location = fetched.Location
	}
	if fetched.Description != "" {
		base.Description = fetched.Description
	}
	if fetched.SalaryRange != "" {
		base.SalaryRange = fetched.SalaryRange
	}
	if fetched.PostedAt != "" {
		base.PostedAt = fetched.PostedAt
	}
	base.IsRemote = base.IsRemote || fetched.IsRemote
	base.HasSponsorship = base.HasSponsorship || fetched.HasSponsorship
	return base
}

func (m *browseModel) updateRecordInList(record model.JobRecord) {
	for i := range m.records {
		if m.records[i].URL == record.URL {
			m.records[i] = record
			break
		}
	}
}

func (m *browseModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.listViewport.Width = width
		m.listViewport.Height = height
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.listViewport.SetContent(renderRecords(m.records, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" Listings (%d)", len(m.records)))
	if len(m.providerErrors) > 0 {
		header += warnStyle.Render(fmt.Sprintf("  %d providers failed", len(m.providerErrors)))
	}

	pane := borderStyle.Width(m.listViewport.Width).Render(m.listViewport.View())

	statusText := " ↑/↓/j/k cursor  Enter detail  o open URL  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Listing Details")
	if m.detailLoading {
		title += "  (loading...)"
	}

	border := borderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusBar := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.detailRecord
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", r.Title)
	addField("Company", r.Company)
	addField("Location", r.Location)
	addField("Source", r.Source)
	addField("Posted", r.PostedAt)
	addField("Salary", r.SalaryRange)
	if r.IsRemote {
		addField("Remote", "yes")
	}
	if r.HasSponsorship {
		addField("Sponsorship", "mentioned")
	}
	if len(r.Tags) > 0 {
		addField("Tags", strings.Join(r.Tags, ", "))
	}

	b.WriteByte('\n')
	addField("URL", r.URL)

	if m.detailError != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.detailError) + "\n")
	}

	if r.Description != "" {
		wrapWidth := max(m.width-8, 20)
		b.WriteByte('\n')
		b.WriteString(descStyle.Render(wordWrap(r.Description, wrapWidth)) + "\n")
	} else if m.detailLoading {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  fetching full description...") + "\n")
	}

	return b.String()
}

func renderRecords(records []model.JobRecord, cursor int) string {
	if len(records) == 0 {
		return "  (no listings)"
	}

	var b strings.Builder
	for i, r := range records {
		titleSt := itemTitleStyle
		subtitleSt := itemSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(fmt.Sprintf("%s — %s", r.Company, r.Title)))
		b.WriteByte('\n')

		subtitle := fmt.Sprintf("%s · %s", r.Location, r.Source)
		if r.HasSponsorship {
			subtitle += " · sponsorship"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(subtitle))
		b.WriteByte('\n')

		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sortRecordsBySource(records []model.JobRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Source < records[j].Source
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
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

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser launches the interactive listing browser. detailFetchers maps a
// provider id to its on-demand detail fetcher and may be empty.
func RunBrowser(result model.AggregateResult, detailFetchers map[string]model.DetailProvider) error {
	records := append([]model.JobRecord(nil), result.Records...)
	sortRecordsBySource(records)

	m := browseModel{
		records:        records,
		providerErrors: result.ProviderErrors,
		detailFetchers: detailFetchers,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
