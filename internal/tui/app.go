// internal/tui/app.go
//
// This is the interactive browser for one iteration result.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the result, the section list and the detail viewport
// 2. Update: key presses move between sections, add follow-ups or export
// 3. View: renders the list and the selected section side by side
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/scrumteam/internal/artifact"
	"github.com/kingrea/scrumteam/internal/logbook"
	"github.com/kingrea/scrumteam/internal/report"
	"github.com/kingrea/scrumteam/internal/team"
)

// appState represents which input mode we're in
type appState int

const (
	stateBrowse   appState = iota // Moving through sections
	stateFollowUp                 // Typing a product owner instruction
)

type paneFocus int

const (
	focusSections paneFocus = iota
	focusDetail
)

const logPanelLines = 6

// ErrNoResult is returned by NewApp when there is nothing to browse.
var ErrNoResult = errors.New("tui: no iteration result")

type exportFinishedMsg struct {
	dir  string
	refs []artifact.Ref
	err  error
}

// AppOption customizes App construction.
type AppOption func(*App)

// WithLogbook shows the tail of the sprint logbook below the browser.
func WithLogbook(book *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = book
	}
}

// WithExportDir enables the export key; artifacts are written below dir.
func WithExportDir(dir string) AppOption {
	return func(a *App) {
		a.exportDir = strings.TrimSpace(dir)
	}
}

// App is the browser model.
type App struct {
	state   appState
	team    *team.Team
	result  *team.Result
	logbook *logbook.Logbook

	exportDir string
	exporting bool

	sections []report.Section
	list     list.Model
	detail   viewport.Model
	input    textinput.Model
	focus    paneFocus
	shown    int

	statusMsg string
	width     int
	height    int
}

// sectionItem implements list.Item for one report section
type sectionItem struct {
	title string
	desc  string
}

func (i sectionItem) Title() string       { return i.title }
func (i sectionItem) Description() string { return i.desc }
func (i sectionItem) FilterValue() string { return i.title }

// NewApp creates a browser over result. tm receives follow-up instructions
// and performs exports.
func NewApp(tm *team.Team, result *team.Result, opts ...AppOption) (*App, error) {
	if tm == nil || result == nil {
		return nil, ErrNoResult
	}
	sectionList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	sectionList.Title = "Sections"
	sectionList.SetShowStatusBar(false)
	sectionList.SetFilteringEnabled(false)
	sectionList.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "Describe the follow-up instruction"
	input.Prompt = "Product Owner › "
	input.CharLimit = 240

	app := &App{
		state:     stateBrowse,
		team:      tm,
		result:    result,
		list:      sectionList,
		detail:    viewport.New(60, 20),
		input:     input,
		shown:     -1,
		statusMsg: fmt.Sprintf("%d requirements · pattern %s", len(result.Requirements), result.Architecture.Pattern),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.resize()
	app.refreshSections()
	return app, nil
}

// refreshSections rebuilds the section list from the result, keeping the
// current selection when it still exists.
func (a *App) refreshSections() {
	a.sections = report.Sections(a.result)
	items := make([]list.Item, len(a.sections))
	for i, section := range a.sections {
		items[i] = sectionItem{
			title: section.Title,
			desc:  fmt.Sprintf("%d lines", len(section.Lines)),
		}
	}
	selected := a.list.Index()
	a.list.SetItems(items)
	if selected >= len(items) {
		selected = len(items) - 1
	}
	if selected < 0 {
		selected = 0
	}
	a.list.Select(selected)
	a.shown = -1
	a.syncDetail()
}

// syncDetail shows the selected section in the viewport.
func (a *App) syncDetail() {
	idx := a.list.Index()
	if idx < 0 || idx >= len(a.sections) {
		a.detail.SetContent("")
		return
	}
	wasShown := a.shown == idx
	a.detail.SetContent(strings.Join(a.sections[idx].Lines, "\n"))
	if !wasShown {
		a.detail.GotoTop()
	}
	a.shown = idx
}

// Selected returns the title of the selected section.
func (a *App) Selected() string {
	idx := a.list.Index()
	if idx < 0 || idx >= len(a.sections) {
		return ""
	}
	return a.sections[idx].Title
}

// Result returns the browsed result, including follow-ups added in the UI.
func (a *App) Result() *team.Result { return a.result }

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case exportFinishedMsg:
		a.exporting = false
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
			a.logbook.Error("browser export to %s failed: %v", msg.dir, msg.err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Exported %d artifacts to %s", len(msg.refs), msg.dir)
		return a, nil

	case tea.KeyMsg:
		if a.state == stateFollowUp {
			return a.updateFollowUp(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "tab":
			if a.focus == focusSections {
				a.focus = focusDetail
			} else {
				a.focus = focusSections
			}
			return a, nil
		case "right", "l":
			a.focus = focusDetail
			return a, nil
		case "left", "h":
			a.focus = focusSections
			return a, nil
		case "f":
			a.state = stateFollowUp
			a.input.Reset()
			a.statusMsg = "Enter applies the instruction · Esc cancels"
			return a, a.input.Focus()
		case "x":
			return a, a.startExport()
		}
	}

	var cmd tea.Cmd
	if a.state == stateFollowUp {
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	if a.focus == focusDetail {
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	a.list, cmd = a.list.Update(msg)
	a.syncDetail()
	return a, cmd
}

func (a *App) updateFollowUp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.state = stateBrowse
		a.input.Blur()
		a.statusMsg = "Follow-up cancelled"
		return a, nil
	case tea.KeyEnter:
		instruction := strings.TrimSpace(a.input.Value())
		if instruction == "" {
			a.statusMsg = "Instruction is empty"
			return a, nil
		}
		a.applyFollowUp(instruction)
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) applyFollowUp(instruction string) {
	a.team.HandleFollowUp(a.result, instruction)
	a.state = stateBrowse
	a.input.Blur()
	a.input.Reset()
	a.refreshSections()
	a.selectSection("Follow-up Instructions")
	a.statusMsg = fmt.Sprintf("Follow-up %d applied", len(a.result.FollowUps))
}

func (a *App) selectSection(title string) {
	for i, section := range a.sections {
		if section.Title == title {
			a.list.Select(i)
			a.syncDetail()
			return
		}
	}
}

func (a *App) startExport() tea.Cmd {
	if a.exportDir == "" {
		a.statusMsg = "Export is disabled (no export directory)"
		return nil
	}
	if a.exporting {
		return nil
	}
	// The command runs off the update loop while follow-ups keep mutating
	// a.result, so it exports a copy.
	result, err := a.result.Snapshot()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		return nil
	}
	a.exporting = true
	a.statusMsg = fmt.Sprintf("Exporting to %s...", a.exportDir)
	tm, dir := a.team, a.exportDir
	return func() tea.Msg {
		refs, err := tm.Export(result, dir)
		return exportFinishedMsg{dir: dir, refs: refs, err: err}
	}
}

func (a *App) resize() {
	listWidth, detailWidth := a.columns()
	bodyHeight := max(6, a.height-12)
	a.list.SetSize(max(16, listWidth-4), bodyHeight)
	a.detail.Width = max(20, detailWidth-4)
	a.detail.Height = bodyHeight
	a.input.Width = max(20, a.width-24)
}

func (a *App) columns() (int, int) {
	width := a.width
	if width <= 0 {
		width = 100
	}
	listWidth := max(28, width/3)
	return listWidth, max(24, width-listWidth-4)
}

// View renders the current state to a string.
func (a *App) View() string {
	listWidth, detailWidth := a.columns()
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render(fmt.Sprintf("⬡ SCRUMTEAM · %s", a.result.Architecture.Pattern))

	left := paneStyle(a.focus == focusSections).Width(listWidth).Render(a.list.View())
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(a.Selected())
	right := paneStyle(a.focus == focusDetail).
		Width(detailWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, a.detail.View()))

	sections := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, left, right)}
	if a.state == stateFollowUp {
		sections = append(sections, a.input.View())
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg + "\n" + a.hints())
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) hints() string {
	if a.state == stateFollowUp {
		return "enter apply · esc cancel"
	}
	parts := []string{"↑/↓ move", "tab switch pane", "f follow-up"}
	if a.exportDir != "" {
		parts = append(parts, "x export")
	}
	return strings.Join(append(parts, "q quit"), " · ")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func paneStyle(focused bool) lipgloss.Style {
	border := lipgloss.Color("#444444")
	if focused {
		border = lipgloss.Color("#5B8DEF")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}
