package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewModelSelect
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuDefaultModel = iota
	menuTUITheme
	menuTheme
	menuCopyToClipboard
	menuVerbose
	menuExit
	menuItemCount
)

const menuLabelWidth = 20

type (
	// feedbackClearMsg is sent to clear feedback messages
	feedbackClearMsg struct{}

	// configSavedMsg tells the chat screen that settings changed
	configSavedMsg struct {
		config config.Config
	}

	// configClosedMsg asks the chat screen to hide the settings menu
	configClosedMsg struct{}
)

// choice is one entry of a selection sub-menu
type choice struct {
	name        string
	description string
}

// ConfigModel is the settings menu. It runs on its own (geminichat config)
// or embedded in the chat screen.
type ConfigModel struct {
	config     config.Config
	configPath string
	logPath    string
	apiKey     string
	embedded   bool

	// Navigation
	view           configView
	cursor         int
	modelCursor    int
	themeCursor    int
	tuiThemeCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings menu from the config file
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.L().Warn("config unreadable, using defaults", "error", err)
	}
	return newConfigModel(cfg)
}

// newEmbeddedConfigModel creates the settings menu shown inside the chat screen
func newEmbeddedConfigModel(cfg config.Config, width, height int) ConfigModel {
	m := newConfigModel(cfg)
	m.embedded = true
	m.width = width
	m.height = height
	m.ready = true
	return m
}

func newConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath()

	apiKey := "not set"
	if key, err := config.ResolveAPIKey("", cfg); err == nil {
		apiKey = config.MaskAPIKey(key)
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logPath:         logPath,
		apiKey:          apiKey,
		view:            viewMain,
		modelCursor:     indexOf(config.AvailableModels(), cfg.DefaultModel),
		themeCursor:     indexOf(render.ThemeNames(), markdownStyle(cfg)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), tuiThemeName(cfg)),
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, m.close()

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// close leaves the menu: quits when standalone, hands back to chat when embedded
func (m ConfigModel) close() tea.Cmd {
	if m.embedded {
		return func() tea.Msg { return configClosedMsg{} }
	}
	return tea.Quit
}

// move shifts the cursor of the current view, wrapping around
func (m *ConfigModel) move(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor+delta, menuItemCount)
	case viewModelSelect:
		m.modelCursor = wrap(m.modelCursor+delta, len(config.AvailableModels()))
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor+delta, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor+delta, len(render.TUIThemeNames()))
	}
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuDefaultModel:
			m.view = viewModelSelect
		case menuTheme:
			m.view = viewThemeSelect
		case menuTUITheme:
			m.view = viewTUIThemeSelect
		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.save("Copy to clipboard " + enabledWord(m.config.CopyToClipboard))
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m.save("Verbose output " + enabledWord(m.config.Verbose))
		case menuExit:
			return m, m.close()
		}
		return m, nil

	case viewModelSelect:
		m.config.DefaultModel = config.AvailableModels()[m.modelCursor]
		m.view = viewMain
		return m.save("Model set to " + m.config.DefaultModel)

	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		m.view = viewMain
		return m.save("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected

		render.SetTUITheme(selected)
		UpdateTheme()

		m.view = viewMain
		return m.save("TUI theme set to " + selected)
	}

	return m, nil
}

// save writes the config and reports the outcome
func (m ConfigModel) save(feedback string) (tea.Model, tea.Cmd) {
	if err := config.SaveConfig(m.config); err != nil {
		logging.L().Error("save config failed", "error", err)
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback(m.feedbackTimeout)
	}

	logging.L().Info("config saved", "change", feedback)
	m.feedback = feedback

	if !m.embedded {
		return m, clearFeedback(m.feedbackTimeout)
	}
	cfg := m.config
	return m, tea.Batch(
		func() tea.Msg { return configSavedMsg{config: cfg} },
		clearFeedback(m.feedbackTimeout),
	)
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Settings"))
	sections = append(sections, header)

	if !m.embedded {
		paths := lipgloss.JoinVertical(lipgloss.Left,
			configSectionTitleStyle.Render("Paths"),
			"   Config:  "+configPathStyle.Render(m.configPath),
			"   Log:     "+configPathStyle.Render(m.logPath),
			"   API key: "+m.renderAPIKey(),
		)
		sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))
	}

	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewModelSelect:
		settings = m.renderModelSelect()
	case viewThemeSelect:
		settings = m.renderThemeSelect()
	case viewTUIThemeSelect:
		settings = m.renderTUIThemeSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderAPIKey() string {
	if m.apiKey == "not set" {
		return configStatusErrorStyle.Render("✗ not set")
	}
	return configStatusOkStyle.Render("✓ " + m.apiKey)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	rows := []struct {
		label string
		value string
	}{
		{"Default Model", configValueStyle.Render(m.config.DefaultModel)},
		{"TUI Theme", configValueStyle.Render(tuiThemeName(m.config))},
		{"Markdown Theme", configValueStyle.Render(markdownStyle(m.config))},
		{"Copy to Clipboard", renderBoolValue(m.config.CopyToClipboard)},
		{"Verbose Output", renderBoolValue(m.config.Verbose)},
	}

	items := []string{configSectionTitleStyle.Render("⚙ Preferences"), ""}
	for i, row := range rows {
		cursor, style := menuCursor(m.cursor == i)
		items = append(items, cursor+style.Render(runewidth.FillRight(row.label, menuLabelWidth))+row.value)
	}

	items = append(items, "")
	cursor, style := menuCursor(m.cursor == menuExit)
	exitLabel := "Exit"
	if m.embedded {
		exitLabel = "Back to chat"
	}
	items = append(items, cursor+style.Render(exitLabel))

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderModelSelect renders the model selection sub-menu
func (m ConfigModel) renderModelSelect() string {
	var choices []choice
	for _, name := range config.AvailableModels() {
		choices = append(choices, choice{name: name})
	}
	return renderChoices("Select Model", choices, m.modelCursor, m.config.DefaultModel)
}

// renderThemeSelect renders the markdown theme selection sub-menu
func (m ConfigModel) renderThemeSelect() string {
	var choices []choice
	for _, theme := range render.AvailableThemes() {
		choices = append(choices, choice{name: theme.Name, description: theme.Description})
	}
	return renderChoices("Select Markdown Theme", choices, m.themeCursor, markdownStyle(m.config))
}

// renderTUIThemeSelect renders the TUI color theme selection sub-menu
func (m ConfigModel) renderTUIThemeSelect() string {
	var choices []choice
	for _, theme := range render.AvailableTUIThemes() {
		choices = append(choices, choice{name: theme.Name, description: theme.Description})
	}
	return renderChoices("Select TUI Theme", choices, m.tuiThemeCursor, tuiThemeName(m.config))
}

func renderChoices(title string, choices []choice, cursorAt int, current string) string {
	items := []string{configSectionTitleStyle.Render(title), ""}

	for i, c := range choices {
		cursor, style := menuCursor(cursorAt == i)

		text := c.name
		if c.description != "" {
			text = fmt.Sprintf("%s - %s", c.name, c.description)
		}

		marker := ""
		if c.name == current {
			marker = configStatusOkStyle.Render(" (current)")
		}
		items = append(items, cursor+style.Render(text)+marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain || m.embedded {
		back = "Back"
	}
	bar := renderShortcuts([][2]string{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	})
	return configStatusBarStyle.Width(width).Render(bar)
}

func menuCursor(selected bool) (string, lipgloss.Style) {
	if selected {
		return configCursorStyle.Render("▸ "), configMenuSelectedStyle
	}
	return "  ", configMenuItemStyle
}

func renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

func enabledWord(value bool) string {
	if value {
		return "enabled"
	}
	return "disabled"
}

func markdownStyle(cfg config.Config) string {
	if cfg.Markdown.Style == "" {
		return render.ThemeGemini
	}
	return cfg.Markdown.Style
}

func tuiThemeName(cfg config.Config) string {
	if cfg.TUITheme == "" {
		return render.GeminiTheme.Name
	}
	return cfg.TUITheme
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if strings.EqualFold(item, value) {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

// RunConfig starts the settings menu on its own
func RunConfig() error {
	m := NewConfigModel()
	render.SetTUITheme(tuiThemeName(m.config))
	UpdateTheme()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
