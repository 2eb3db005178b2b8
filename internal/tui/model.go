package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/render"
)

const (
	welcomeTitle    = "How can I help you today?"
	welcomeSubtitle = "Gemini can help you with writing, analysis, coding, math, and more"
	inputHint       = "Message Gemini..."

	// wideLayout is the width from which the sidebar is always shown
	wideLayout   = 100
	sidebarWidth = 24

	headerHeight = 2
	inputHeight  = 4
	statusHeight = 1
)

// Sidebar entries
const (
	sidebarNewChat = iota
	sidebarSettings
	sidebarItemCount
)

type (
	// animationTickMsg advances the pulsing placeholder
	animationTickMsg time.Time

	// replyMsg carries the outcome of a submission back to the UI loop
	replyMsg struct {
		reply chat.Reply
	}
)

// Model represents the chat screen state
type Model struct {
	client  api.GeminiClientInterface
	session *chat.Session
	cfg     config.Config
	opts    *api.GenerateOptions

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready          bool
	animationFrame int
	sidebarFocus   bool
	sidebarCursor  int
	showSettings   bool
	settings       ConfigModel
	feedback       string
	rendered       map[string]string

	copyText func(string) error

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.GeminiClientInterface, cfg config.Config) Model {
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	ta := textarea.New()
	ta.Placeholder = inputHint
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")
	styleTextarea(&ta)
	ta.Focus()

	vp := viewport.New(0, 0)
	vp.KeyMap = scrollKeys()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:   client,
		session:  chat.NewSession(),
		cfg:      cfg,
		opts:     generateOptions(cfg),
		viewport: vp,
		textarea: ta,
		spinner:  s,
		rendered: make(map[string]string),
		copyText: clipboard.WriteAll,
	}
}

func styleTextarea(ta *textarea.Model) {
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.BlurredStyle.Base = lipgloss.NewStyle().Foreground(colorTextMute)
}

// scrollKeys limits viewport scrolling to keys that never type text
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
	}
}

func generateOptions(cfg config.Config) *api.GenerateOptions {
	return &api.GenerateOptions{
		Temperature:       cfg.Temperature,
		MaxOutputTokens:   cfg.MaxOutputTokens,
		SystemInstruction: cfg.SystemInstruction,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		if m.showSettings {
			m.settings.width, m.settings.height = m.mainWidth(), m.bodyHeight()
		}
		return m, nil

	case replyMsg:
		return m.handleReply(msg.reply)

	case configSavedMsg:
		m.applyConfig(msg.config)
		return m, nil

	case configClosedMsg:
		m.showSettings = false
		cmd = m.focusInput()
		return m, cmd

	case feedbackClearMsg:
		m.feedback = ""
		if m.showSettings {
			m.settings.feedback = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.Pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case animationTickMsg:
		if m.session.Pending() {
			m.animationFrame++
			m.updateViewport()
			return m, animationTick()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showSettings {
			updated, cmd := m.settings.Update(msg)
			m.settings = updated.(ConfigModel)
			return m, cmd
		}
		if m.sidebarFocus {
			return m.updateSidebar(msg)
		}

		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "ctrl+n":
			return m.newChat()
		case "ctrl+b":
			m.sidebarFocus = true
			m.sidebarCursor = sidebarNewChat
			m.textarea.Blur()
			m.resize()
			return m, nil
		case "ctrl+y":
			return m.copyLastReply()
		case "ctrl+t":
			return m.copyTranscript()
		case "ctrl+o":
			return m.copyTranscriptJSON()
		case "enter":
			return m.submit()
		}

		if !m.session.Pending() {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit hands the input to the session and starts the API call
func (m Model) submit() (tea.Model, tea.Cmd) {
	ticket, ok := m.session.Submit(m.textarea.Value())
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendMessage(ticket),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendMessage creates a command to send a message to the API
func (m Model) sendMessage(ticket chat.Ticket) tea.Cmd {
	client, opts := m.client, m.opts
	return func() tea.Msg {
		return replyMsg{reply: chat.Send(client, ticket, opts)}
	}
}

func (m Model) handleReply(reply chat.Reply) (tea.Model, tea.Cmd) {
	applied := m.session.Apply(reply)
	m.updateViewport()
	m.viewport.GotoBottom()

	var cmds []tea.Cmd
	if applied && reply.Err == nil && m.cfg.CopyToClipboard {
		if err := m.copyText(reply.Text); err != nil {
			logging.L().Warn("copy reply failed", "error", err)
		} else {
			m.feedback = "Reply copied to clipboard"
			cmds = append(cmds, clearFeedback(2*time.Second))
		}
	}

	if !m.showSettings && !m.sidebarFocus {
		cmds = append(cmds, m.focusInput())
	}
	return m, tea.Batch(cmds...)
}

// newChat clears the conversation and the input, and closes the sidebar
func (m Model) newChat() (tea.Model, tea.Cmd) {
	m.session.Reset()
	m.textarea.Reset()
	m.sidebarFocus = false
	m.showSettings = false
	m.rendered = make(map[string]string)
	m.feedback = ""
	m.resize()
	cmd := m.focusInput()
	return m, cmd
}

// focusInput re-enables the input unless a request is still in flight
func (m *Model) focusInput() tea.Cmd {
	if m.session.Pending() {
		return nil
	}
	return m.textarea.Focus()
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.sidebarCursor = wrap(m.sidebarCursor-1, sidebarItemCount)
	case "down", "j":
		m.sidebarCursor = wrap(m.sidebarCursor+1, sidebarItemCount)
	case "ctrl+n":
		return m.newChat()
	case "esc", "ctrl+b":
		m.sidebarFocus = false
		m.resize()
		cmd := m.focusInput()
		return m, cmd
	case "enter":
		switch m.sidebarCursor {
		case sidebarNewChat:
			return m.newChat()
		case sidebarSettings:
			return m.openSettings()
		}
	}
	return m, nil
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	m.sidebarFocus = false
	m.resize()
	m.showSettings = true
	m.settings = newEmbeddedConfigModel(m.cfg, m.mainWidth(), m.bodyHeight())
	m.textarea.Blur()
	return m, nil
}

// applyConfig takes saved settings into effect for the running chat.
// The client only switches model when the saved default model changed.
func (m *Model) applyConfig(cfg config.Config) {
	modelChanged := cfg.DefaultModel != m.cfg.DefaultModel
	m.cfg = cfg
	m.opts = generateOptions(cfg)
	if m.client != nil && modelChanged {
		m.client.SetModel(models.ModelFromName(cfg.DefaultModel))
	}
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
		styleTextarea(&m.textarea)
		m.spinner.Style = loadingStyle
	}
	render.ClearCache()
	m.rendered = make(map[string]string)
	m.updateViewport()
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	reply, ok := m.session.LastReply()
	if !ok {
		m.feedback = "Nothing to copy yet"
		return m, clearFeedback(2 * time.Second)
	}
	return m.copy(reply, "Reply copied to clipboard")
}

func (m Model) copyTranscript() (tea.Model, tea.Cmd) {
	if m.session.Empty() {
		m.feedback = "Nothing to copy yet"
		return m, clearFeedback(2 * time.Second)
	}
	return m.copy(m.session.Transcript(), "Conversation copied to clipboard")
}

func (m Model) copyTranscriptJSON() (tea.Model, tea.Cmd) {
	if m.session.Empty() {
		m.feedback = "Nothing to copy yet"
		return m, clearFeedback(2 * time.Second)
	}
	data, err := m.session.TranscriptJSON()
	if err != nil {
		logging.L().Error("encode transcript failed", "error", err)
		m.feedback = "Could not encode conversation"
		return m, clearFeedback(2 * time.Second)
	}
	return m.copy(string(data), "Conversation copied as JSON")
}

func (m Model) copy(text, done string) (tea.Model, tea.Cmd) {
	if err := m.copyText(text); err != nil {
		logging.L().Warn("clipboard write failed", "error", err)
		m.feedback = "Clipboard unavailable"
	} else {
		m.feedback = done
	}
	return m, clearFeedback(2 * time.Second)
}

func (m Model) sidebarVisible() bool {
	return m.sidebarFocus || m.width >= wideLayout
}

func (m Model) mainWidth() int {
	w := m.width
	if m.sidebarVisible() {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) bodyHeight() int {
	h := m.height - headerHeight - inputHeight - statusHeight
	if h < 3 {
		h = 3
	}
	return h
}

// resize fits the components to the current window and sidebar state
func (m *Model) resize() {
	if !m.ready {
		return
	}
	width := m.mainWidth()
	m.viewport.Width = width - 2
	m.viewport.Height = m.bodyHeight()
	m.textarea.SetWidth(width - 4)
	m.updateViewport()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	width := m.mainWidth()

	var body string
	switch {
	case m.showSettings:
		body = lipgloss.NewStyle().
			Width(width).
			Height(m.bodyHeight()).
			MaxHeight(m.bodyHeight()).
			Render(m.settings.View())
	case m.session.Empty():
		body = m.renderWelcome()
	default:
		body = messagesAreaStyle.Width(width).Height(m.bodyHeight()).Render(m.viewport.View())
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		body,
		inputPanelStyle.Width(width-2).Render(m.textarea.View()),
		m.renderStatusBar(width),
	)

	if !m.sidebarVisible() {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m Model) renderHeader(width int) string {
	name := ""
	if m.client != nil {
		name = m.client.GetModel().Name
	}
	name = runewidth.Truncate(name, width-12, "…")
	content := titleStyle.Render("Gemini") + "  " + subtitleStyle.Render(name)
	return headerStyle.Width(width).Render(content)
}

func (m Model) renderSidebar() string {
	items := []string{sidebarBrandStyle.Render("✦ Gemini")}

	labels := []string{"+ New chat", "⚙ Settings"}
	for i, label := range labels {
		label = runewidth.Truncate(label, sidebarWidth-6, "…")
		if m.sidebarFocus && m.sidebarCursor == i {
			items = append(items, sidebarSelectedStyle.Render("▸ "+label))
			continue
		}
		items = append(items, sidebarItemStyle.Render(label))
	}

	if m.sidebarFocus {
		items = append(items, "", hintStyle.Render("esc to close"))
	}

	return sidebarStyle.
		Width(sidebarWidth - 1).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeIconStyle.Render("✦"),
		welcomeTitleStyle.Render(welcomeTitle),
		welcomeSubtitleStyle.Render(welcomeSubtitle),
	)
	return lipgloss.Place(m.mainWidth(), m.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	var left string
	switch {
	case m.feedback != "":
		left = feedbackStyle.Render(m.feedback)
	case m.session.Pending():
		left = m.spinner.View() + loadingStyle.Render(" Gemini is thinking")
	}

	shortcuts := [][2]string{
		{"Enter", "Send"},
		{"^N", "New chat"},
		{"^B", "Menu"},
		{"^Y", "Copy"},
		{"Esc", "Quit"},
	}
	if m.sidebarFocus {
		shortcuts = [][2]string{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", "Close"}}
	}

	bar := renderShortcuts(shortcuts)
	if left != "" {
		bar = left + statusDescStyle.Render("  │  ") + bar
	}
	return statusBarStyle.Width(width).MaxWidth(width).Render(" " + bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if m.viewport.Width <= 0 {
		return
	}

	var content strings.Builder
	width := m.viewport.Width
	bubbleWidth := width - 4
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.Role == chat.RoleUser:
			content.WriteString(m.renderUserBubble(msg.Content, width))
		case msg.Loading:
			pulse := placeholderStyle.Foreground(pulseColors[m.animationFrame%len(pulseColors)])
			content.WriteString(assistantLabelStyle.Render("✦ Gemini") + "\n")
			content.WriteString(assistantBubbleStyle.Render(pulse.Render(msg.Content)))
		default:
			content.WriteString(assistantLabelStyle.Render("✦ Gemini") + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(m.renderMarkdown(msg.Content, bubbleWidth-4)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderUserBubble right-aligns the raw user text in a purple bubble
func (m Model) renderUserBubble(text string, width int) string {
	maxWidth := width * 3 / 4
	if maxWidth < 10 {
		maxWidth = 10
	}
	bubbleWidth := lipgloss.Width(text) + 2
	if bubbleWidth > maxWidth {
		bubbleWidth = maxWidth
	}
	bubble := userBubbleStyle.Width(bubbleWidth).Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

// renderMarkdown renders a reply, reusing earlier renders of the same text
func (m Model) renderMarkdown(text string, width int) string {
	cacheKey := fmt.Sprintf("%d:%s", width, text)
	if out, ok := m.rendered[cacheKey]; ok {
		return out
	}

	out := render.Reply(text, render.OptionsFromConfig(m.cfg), width)
	if m.rendered != nil {
		m.rendered[cacheKey] = out
	}
	return out
}

// RunChat starts the chat TUI
func RunChat(client api.GeminiClientInterface, cfg config.Config) error {
	m := NewChatModel(client, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
