// This file implements the interactive terminal interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"voxfolio/internal/config"
	"voxfolio/internal/dispatch"
	"voxfolio/internal/narration"
)

// styles for the interactive interface
type styles struct {
	Title     lipgloss.Style
	Prompt    lipgloss.Style
	Narration lipgloss.Style
	Warning   lipgloss.Style
	Footer    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Narration: lipgloss.NewStyle().Foreground(lipgloss.Color("150")).Italic(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// chatModel is the main model for the interactive interface
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    styles
	renderer  *glamour.TermRenderer

	// State
	app       *app
	result    dispatch.Result
	narration string
	isLoading bool
	voiceOn   bool
	err       error
	width     int
	height    int
	ready     bool
}

// Messages for tea updates
type (
	resultMsg      dispatch.Result
	asyncResultMsg dispatch.Result
	voiceStateMsg  struct {
		on  bool
		err error
	}
	errorMsg error
)

// initChat initializes the interactive model
func initChat(a *app) chatModel {
	ti := textinput.New()
	ti.Placeholder = `Try "show me your projects" (Enter to send, Ctrl+C to exit)`
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 512
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)

	return chatModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    defaultStyles(),
		renderer:  renderer,
		app:       a,
		result:    dispatch.Result{Screen: a.dispatcher.Current()},
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}
		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 2
		inputHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4
		m.refreshViewport()

	case resultMsg:
		m.isLoading = false
		m.applyResult(dispatch.Result(msg))

	case asyncResultMsg:
		// Loop tick or voice transcript result; no submit in flight.
		m.applyResult(dispatch.Result(msg))

	case voiceStateMsg:
		m.isLoading = false
		m.voiceOn = msg.on
		m.err = msg.err

	case errorMsg:
		m.isLoading = false
		m.err = msg

	case spinner.TickMsg:
		m.spinner, spCmd = m.spinner.Update(msg)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// handleSubmit sends the typed command through the dispatcher.
func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textinput.Value())
	if text == "" {
		return m, nil
	}
	m.textinput.Reset()

	if strings.HasPrefix(text, "/") {
		return m.handleSlashCommand(text)
	}

	m.isLoading = true
	m.err = nil
	d := m.app.dispatcher
	return m, func() tea.Msg {
		return resultMsg(d.Submit(context.Background(), text))
	}
}

// handleSlashCommand handles interface-level commands that never reach the
// dispatcher.
func (m chatModel) handleSlashCommand(text string) (tea.Model, tea.Cmd) {
	switch text {
	case "/voice":
		if m.app.voiceMgr == nil {
			m.err = fmt.Errorf("voice is not enabled in %s", config.DefaultPath)
			return m, nil
		}
		m.isLoading = true
		if m.voiceOn {
			return m, m.disconnectVoice()
		}
		return m, m.connectVoice()
	case "/quit", "/exit":
		return m, tea.Quit
	default:
		m.err = fmt.Errorf("unknown command %s (try /voice or /quit)", text)
		return m, nil
	}
}

// connectVoice mints a credential and opens the voice session.
func (m chatModel) connectVoice() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		signaling := a.voiceSignaling()
		credential, err := signaling.MintCredential(ctx)
		if err != nil {
			return voiceStateMsg{err: fmt.Errorf("failed to mint voice credential: %w", err)}
		}
		if err := a.voiceMgr.Connect(ctx, credential); err != nil {
			return voiceStateMsg{err: err}
		}
		a.voiceMgr.SetVoiceMode(true)
		return voiceStateMsg{on: true}
	}
}

// disconnectVoice tears the voice session down.
func (m chatModel) disconnectVoice() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		a.voiceMgr.SetVoiceMode(false)
		a.voiceMgr.Disconnect()
		return voiceStateMsg{on: false}
	}
}

// applyResult installs a dispatch result into the view.
func (m *chatModel) applyResult(res dispatch.Result) {
	m.result = res
	switch {
	case res.Narration != "":
		m.narration = res.Narration
	case res.Message != "":
		m.narration = res.Message
	case res.Stopped:
		m.narration = ""
	}
	m.refreshViewport()
}

func (m *chatModel) refreshViewport() {
	md := renderScreen(m.result.Screen, m.result.FocusTarget)
	// The language picker is session state, not a history entry; it overlays
	// whatever screen is current.
	if m.app.sessions.Current().ShowLanguagePicker {
		if picker, ok := m.app.registry.Screen("language"); ok {
			md += "\n---\n\n" + renderScreen(picker, "")
		}
	}
	out := md
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

func (m chatModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("voxfolio"))
	b.WriteString("  ")
	b.WriteString(m.styles.Footer.Render(m.result.Screen.ID))
	if m.voiceOn {
		b.WriteString("  ")
		b.WriteString(m.styles.Prompt.Render("● voice"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.narration != "" {
		tone := ""
		if m.result.Tone != "" && m.result.Tone != narration.ToneNeutral {
			tone = " (" + string(m.result.Tone) + ")"
		}
		b.WriteString(m.styles.Narration.Render("» "+m.narration+tone) + "\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.Warning.Render("! "+m.err.Error()) + "\n")
	}

	if m.isLoading {
		b.WriteString(m.spinner.View() + " thinking...\n")
	} else {
		b.WriteString(m.textinput.View() + "\n")
	}
	b.WriteString(m.styles.Footer.Render(`"go back" pops the screen · "stop" interrupts · /voice toggles the microphone`))
	return b.String()
}

// runInteractive starts the terminal interface.
func runInteractive() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(initChat(a), tea.WithAltScreen())
	a.dispatcher.SetUpdateHandler(func(res dispatch.Result) {
		p.Send(asyncResultMsg(res))
	})

	_, err = p.Run()
	return err
}
