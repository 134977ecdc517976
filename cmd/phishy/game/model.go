// Package game is the terminal front end of the phishing quiz.
package game

import (
	"fmt"
	"strings"

	"shieldkit/internal/logging"
	"shieldkit/internal/quiz"
	"shieldkit/internal/ui"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DatasetReloadedMsg carries a new dataset from the file watcher.
type DatasetReloadedMsg struct {
	Emails []quiz.Email
}

// Model is the bubbletea model for one quiz session.
type Model struct {
	game     *quiz.Game
	styles   ui.Styles
	keys     keyMap
	help     help.Model
	viewport viewport.Model

	width  int
	height int

	content string
	notice  string
	err     error
}

// New creates a model on the home screen.
func New(g *quiz.Game, styles ui.Styles) Model {
	m := Model{
		game:     g,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 3) // header, notice, help
		m.refresh()
		return m, nil

	case DatasetReloadedMsg:
		if err := m.game.SetDataset(msg.Emails); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.notice = fmt.Sprintf("Dataset reloaded: %d emails (used from the next game)", len(msg.Emails))
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		logging.QuizDebug("quit from %s", m.game.State())
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	var err error
	switch m.game.State() {
	case quiz.StateHome, quiz.StateResults:
		if key.Matches(msg, m.keys.Start) {
			err = m.game.Start()
			m.notice = ""
		}
	case quiz.StatePlaying:
		switch {
		case key.Matches(msg, m.keys.Safe):
			err = m.game.Answer(quiz.ChoiceSafe)
		case key.Matches(msg, m.keys.Phishing):
			err = m.game.Answer(quiz.ChoicePhishing)
		}
	case quiz.StateFeedback:
		if key.Matches(msg, m.keys.Next) {
			err = m.game.Next()
		}
	}

	m.err = err
	m.refresh()
	return m, nil
}

// refresh re-renders the current screen into the viewport.
func (m *Model) refresh() {
	var body string
	switch m.game.State() {
	case quiz.StateHome:
		body = m.homeView()
	case quiz.StatePlaying:
		body = m.emailView()
	case quiz.StateFeedback:
		body = m.emailView() + "\n" + m.feedbackView()
	case quiz.StateResults:
		body = m.resultsView()
	}
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	m.content = lipgloss.NewStyle().Width(width).Render(body)
	m.viewport.SetContent(m.content)
	m.viewport.GotoTop()
}

// Content returns the full rendered screen body, before viewport clipping.
func (m Model) Content() string {
	return m.content
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	header := "Phishy · Spot the Phish"
	if st := m.game.State(); st == quiz.StatePlaying || st == quiz.StateFeedback {
		header = fmt.Sprintf("%s · Email %d of %d · Score %d",
			header, m.game.Index()+1, m.game.Total(), m.game.Stats().Score)
	}
	sb.WriteString(m.styles.Header.Render(header))
	sb.WriteString("\n")

	switch {
	case m.err != nil:
		sb.WriteString(m.styles.Error.Render(m.err.Error()))
	case m.notice != "":
		sb.WriteString(m.styles.Info.Render(m.notice))
	}
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.activeKeys()))
	return sb.String()
}

func (m Model) activeKeys() stateHelp {
	switch m.game.State() {
	case quiz.StatePlaying:
		return stateHelp{m.keys.Safe, m.keys.Phishing, m.keys.Up, m.keys.Down, m.keys.Quit}
	case quiz.StateFeedback:
		return stateHelp{m.keys.Next, m.keys.Up, m.keys.Down, m.keys.Quit}
	case quiz.StateResults:
		start := m.keys.Start
		start.SetHelp("enter", "play again")
		return stateHelp{start, m.keys.Quit}
	default:
		return stateHelp{m.keys.Start, m.keys.Quit}
	}
}

func (m Model) homeView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("🎣 Can you spot the phishing email?"))
	sb.WriteString("\n\n")
	sb.WriteString("You'll see a series of emails. Decide whether each one is safe or a phishing attempt.\n")
	sb.WriteString("Correct answers earn 10 points; wrong answers cost 5.\n\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d emails in this round.", m.game.DatasetSize())))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) emailView() string {
	email, ok := m.game.Current()
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render("From:    "))
	sb.WriteString(email.From)
	if domain, err := quiz.SenderDomain(email); err == nil {
		sb.WriteString(m.styles.Muted.Render("  (" + domain + ")"))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Bold.Render("Subject: "))
	sb.WriteString(email.Subject)
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Card.Render(email.Body))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) feedbackView() string {
	email, _ := m.game.Current()
	choice, correct := m.game.LastAnswer()

	var sb strings.Builder
	if correct {
		sb.WriteString(m.styles.Success.Render("✓ Correct! +10 points"))
	} else {
		sb.WriteString(m.styles.Error.Render("✗ Incorrect. -5 points"))
	}
	sb.WriteString("\n")

	verdict := "This email is legitimate."
	if email.IsPhishing {
		verdict = "This email is a phishing attempt."
	}
	sb.WriteString(m.styles.Bold.Render(verdict))
	sb.WriteString("\n")
	sb.WriteString(email.Explanation)
	sb.WriteString("\n")

	if len(email.RedFlags) > 0 {
		title := "Red flags:"
		if !email.IsPhishing {
			title = "Why it's safe:"
		}
		sb.WriteString("\n" + m.styles.Warning.Render(title) + "\n")
		for _, flag := range email.RedFlags {
			sb.WriteString("  • " + flag + "\n")
		}
	}

	if !correct {
		sb.WriteString("\n" + m.styles.Info.Render("💡 Tip: "+quiz.FeedbackTip(choice)) + "\n")
	}
	return sb.String()
}

func (m Model) resultsView() string {
	s := m.game.Summary()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(s.Performance.Emoji + " " + s.Performance.Title))
	sb.WriteString("\n")
	sb.WriteString(s.Performance.Message)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "You got %d out of %d correct (%d%%)\n", s.Stats.Correct, s.Stats.TotalAnswered, s.Percentage)
	fmt.Fprintf(&sb, "Final score: %d\n", s.Stats.Score)

	if len(s.Tips) > 0 {
		sb.WriteString("\n" + m.styles.Subtitle.Render("Tips to improve:") + "\n")
		for _, tip := range s.Tips {
			sb.WriteString("  • " + tip + "\n")
		}
	}
	return sb.String()
}
