package game

import (
	"strings"
	"testing"

	"shieldkit/internal/quiz"
	"shieldkit/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmails() []quiz.Email {
	return []quiz.Email{
		{
			ID: 1, From: "security@paypa1-alerts.com", Subject: "Account locked",
			Body: "Verify now.", IsPhishing: true,
			Explanation: "Lookalike sender domain.", RedFlags: []string{"Misspelled domain"},
		},
		{
			ID: 2, From: "GitHub <noreply@github.com>", Subject: "New sign-in",
			Body: "We noticed a new sign-in.", Explanation: "Expected notification.",
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	g, err := quiz.NewGame(testEmails(), quiz.WithSeed(7))
	require.NoError(t, err)
	return New(g, ui.NewStyles(ui.LightTheme()))
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// answerCorrectly answers the current email with the right verdict.
func answerCorrectly(t *testing.T, m Model) Model {
	t.Helper()
	email, ok := m.game.Current()
	require.True(t, ok)
	if email.IsPhishing {
		return press(t, m, "p")
	}
	return press(t, m, "s")
}

func TestHomeScreen(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, quiz.StateHome, m.game.State())
	assert.Contains(t, m.Content(), "2 emails in this round.")
	assert.Contains(t, m.View(), "start")

	m = press(t, m, "s")
	assert.Equal(t, quiz.StateHome, m.game.State(), "answer keys do nothing on the home screen")
}

func TestPlayThroughPerfectGame(t *testing.T) {
	m := press(t, newTestModel(t), "enter")
	require.Equal(t, quiz.StatePlaying, m.game.State())
	assert.Contains(t, m.View(), "Email 1 of 2")

	for i := 0; i < 2; i++ {
		m = answerCorrectly(t, m)
		require.Equal(t, quiz.StateFeedback, m.game.State())
		assert.Contains(t, m.Content(), "Correct! +10 points")
		assert.NotContains(t, m.Content(), "Tip:")
		m = press(t, m, "enter")
	}

	require.Equal(t, quiz.StateResults, m.game.State())
	content := m.Content()
	assert.Contains(t, content, "Perfect Score!")
	assert.Contains(t, content, "You got 2 out of 2 correct (100%)")
	assert.Contains(t, content, "Final score: 20")
	assert.NotContains(t, content, "Tips to improve")
	assert.Contains(t, m.View(), "play again")
}

func TestWrongAnswerShowsTip(t *testing.T) {
	m := press(t, newTestModel(t), "enter")

	email, _ := m.game.Current()
	if email.IsPhishing {
		m = press(t, m, "s")
		assert.Contains(t, m.Content(), quiz.FeedbackTip(quiz.ChoiceSafe))
		assert.Contains(t, m.Content(), "Red flags:")
	} else {
		m = press(t, m, "p")
		assert.Contains(t, m.Content(), quiz.FeedbackTip(quiz.ChoicePhishing))
	}
	assert.Contains(t, m.Content(), "Incorrect. -5 points")
	assert.Equal(t, -5, m.game.Stats().Score)
	assert.Contains(t, m.View(), "Score -5")
}

func TestEmailViewShowsSenderDomain(t *testing.T) {
	m := press(t, newTestModel(t), "enter")
	email, _ := m.game.Current()
	domain, err := quiz.SenderDomain(email)
	require.NoError(t, err)
	assert.Contains(t, m.Content(), "("+domain+")")
	assert.Contains(t, m.Content(), email.Subject)
}

func TestReplayFromResults(t *testing.T) {
	m := press(t, newTestModel(t), "enter")
	for i := 0; i < 2; i++ {
		m = press(t, m, "p", "enter")
	}
	require.Equal(t, quiz.StateResults, m.game.State())
	assert.Contains(t, m.Content(), "(50%)")
	assert.Contains(t, m.Content(), "Keep Practicing!")
	assert.Contains(t, m.Content(), "Tips to improve")

	m = press(t, m, "enter")
	assert.Equal(t, quiz.StatePlaying, m.game.State())
	assert.Equal(t, quiz.Stats{}, m.game.Stats())
}

func TestDatasetReload(t *testing.T) {
	m := newTestModel(t)

	bigger := append(testEmails(), quiz.Email{
		ID: 3, From: "it@example.org", Subject: "Password expiry", Body: "Reset today.",
		IsPhishing: true, Explanation: "Urgency.",
	})
	next, _ := m.Update(DatasetReloadedMsg{Emails: bigger})
	m = next.(Model)
	assert.Contains(t, m.View(), "Dataset reloaded: 3 emails")
	assert.Contains(t, m.Content(), "3 emails in this round.")

	next, _ = m.Update(DatasetReloadedMsg{})
	m = next.(Model)
	assert.Contains(t, m.View(), quiz.ErrEmptyDataset.Error())
	assert.Equal(t, 3, m.game.DatasetSize())
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowResize(t *testing.T) {
	m := press(t, newTestModel(t), "enter")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = next.(Model)
	assert.Equal(t, 60, m.viewport.Width)
	assert.Equal(t, 26, m.viewport.Height)
	for _, line := range strings.Split(m.Content(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 60)
	}
}
