package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"shieldkit/internal/logging"
)

// State is the game's progression state.
type State string

const (
	StateHome     State = "home"
	StatePlaying  State = "playing"
	StateFeedback State = "feedback"
	StateResults  State = "results"
)

const (
	pointsCorrect   = 10
	pointsIncorrect = -5
)

// Stats is the running tally for one game. Score may go negative.
type Stats struct {
	Score         int `json:"score"`
	Correct       int `json:"correct"`
	Incorrect     int `json:"incorrect"`
	TotalAnswered int `json:"totalAnswered"`
}

// Game drives a single player through a shuffled pass over the dataset.
//
//	home -> playing -> feedback -> playing ... -> results -> playing
//
// A Game is not safe for concurrent use.
type Game struct {
	dataset []Email
	emails  []Email
	index   int
	state   State
	stats   Stats

	choice  Choice
	correct bool

	rng *rand.Rand
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source used to shuffle the dataset.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithSeed seeds the shuffle, for reproducible games.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// NewGame creates a game in the home state over the given dataset.
func NewGame(dataset []Email, opts ...Option) (*Game, error) {
	if len(dataset) == 0 {
		return nil, ErrEmptyDataset
	}
	g := &Game{
		dataset: append([]Email(nil), dataset...),
		state:   StateHome,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g, nil
}

// SetDataset replaces the dataset used by the next Start. A game in progress
// keeps its current emails.
func (g *Game) SetDataset(dataset []Email) error {
	if len(dataset) == 0 {
		return ErrEmptyDataset
	}
	g.dataset = append([]Email(nil), dataset...)
	logging.Quiz("dataset replaced: %d emails", len(dataset))
	return nil
}

// Start shuffles the dataset and begins a new game. Valid from home or results.
func (g *Game) Start() error {
	if g.state != StateHome && g.state != StateResults {
		return fmt.Errorf("start from %s: %w", g.state, ErrInvalidTransition)
	}

	g.emails = Shuffle(g.dataset, g.rng)
	g.index = 0
	g.stats = Stats{}
	g.choice = ""
	g.correct = false
	g.state = StatePlaying

	logging.Quiz("game started with %d emails", len(g.emails))
	return nil
}

// Answer records the player's verdict on the current email. Valid only while playing.
func (g *Game) Answer(choice Choice) error {
	if g.state != StatePlaying {
		return fmt.Errorf("answer from %s: %w", g.state, ErrInvalidTransition)
	}
	if !choice.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	email := g.emails[g.index]
	correct := choice == email.CorrectChoice()

	if correct {
		g.stats.Score += pointsCorrect
		g.stats.Correct++
	} else {
		g.stats.Score += pointsIncorrect
		g.stats.Incorrect++
	}
	g.stats.TotalAnswered++

	g.choice = choice
	g.correct = correct
	g.state = StateFeedback

	logging.QuizDebug("email %d answered %s (correct=%v, score=%d)", email.ID, choice, correct, g.stats.Score)
	return nil
}

// Next advances past the feedback for the current email. Valid only in feedback.
func (g *Game) Next() error {
	if g.state != StateFeedback {
		return fmt.Errorf("next from %s: %w", g.state, ErrInvalidTransition)
	}

	g.choice = ""
	if g.index < len(g.emails)-1 {
		g.index++
		g.state = StatePlaying
		return nil
	}

	g.state = StateResults
	logging.Quiz("game finished: %d/%d correct, score %d", g.stats.Correct, g.stats.TotalAnswered, g.stats.Score)
	logging.Audit(logging.CategoryQuiz).GameFinished(g.stats.Correct, g.stats.TotalAnswered, g.stats.Score)
	return nil
}

// State returns the current progression state.
func (g *Game) State() State { return g.state }

// Stats returns the running tally.
func (g *Game) Stats() Stats { return g.stats }

// Index returns the zero-based position of the current email.
func (g *Game) Index() int { return g.index }

// DatasetSize returns the number of emails the next Start will deal.
func (g *Game) DatasetSize() int { return len(g.dataset) }

// Total returns the number of emails in the current game.
func (g *Game) Total() int { return len(g.emails) }

// Current returns the email being answered or reviewed. ok is false outside
// playing and feedback.
func (g *Game) Current() (Email, bool) {
	if g.state != StatePlaying && g.state != StateFeedback {
		return Email{}, false
	}
	return g.emails[g.index], true
}

// LastAnswer returns the choice and correctness shown during feedback.
func (g *Game) LastAnswer() (Choice, bool) {
	return g.choice, g.correct
}

// Emails returns a copy of the current game's email order.
func (g *Game) Emails() []Email {
	return append([]Email(nil), g.emails...)
}

// Summary returns the end-of-game rating for the current stats.
func (g *Game) Summary() Summary {
	return Summarize(g.stats)
}

// Shuffle returns a Fisher-Yates permutation of emails. The input is not modified.
func Shuffle(emails []Email, rng *rand.Rand) []Email {
	out := append([]Email(nil), emails...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
