package quiz

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the
	// game's current state. The game is left unchanged.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrEmptyDataset is returned when a game or dataset has no emails.
	ErrEmptyDataset = errors.New("dataset has no emails")

	// ErrInvalidChoice is returned for an answer that is neither safe nor phishing.
	ErrInvalidChoice = errors.New("invalid choice")
)
