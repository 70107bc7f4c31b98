package learning

import "github.com/pkg/errors"

var (
	// ErrWordNotFound is returned when an operation references an unknown word.
	ErrWordNotFound = errors.New("word not found")
	// ErrTrainingSetNotFound is returned when an operation references an
	// unknown training set, or one owned by another user.
	ErrTrainingSetNotFound = errors.New("training set not found")
	// ErrSetAlreadyMastered is returned when mastering a terminal set.
	ErrSetAlreadyMastered = errors.New("training set already mastered")
	// ErrSetExhausted signals that every word of a training set has been
	// cleared in the current session. The set itself is not mastered yet.
	ErrSetExhausted = errors.New("training set exhausted for this session")
)
