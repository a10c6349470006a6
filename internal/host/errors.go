package host

import "errors"

var (
	// ErrNoSequencer signals a Teach call on a panel configured without
	// a lecture sequence.
	ErrNoSequencer = errors.New("no teach sequence configured")

	// ErrNoReviewNotebooks signals ReviewMode with an empty review
	// list.
	ErrNoReviewNotebooks = errors.New("no review notebooks configured")

	// ErrLearningModePaging signals Next/Previous while the learning
	// notebook is displayed.
	ErrLearningModePaging = errors.New("cannot page while the learning notebook is displayed")
)
