package host

import "sync"

// Mode selects which notebook the page displays.
type Mode int

const (
	// ModeLearning shows the student's working notebook.
	ModeLearning Mode = iota
	// ModeReview shows one of the fixed lecture notebooks.
	ModeReview
)

// Pager tracks which notebook the host page displays: the learning
// notebook, or a position within the fixed review list. Paging only
// moves within the review list; the learning notebook never pages.
type Pager struct {
	mu       sync.Mutex
	learning string
	review   []string
	mode     Mode
	idx      int
}

// NewPager starts in learning mode.
func NewPager(learning string, review []string) *Pager {
	return &Pager{
		learning: learning,
		review:   append([]string(nil), review...),
	}
}

// Current returns the displayed notebook path.
func (p *Pager) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == ModeLearning {
		return p.learning
	}
	return p.review[p.idx]
}

// Mode returns the current display mode.
func (p *Pager) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// LearningMode switches back to the learning notebook. The review
// position is kept for the next ReviewMode.
func (p *Pager) LearningMode() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = ModeLearning
}

// ReviewMode switches to the review list at its remembered position.
func (p *Pager) ReviewMode() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.review) == 0 {
		return ErrNoReviewNotebooks
	}
	p.mode = ModeReview
	return nil
}

// Next advances within the review list, stopping at the last entry.
func (p *Pager) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != ModeReview {
		return ErrLearningModePaging
	}
	if p.idx < len(p.review)-1 {
		p.idx++
	}
	return nil
}

// Previous steps back within the review list, stopping at the first
// entry.
func (p *Pager) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != ModeReview {
		return ErrLearningModePaging
	}
	if p.idx > 0 {
		p.idx--
	}
	return nil
}
