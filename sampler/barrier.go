package sampler

import "sync/atomic"

// StopAllBarrier lets the control thread force every voice silent and wait
// for the audio thread to observe it, without a mutex on the render path
// (spec.md §4.5, §5). The control thread sets the flag and busy-waits for
// quiescence; the audio thread checks the flag once per block and, if set,
// stops every sounding voice immediately before producing output.
//
// The current block always finishes rendering with whatever voices were
// already sounding; the barrier takes effect starting with the following
// block (spec.md §9's Open Question, resolved that way here).
type StopAllBarrier struct {
	stopping atomic.Bool
}

// NewStopAllBarrier returns a barrier that is not engaged.
func NewStopAllBarrier() *StopAllBarrier {
	return &StopAllBarrier{}
}

// Engage raises the stop-all flag. The audio thread will silence every
// voice on its next block.
func (b *StopAllBarrier) Engage() {
	b.stopping.Store(true)
}

// Release lowers the stop-all flag, allowing voices to be allocated again.
func (b *StopAllBarrier) Release() {
	b.stopping.Store(false)
}

// IsEngaged reports whether the flag is currently raised. Called once per
// block from the render path.
func (b *StopAllBarrier) IsEngaged() bool {
	return b.stopping.Load()
}
