package draw

import (
	"sync"
	"time"

	"charity-raffle/common/errs"
	"charity-raffle/model"
)

type State int

const (
	StateIdle State = iota
	StateSpinning
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateSpinning:
		return "spinning"
	case StateRevealed:
		return "revealed"
	default:
		return "idle"
	}
}

// Engine runs one roulette draw over a fixed snapshot of sold tickets:
// idle -> spinning -> revealed, with Reset rewinding from any state.
// The reveal is armed by a single timer; Reset while spinning must cancel it
// so a stale reveal cannot fire later.
type Engine struct {
	// OnTick fires once per second while spinning with the seconds left.
	OnTick func(secondsLeft int)
	// OnReveal fires once when the animation completes.
	OnReveal func(winner model.SoldTicket)

	mu          sync.Mutex
	sold        []model.SoldTicket
	state       State
	strip       []model.SoldTicket
	winnerIndex int
	winner      *model.SoldTicket
	offset      float64
	remaining   int

	// gen invalidates the running spin goroutine across Reset.
	gen  uint64
	stop chan struct{}
}

func NewEngine(sold []model.SoldTicket) *Engine {
	snapshot := make([]model.SoldTicket, len(sold))
	copy(snapshot, sold)
	return &Engine{sold: snapshot}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Strip() []model.SoldTicket {
	e.mu.Lock()
	defer e.mu.Unlock()

	strip := make([]model.SoldTicket, len(e.strip))
	copy(strip, e.strip)
	return strip
}

// Offset is the current scroll position of the strip against the pointer.
func (e *Engine) Offset() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

func (e *Engine) SecondsLeft() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

func (e *Engine) Winner() (model.SoldTicket, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.winner == nil {
		return model.SoldTicket{}, false
	}
	return *e.winner, true
}

// StartDraw picks the winner, builds the strip and arms the timed reveal.
// Only valid from idle.
func (e *Engine) StartDraw(duration time.Duration) error {
	e.mu.Lock()

	if e.state != StateIdle {
		e.mu.Unlock()
		return &errs.StateConflictError{Message: "draw already running"}
	}

	if len(e.sold) == 0 {
		e.mu.Unlock()
		return &errs.StateConflictError{Message: "no sold tickets to draw from"}
	}

	winner, err := PickWinner(e.sold)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.strip, e.winnerIndex = BuildRouletteStrip(e.sold, winner)
	e.winner = nil
	e.state = StateSpinning
	e.remaining = int(duration / time.Second)
	e.gen++
	gen := e.gen
	stop := make(chan struct{})
	e.stop = stop

	e.mu.Unlock()

	go e.run(gen, duration, stop)

	return nil
}

func (e *Engine) run(gen uint64, duration time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	timer := time.NewTimer(duration)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return

		case <-ticker.C:
			e.mu.Lock()
			if e.gen != gen || e.state != StateSpinning {
				e.mu.Unlock()
				return
			}
			if e.remaining > 0 {
				e.remaining--
			}
			left := e.remaining
			onTick := e.OnTick
			e.mu.Unlock()

			if onTick != nil {
				onTick(left)
			}

		case <-timer.C:
			e.mu.Lock()
			if e.gen != gen || e.state != StateSpinning {
				e.mu.Unlock()
				return
			}
			e.state = StateRevealed
			e.remaining = 0
			e.offset = TargetOffset(e.winnerIndex)
			winner := e.strip[e.winnerIndex]
			e.winner = &winner
			onReveal := e.OnReveal
			e.mu.Unlock()

			if onReveal != nil {
				onReveal(winner)
			}
			return
		}
	}
}

// Reset clears the winner, rewinds the strip and cancels any in-flight
// countdown, whether the spin finished or not.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}

	e.state = StateIdle
	e.winner = nil
	e.offset = 0
	e.remaining = 0
}
