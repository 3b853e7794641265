package draw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"charity-raffle/common/errs"
	"charity-raffle/model"
)

type EngineTestSuite struct {
	suite.Suite

	sold []model.SoldTicket
}

func (s *EngineTestSuite) SetupTest() {
	s.sold = []model.SoldTicket{
		{Number: 12, Client: model.Client{Name: "Ana", Cpf: "52998224725", Phone: "11999990000"}},
		{Number: 47, Client: model.Client{Name: "Bruno"}},
		{Number: 301, Client: model.Client{Name: "Carla"}},
	}
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestStartDrawGuards() {
	empty := NewEngine(nil)
	err := empty.StartDraw(time.Second)
	s.IsType(&errs.StateConflictError{}, err)

	engine := NewEngine(s.sold)
	s.NoError(engine.StartDraw(time.Second))
	defer engine.Reset()

	// A second start while spinning is refused.
	err = engine.StartDraw(time.Second)
	s.IsType(&errs.StateConflictError{}, err)
	s.Equal(StateSpinning, engine.State())
}

func (s *EngineTestSuite) TestDrawReveals() {
	engine := NewEngine(s.sold)

	revealed := make(chan model.SoldTicket, 1)
	engine.OnReveal = func(winner model.SoldTicket) {
		revealed <- winner
	}

	s.NoError(engine.StartDraw(100 * time.Millisecond))
	s.Equal(StateSpinning, engine.State())

	var winner model.SoldTicket
	select {
	case winner = <-revealed:
	case <-time.After(2 * time.Second):
		s.FailNow("reveal never fired")
	}

	s.Equal(StateRevealed, engine.State())

	got, ok := engine.Winner()
	s.True(ok)
	s.Equal(winner, got)
	s.Contains(s.sold, winner)

	// The scroll offset points at the winner cell.
	strip := engine.Strip()
	idx := int((engine.Offset() - float64(ItemWidth)/2) / ItemWidth)
	s.Equal(winner, strip[idx])
	s.Equal(len(strip)-winnerTailOffset, idx)

	// No second reveal for the same spin.
	select {
	case <-revealed:
		s.FailNow("reveal fired twice")
	case <-time.After(200 * time.Millisecond):
	}
}

func (s *EngineTestSuite) TestStripIsDetached() {
	engine := NewEngine(s.sold)

	revealed := make(chan model.SoldTicket, 1)
	engine.OnReveal = func(winner model.SoldTicket) {
		revealed <- winner
	}

	s.NoError(engine.StartDraw(100 * time.Millisecond))

	// Mutating the returned strip must not reach the engine's copy.
	strip := engine.Strip()
	s.Require().NotEmpty(strip)
	for i := range strip {
		strip[i] = model.SoldTicket{Number: -1, Client: model.Client{Name: "mangled"}}
	}

	var winner model.SoldTicket
	select {
	case winner = <-revealed:
	case <-time.After(2 * time.Second):
		s.FailNow("reveal never fired")
	}

	s.Contains(s.sold, winner)
	s.NotEqual(strip[0], engine.Strip()[0])
}

func (s *EngineTestSuite) TestResetCancelsPendingReveal() {
	engine := NewEngine(s.sold)

	revealed := make(chan model.SoldTicket, 1)
	engine.OnReveal = func(winner model.SoldTicket) {
		revealed <- winner
	}

	s.NoError(engine.StartDraw(100 * time.Millisecond))
	engine.Reset()

	select {
	case <-revealed:
		s.FailNow("stale reveal fired after reset")
	case <-time.After(300 * time.Millisecond):
	}

	s.Equal(StateIdle, engine.State())
	_, ok := engine.Winner()
	s.False(ok)
	s.Zero(engine.Offset())
}

func (s *EngineTestSuite) TestResetAfterReveal() {
	engine := NewEngine(s.sold)

	revealed := make(chan struct{}, 1)
	engine.OnReveal = func(model.SoldTicket) {
		revealed <- struct{}{}
	}

	s.NoError(engine.StartDraw(50 * time.Millisecond))
	select {
	case <-revealed:
	case <-time.After(2 * time.Second):
		s.FailNow("reveal never fired")
	}

	engine.Reset()

	s.Equal(StateIdle, engine.State())
	s.Zero(engine.Offset())
	s.Zero(engine.SecondsLeft())

	// The engine can spin again after a reset.
	s.NoError(engine.StartDraw(50 * time.Millisecond))
	select {
	case <-revealed:
	case <-time.After(2 * time.Second):
		s.FailNow("second spin never revealed")
	}
	engine.Reset()
}
