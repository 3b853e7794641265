package raffle

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"charity-raffle/model"
)

type SelectionTestSuite struct {
	suite.Suite
}

func TestSelectionTestSuite(t *testing.T) {
	suite.Run(t, new(SelectionTestSuite))
}

func (s *SelectionTestSuite) TestStatusDerivation() {
	pool := NewPool([]int32{10})
	sel := NewSelection(pool)
	sel.Toggle(20)

	tests := []struct {
		name   string
		number int32
		want   model.TicketStatus
	}{
		{name: "taken wins", number: 10, want: model.TicketTaken},
		{name: "selected", number: 20, want: model.TicketSelected},
		{name: "available", number: 30, want: model.TicketAvailable},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, sel.Status(tc.number))
		})
	}
}

func (s *SelectionTestSuite) TestToggle() {
	pool := NewPool([]int32{10})
	sel := NewSelection(pool)

	sel.Toggle(5)
	sel.Toggle(7)
	s.Equal([]int32{5, 7}, sel.Numbers())

	// Deselect keeps the order of the rest.
	sel.Toggle(5)
	s.Equal([]int32{7}, sel.Numbers())

	// Taken and out-of-range numbers are no-ops.
	sel.Toggle(10)
	sel.Toggle(0)
	sel.Toggle(5001)
	s.Equal([]int32{7}, sel.Numbers())

	s.Equal(1, sel.Count())
}

func (s *SelectionTestSuite) TestRandomPick() {
	pool := NewPool([]int32{1, 2, 3})
	sel := NewSelection(pool)
	sel.Toggle(4)

	picked := sel.RandomPick(5)

	s.Len(picked, 5)
	seen := map[int32]struct{}{4: {}}
	for _, n := range picked {
		s.False(pool.Taken(n), "picked a taken number %d", n)

		_, dup := seen[n]
		s.False(dup, "picked %d twice or over the prior selection", n)
		seen[n] = struct{}{}
	}

	// Picks extend the selection, they do not replace it.
	s.Equal(6, sel.Count())
	s.Equal(int32(4), sel.Numbers()[0])
}

func (s *SelectionTestSuite) TestRandomPickDeterministic() {
	pool := NewPool(nil)
	sel := NewSelection(pool)
	sel.intN = func(n int) int { return 0 }

	picked := sel.RandomPick(3)

	// Always swapping with index 0 walks the head of the eligible list.
	s.Equal([]int32{1, 2, 3}, picked)
}

func (s *SelectionTestSuite) TestRandomPickClampsToEligible() {
	// Take everything except 4999 and 5000 so eligibility is tiny.
	taken := make([]int32, 0, 4998)
	for n := int32(1); n <= 4998; n++ {
		taken = append(taken, n)
	}
	sel := NewSelection(NewPool(taken))

	picked := sel.RandomPick(10)

	s.Len(picked, 2)
	s.ElementsMatch([]int32{4999, 5000}, picked)
}

func (s *SelectionTestSuite) TestClearAndTotal() {
	pool := NewPool(nil)
	sel := NewSelection(pool)

	sel.Toggle(12)
	sel.Toggle(47)
	sel.Toggle(301)

	s.Equal(int64(1500), sel.TotalCents())

	sel.Clear()

	s.Equal(0, sel.Count())
	s.Equal(int64(0), sel.TotalCents())
	s.Empty(sel.Numbers())
}
