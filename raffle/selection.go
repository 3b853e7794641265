package raffle

import (
	"math/rand/v2"

	"charity-raffle/common/constant"
	"charity-raffle/model"
)

// Selection is the ordered set of numbers the user picked in this session.
// It lives only in memory; committed purchases belong to the gateway.
type Selection struct {
	pool   *Pool
	order  []int32
	member map[int32]struct{}

	// intN is swappable so tests can pin the random pick.
	intN func(n int) int
}

func NewSelection(pool *Pool) *Selection {
	return &Selection{
		pool:   pool,
		member: make(map[int32]struct{}),
		intN:   rand.IntN,
	}
}

// Status derives the ticket state from the two sets. Taken wins over
// selected; the two stay disjoint because Toggle refuses taken numbers.
func (s *Selection) Status(n int32) model.TicketStatus {
	if s.pool.Taken(n) {
		return model.TicketTaken
	}
	if _, ok := s.member[n]; ok {
		return model.TicketSelected
	}
	return model.TicketAvailable
}

// Toggle flips membership of n. No-op on taken numbers.
func (s *Selection) Toggle(n int32) {
	if n < 1 || n > s.pool.Total() || s.pool.Taken(n) {
		return
	}

	if _, ok := s.member[n]; ok {
		delete(s.member, n)
		for i, v := range s.order {
			if v == n {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}

	s.member[n] = struct{}{}
	s.order = append(s.order, n)
}

// RandomPick appends min(quantity, |eligible|) distinct numbers drawn
// uniformly from the numbers that are neither taken nor already selected.
func (s *Selection) RandomPick(quantity int) []int32 {
	if quantity <= 0 {
		return nil
	}

	eligible := make([]int32, 0, int(s.pool.Total())-len(s.pool.taken)-len(s.member))
	for n := int32(1); n <= s.pool.Total(); n++ {
		if s.pool.Taken(n) {
			continue
		}
		if _, ok := s.member[n]; ok {
			continue
		}
		eligible = append(eligible, n)
	}

	if quantity > len(eligible) {
		quantity = len(eligible)
	}

	// Partial Fisher-Yates: each prefix position holds a uniform draw from
	// the remaining eligible numbers.
	picked := make([]int32, 0, quantity)
	for i := 0; i < quantity; i++ {
		j := i + s.intN(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
		picked = append(picked, eligible[i])

		s.member[eligible[i]] = struct{}{}
		s.order = append(s.order, eligible[i])
	}

	return picked
}

func (s *Selection) Clear() {
	s.order = nil
	s.member = make(map[int32]struct{})
}

// Numbers returns the selection in pick order.
func (s *Selection) Numbers() []int32 {
	out := make([]int32, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Selection) Count() int {
	return len(s.order)
}

func (s *Selection) TotalCents() int64 {
	return int64(len(s.order)) * constant.TicketPriceCents
}
