package raffle

import (
	"charity-raffle/common/constant"
)

// Pool is the universe of ticket numbers 1..TotalNumbers plus the taken-set
// snapshot fetched from the gateway. The gateway owns the authoritative
// taken state; the pool holds a read-only copy refreshed on page load.
type Pool struct {
	total int32
	taken map[int32]struct{}
}

func NewPool(taken []int32) *Pool {
	p := &Pool{
		total: constant.TotalNumbers,
		taken: make(map[int32]struct{}, len(taken)),
	}
	for _, n := range taken {
		if n >= 1 && n <= p.total {
			p.taken[n] = struct{}{}
		}
	}
	return p
}

func (p *Pool) Total() int32 {
	return p.total
}

func (p *Pool) Taken(n int32) bool {
	_, ok := p.taken[n]
	return ok
}

// ListNumbers returns the full ascending sequence, excluding taken numbers
// when availableOnly is set.
func (p *Pool) ListNumbers(availableOnly bool) []int32 {
	numbers := make([]int32, 0, p.total)
	for n := int32(1); n <= p.total; n++ {
		if availableOnly && p.Taken(n) {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// Paginate slices out the 1-based page. An out-of-range page yields an
// empty slice, never an error.
func Paginate(seq []int32, page, size int) []int32 {
	if page < 1 || size < 1 {
		return nil
	}

	start := (page - 1) * size
	if start >= len(seq) {
		return nil
	}

	end := start + size
	if end > len(seq) {
		end = len(seq)
	}

	return seq[start:end]
}
