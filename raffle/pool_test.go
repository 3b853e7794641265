package raffle

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"charity-raffle/common/constant"
)

type PoolTestSuite struct {
	suite.Suite
}

func TestPoolTestSuite(t *testing.T) {
	suite.Run(t, new(PoolTestSuite))
}

func (s *PoolTestSuite) TestListNumbersCoversFullRange() {
	pool := NewPool(nil)

	numbers := pool.ListNumbers(false)

	s.Len(numbers, constant.TotalNumbers)
	s.Equal(int32(1), numbers[0])
	s.Equal(int32(constant.TotalNumbers), numbers[len(numbers)-1])

	// Every number exactly once, ascending.
	for i := 1; i < len(numbers); i++ {
		s.Equal(numbers[i-1]+1, numbers[i])
	}
}

func (s *PoolTestSuite) TestTaken() {
	pool := NewPool([]int32{7, 4999, 0, 5001, -3})

	s.True(pool.Taken(7))
	s.True(pool.Taken(4999))

	// Out-of-range input is dropped at construction.
	s.False(pool.Taken(0))
	s.False(pool.Taken(5001))
	s.False(pool.Taken(-3))
	s.False(pool.Taken(8))
}

func (s *PoolTestSuite) TestListNumbersAvailableOnly() {
	pool := NewPool([]int32{1, 2, 3})

	numbers := pool.ListNumbers(true)

	s.Len(numbers, constant.TotalNumbers-3)
	s.Equal(int32(4), numbers[0])
	s.NotContains(numbers, int32(2))
}

func (s *PoolTestSuite) TestPaginate() {
	pool := NewPool(nil)
	all := pool.ListNumbers(false)

	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst int32
	}{
		{name: "first page", page: 1, wantLen: 50, wantFirst: 1},
		{name: "second page", page: 2, wantLen: 50, wantFirst: 51},
		{name: "last page", page: 100, wantLen: 50, wantFirst: 4951},
		{name: "past the end", page: 101, wantLen: 0},
		{name: "page zero", page: 0, wantLen: 0},
		{name: "negative page", page: -1, wantLen: 0},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			got := Paginate(all, tc.page, constant.DefaultPageSize)

			s.Len(got, tc.wantLen)
			if tc.wantLen > 0 {
				s.Equal(tc.wantFirst, got[0])
			}
		})
	}
}

func (s *PoolTestSuite) TestPaginateShortTail() {
	seq := []int32{1, 2, 3, 4, 5}

	got := Paginate(seq, 2, 3)

	s.Equal([]int32{4, 5}, got)
}
