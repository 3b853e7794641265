package raffle

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"charity-raffle/common/constant"
)

type BrowserTestSuite struct {
	suite.Suite
}

func TestBrowserTestSuite(t *testing.T) {
	suite.Run(t, new(BrowserTestSuite))
}

func (s *BrowserTestSuite) TestNavigation() {
	b := NewBrowser(NewPool(nil), constant.DefaultPageSize)

	s.Equal(1, b.PageIndex())
	s.Equal(100, b.TotalPages())

	b.Next()
	s.Equal(2, b.PageIndex())

	b.Prev()
	b.Prev()
	s.Equal(1, b.PageIndex(), "prev clamps at the first page")

	b.SetPage(100)
	b.Next()
	s.Equal(100, b.PageIndex(), "next clamps at the last page")

	b.SetPage(0)
	s.Equal(1, b.PageIndex())
}

func (s *BrowserTestSuite) TestFilterChangeRewindsPage() {
	b := NewBrowser(NewPool([]int32{1, 2, 3}), constant.DefaultPageSize)

	b.SetPage(42)
	b.SetAvailableOnly(true)
	s.Equal(1, b.PageIndex())

	// Setting the same filter again keeps the position.
	b.SetPage(7)
	b.SetAvailableOnly(true)
	s.Equal(7, b.PageIndex())

	b.SetAvailableOnly(false)
	s.Equal(1, b.PageIndex())
}

func (s *BrowserTestSuite) TestPageContents() {
	b := NewBrowser(NewPool([]int32{1, 2, 3}), constant.DefaultPageSize)

	page := b.Page()
	s.Len(page, constant.DefaultPageSize)
	s.Equal(int32(1), page[0], "unfiltered grid keeps taken numbers visible")

	b.SetAvailableOnly(true)
	page = b.Page()
	s.Equal(int32(4), page[0])

	// 4997 available numbers: the last page holds the remainder.
	s.Equal(100, b.TotalPages())
	b.SetPage(100)
	s.Len(b.Page(), 47)

	b.SetPage(101)
	s.Empty(b.Page())
}
