package draw

import (
	"math/rand/v2"

	"charity-raffle/model"
)

const (
	// ItemWidth is the rendered width of one strip cell.
	ItemWidth = 80

	// stripCopies controls how long the cosmetic strip is: enough cells that
	// the scroll visibly spins before settling.
	stripCopies = 50

	// winnerTailOffset places the winner cell this far before the strip end,
	// leaving trailing cells visible after the pointer stops.
	winnerTailOffset = 30
)

// BuildRouletteStrip concatenates shuffled copies of the sold tickets and
// plants the winner near the tail so the animation can land on it
// deterministically. The shuffle is cosmetic only; fairness comes from
// PickWinner.
func BuildRouletteStrip(sold []model.SoldTicket, winner model.SoldTicket) ([]model.SoldTicket, int) {
	if len(sold) == 0 {
		return nil, -1
	}

	strip := make([]model.SoldTicket, 0, len(sold)*stripCopies)
	for i := 0; i < stripCopies; i++ {
		start := len(strip)
		strip = append(strip, sold...)
		chunk := strip[start:]
		rand.Shuffle(len(chunk), func(a, b int) {
			chunk[a], chunk[b] = chunk[b], chunk[a]
		})
	}

	winnerIndex := len(strip) - winnerTailOffset
	if winnerIndex < 0 {
		winnerIndex = len(strip) - 1
	}
	strip[winnerIndex] = winner

	return strip, winnerIndex
}

// TargetOffset is the scroll distance that centers the given cell under the
// fixed pointer.
func TargetOffset(index int) float64 {
	return float64(index*ItemWidth) + float64(ItemWidth)/2
}
