package draw

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"charity-raffle/model"
)

// PickWinner selects one sold ticket uniformly at random. The winner pick is
// the one adversarial-facing random draw in the system, so it reads from
// crypto/rand and rejection-samples to kill the modulo bias: a plain
// x % n over a 32-bit draw favors low indices whenever n does not divide
// 2^32.
func PickWinner(sold []model.SoldTicket) (model.SoldTicket, error) {
	i, err := uniformIndex(rand.Reader, len(sold))
	if err != nil {
		return model.SoldTicket{}, err
	}
	return sold[i], nil
}

// uniformIndex returns a uniform integer in [0, n). Draws above
// limit = floor(2^32 / n) * n land in the biased tail and are redrawn.
func uniformIndex(r io.Reader, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("uniform index: empty range")
	}

	const randRange = uint64(1) << 32
	limit := (randRange / uint64(n)) * uint64(n)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("uniform index: read random: %w", err)
		}

		x := uint64(binary.BigEndian.Uint32(buf[:]))
		if x >= limit {
			continue
		}
		return int(x % uint64(n)), nil
	}
}
