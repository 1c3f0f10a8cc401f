package questions

import (
	"math/rand/v2"

	"vineyard-quiz/internal/domain"
)

// DrawSize is how many questions one quiz round set holds.
const DrawSize = 10

// IntN returns a uniform integer in [0, n).
type IntN func(n int) int

// Shuffle permutes qs in place: for i from the last index down to 1, swap
// with a uniform index in [0, i].
func Shuffle(intn IntN, qs []domain.Question) {
	if intn == nil {
		intn = rand.IntN
	}
	for i := len(qs) - 1; i > 0; i-- {
		j := intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

// Sample shuffles a copy of pool and returns its first n entries. Each call
// reshuffles independently, so no question repeats within one draw.
func Sample(intn IntN, pool []domain.Question, n int) []domain.Question {
	shuffled := make([]domain.Question, len(pool))
	for i, q := range pool {
		shuffled[i] = q.Clone()
	}
	Shuffle(intn, shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
