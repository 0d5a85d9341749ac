package gacha

import (
	"math"
)

func validateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return ErrInvalidWeight
	}
	if w < 0 {
		return ErrInvalidWeight
	}
	return nil
}
