// Package token prices pulls in the session currency.
package token

// Token defines how many currency units are required per draw.
type Token struct {
	Name       string // e.g. "Coins"
	PerDraw    int    // units per single draw, e.g. 10
	PerTenDraw int    // optional; if 0 -> equal to 10 * PerDraw, a special case of PerNDraw
	PerNDraw   int    // optional; if 0 -> equal to N * PerDraw
	N          int    // optional; if 0, no bundle besides the ten-pull
}

// Default is the stock price: 10 coins per pull, no bundle discount.
func Default() Token {
	return Token{Name: "Coins", PerDraw: 10}
}

// TokensForDraws returns how many units are required for n draws.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerTenDraw > 0 && n >= 10 && t.N <= 1 {
		tens := n / 10
		remTens := n % 10
		return tens*t.PerTenDraw + remTens*t.PerDraw
	}
	if t.PerNDraw > 0 && n >= t.N && t.N > 1 {
		ns := n / t.N
		rem := n % t.N
		return ns*t.PerNDraw + rem*t.PerDraw
	}

	return n * t.PerDraw
}
