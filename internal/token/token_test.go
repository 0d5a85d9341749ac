package token

import "testing"

func TestTokensForDraws(t *testing.T) {
	cases := []struct {
		name string
		tok  Token
		n    int
		want int
	}{
		{"zero draws", Default(), 0, 0},
		{"single", Default(), 1, 10},
		{"ten without bundle", Default(), 10, 100},
		{"ten-pull discount", Token{PerDraw: 10, PerTenDraw: 90}, 10, 90},
		{"ten-pull plus singles", Token{PerDraw: 10, PerTenDraw: 90}, 13, 120},
		{"below bundle size", Token{PerDraw: 10, PerTenDraw: 90}, 9, 90},
		{"n-bundle", Token{PerDraw: 10, PerNDraw: 45, N: 5}, 11, 100},
	}
	for _, c := range cases {
		if got := c.tok.TokensForDraws(c.n); got != c.want {
			t.Fatalf("%s: got %d want %d", c.name, got, c.want)
		}
	}
}
