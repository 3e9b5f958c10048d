// Package tips serves static money-saving advice.
package tips

import "math/rand"

var defaultTips = []string{
	"Tip 1: Keep a budget and track where your money goes.",
	"Tip 2: Put a share of every income into savings.",
	"Tip 3: Buy during sales and look out for discounts.",
}

// Picker selects a random tip from a fixed list.
type Picker struct {
	tips []string
}

// NewPicker returns a Picker over the provided tips, or the default list when
// none are given.
func NewPicker(tips ...string) *Picker {
	if len(tips) == 0 {
		tips = defaultTips
	}
	return &Picker{tips: tips}
}

// Pick returns one tip chosen uniformly at random.
func (p *Picker) Pick() string {
	return p.tips[rand.Intn(len(p.tips))]
}
