package main

import (
	"fmt"
	"math"
	"sort"
)

const defaultCompanyColor = "#000000"

// matplotlib tab20
var tab20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// CompanyColors resolves both a symbol and a company name to the company's colour.
type CompanyColors map[string]string

func (cc CompanyColors) Lookup(key string) string {
	if color, ok := cc[key]; ok {
		return color
	}
	return defaultCompanyColor
}

// companyColors gives every distinct company one colour, assigned in symbol
// order so the same dataset always yields the same mapping.
func companyColors(rs Records) CompanyColors {
	type pair struct{ symbol, name string }
	seen := make(map[pair]bool)
	pairs := make([]pair, 0)
	for _, r := range rs {
		p := pair{r.Symbol, r.CompanyName}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].symbol != pairs[j].symbol {
			return pairs[i].symbol < pairs[j].symbol
		}
		return pairs[i].name < pairs[j].name
	})

	palette := companyPalette(len(pairs))
	colors := make(CompanyColors, 2*len(pairs))
	for i, p := range pairs {
		colors[p.symbol] = palette[i]
		colors[p.name] = palette[i]
	}
	return colors
}

// companyPalette returns n colours. Up to len(tab20) they are spread evenly
// across tab20; past that tab20 is used in order and the remainder come from
// golden-angle hue rotation.
func companyPalette(n int) []string {
	palette := make([]string, 0, n)
	if n <= 0 {
		return palette
	}
	if n <= len(tab20) {
		for i := 0; i < n; i++ {
			idx := 0
			if n > 1 {
				idx = i * len(tab20) / (n - 1)
			}
			if idx > len(tab20)-1 {
				idx = len(tab20) - 1
			}
			palette = append(palette, tab20[idx])
		}
		return palette
	}

	palette = append(palette, tab20...)
	const goldenAngle = 137.50776405003785
	for i := len(tab20); i < n; i++ {
		hue := math.Mod(float64(i-len(tab20))*goldenAngle+17, 360)
		palette = append(palette, hslToHex(hue, 0.55, 0.5))
	}
	return palette
}

func hslToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(math.Round((r+m)*255)), uint8(math.Round((g+m)*255)), uint8(math.Round((b+m)*255)))
}
