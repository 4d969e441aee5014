package develop

// SubtractDark removes the sensor's black-level offset from every
// photosite, saturating at zero rather than wrapping. The output has
// the same shape as the input and no element increases.
func SubtractDark(g *Grid, dark uint16) *Grid {
	out := NewGrid(g.Dx(), g.Dy())
	for i, v := range g.values {
		if v > dark {
			out.values[i] = v - dark
		}
	}
	return out
}
