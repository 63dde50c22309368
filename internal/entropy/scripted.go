package entropy

// Scripted replays a fixed sequence of floats, cycling when exhausted.
// Intn maps the next float onto [0, n). Useful in tests.
type Scripted struct {
	Values []float64
	next   int
}

// Fixed returns a Scripted source over vals. With no values it always
// returns 0.5.
func Fixed(vals ...float64) *Scripted {
	return &Scripted{Values: vals}
}

// Float64 implements Source.
func (s *Scripted) Float64() float64 {
	if len(s.Values) == 0 {
		return 0.5
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// Intn implements Source.
func (s *Scripted) Intn(n int) int {
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
