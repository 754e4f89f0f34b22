package flight

import "sync"

// Synthetic is a Source that advances every angle by a fixed rate on each
// Sample, standing in for real telemetry.
type Synthetic struct {
	mu   sync.Mutex
	att  Attitude
	rate float64
}

// NewSynthetic creates a Synthetic source starting at start.
func NewSynthetic(start Attitude, ratePerSample float64) *Synthetic {
	return &Synthetic{att: start, rate: ratePerSample}
}

// Sample advances the attitude and returns the new value.
func (s *Synthetic) Sample() (Attitude, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.att = Advance(s.att, s.rate)
	return s.att, nil
}
