package netsync

// LocalStepper turns fractional ticks into whole local simulation steps.
type LocalStepper struct {
	accumulator float64
}

// CatchUp adds deltaTick to the accumulator and calls step once per whole
// tick accumulated. It returns the number of steps taken.
func (s *LocalStepper) CatchUp(deltaTick float64, step func()) int {
	if deltaTick > 0 {
		s.accumulator += deltaTick
	}
	steps := 0
	for s.accumulator >= 1 {
		if step != nil {
			step()
		}
		s.accumulator--
		steps++
	}
	return steps
}

// Accumulator is the fractional tick carried to the next frame, in [0, 1).
func (s *LocalStepper) Accumulator() float64 { return s.accumulator }

func (s *LocalStepper) Reset() { s.accumulator = 0 }
