package networld

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CorrectionSmoother hides reconciliation snaps. When prediction is rewound,
// the rendered body keeps its old position as an offset that eases to zero.
type CorrectionSmoother struct {
	duration float32 // seconds
	tx, ty   *gween.Tween
	x, y     float32
}

func NewCorrectionSmoother(d time.Duration) *CorrectionSmoother {
	return &CorrectionSmoother{duration: float32(d.Seconds())}
}

// Start adds a correction of (dx, dy) to the current offset and restarts the ease.
func (s *CorrectionSmoother) Start(dx, dy float64) {
	s.x += float32(dx)
	s.y += float32(dy)
	if s.duration <= 0 {
		s.x, s.y = 0, 0
		return
	}
	s.tx = gween.New(s.x, 0, s.duration, ease.OutQuad)
	s.ty = gween.New(s.y, 0, s.duration, ease.OutQuad)
}

// Update advances the ease by dt and returns the remaining offset.
func (s *CorrectionSmoother) Update(dt time.Duration) (float64, float64) {
	if s.tx == nil {
		return 0, 0
	}
	step := float32(dt.Seconds())
	x, doneX := s.tx.Update(step)
	y, doneY := s.ty.Update(step)
	s.x, s.y = x, y
	if doneX && doneY {
		s.tx, s.ty = nil, nil
		s.x, s.y = 0, 0
	}
	return float64(s.x), float64(s.y)
}

// Offset returns the current offset without advancing.
func (s *CorrectionSmoother) Offset() (float64, float64) {
	return float64(s.x), float64(s.y)
}

// Active reports whether a correction is still easing out.
func (s *CorrectionSmoother) Active() bool { return s.tx != nil }
