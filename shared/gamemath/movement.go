// Package gamemath holds the movement rules the server simulates and the
// client predicts. Both sides must step bodies through StepBody so a
// prediction only diverges when the server disagrees about input.
package gamemath

import (
	"math"

	"github.com/automoto/doomerang-netsync/tags"
	"github.com/solarlune/resolv"
)

// Movement constants, tuned for one step per 60 Hz tick.
const (
	Gravity            = 0.75
	JumpSpeed          = 15.0
	MaxSpeed           = 6.0
	Acceleration       = 0.75
	Friction           = 0.5
	MaxFallSpeed       = 10.0
	MaxVertSpeed       = 16.0
	SlopeSurfaceOffset = 0.1

	BodyWidth  = 16
	BodyHeight = 40
)

// StepsPerSecond is the fixed rate movement is simulated at.
const StepsPerSecond = 60

// SubStepsPerTick is how many movement steps one server tick covers at
// tickRate. Server and prediction must both use it to stay in step.
func SubStepsPerTick(tickRate int) int {
	if tickRate <= 0 {
		return 1
	}
	return max(StepsPerSecond/tickRate, 1)
}

// MoveInput is the part of a player input movement depends on.
type MoveInput struct {
	Direction int // -1 left, 0 none, 1 right
	Jump      bool
}

// Body is a player's collision object plus the velocity carried between steps.
type Body struct {
	Object         *resolv.Object
	VelX, VelY     float64
	OnGround       bool
	JumpWasPressed bool
}

// NewBody creates a player-sized object at x, y and adds it to space.
func NewBody(space *resolv.Space, x, y float64) *Body {
	obj := resolv.NewObject(x, y, BodyWidth, BodyHeight, tags.ResolvPlayer)
	obj.SetShape(resolv.NewRectangle(0, 0, BodyWidth, BodyHeight))
	if space != nil {
		space.Add(obj)
	}
	return &Body{Object: obj}
}

// Place moves the body without simulating, e.g. after a server correction.
func (b *Body) Place(x, y float64) {
	b.Object.X = x
	b.Object.Y = y
	b.Object.Update()
}

// ApplyFriction reduces speed toward zero by friction amount.
func ApplyFriction(speedX, friction float64) float64 {
	if speedX > friction {
		return speedX - friction
	}
	if speedX < -friction {
		return speedX + friction
	}
	return 0
}

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	return math.Max(-max, math.Min(speed, max))
}

// StepBody advances b by one movement step.
func StepBody(b *Body, in MoveInput) {
	if in.Direction != 0 {
		b.VelX += float64(in.Direction) * Acceleration
	}

	// Jump is edge-triggered.
	if in.Jump && !b.JumpWasPressed && b.OnGround {
		b.VelY = -JumpSpeed
		b.OnGround = false
	}
	b.JumpWasPressed = in.Jump

	if b.OnGround {
		b.VelX = ApplyFriction(b.VelX, Friction)
	}
	b.VelX = ClampSpeed(b.VelX, MaxSpeed)

	b.VelY += Gravity
	if b.VelY > MaxFallSpeed {
		b.VelY = MaxFallSpeed
	}

	resolveHorizontal(b)
	resolveVertical(b)
}

func resolveHorizontal(b *Body) {
	dx := b.VelX
	if dx == 0 {
		return
	}
	obj := b.Object

	// Ramps in front (uphill) or just below (downhill) carry the body along.
	for _, dy := range []float64{0, 1} {
		if check := obj.Check(dx, dy, tags.ResolvRamp); check != nil {
			if ramps := check.ObjectsByTags(tags.ResolvRamp); len(ramps) > 0 {
				obj.X += dx
				obj.Update()
				snapToSlope(b, ramps[0])
				return
			}
		}
	}

	if check := obj.Check(dx, 0, tags.ResolvSolid); check != nil {
		if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
			dx = check.ContactWithObject(solids[0]).X()
			b.VelX = 0
		}
	}
	obj.X += dx
	obj.Update()
}

func resolveVertical(b *Body) {
	obj := b.Object
	dy := ClampSpeed(b.VelY, MaxVertSpeed)

	checkDist := dy
	if dy >= 0 {
		checkDist++
	}

	if check := obj.Check(0, checkDist, tags.ResolvSolid, tags.ResolvRamp); check != nil {
		if dy >= 0 {
			if ramps := check.ObjectsByTags(tags.ResolvRamp); len(ramps) > 0 {
				surfaceY := GetSlopeSurfaceY(obj, ramps[0], tags.Slope45UpRight, tags.Slope45UpLeft)
				if obj.Y+obj.H+dy >= surfaceY {
					snapToSlope(b, ramps[0])
					return
				}
			}
		}
		if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
			obj.Y += check.ContactWithObject(solids[0]).Y()
			obj.Update()
			b.VelY = 0
			// Landing when moving down, ceiling bump otherwise.
			b.OnGround = dy >= 0
			return
		}
	}

	b.OnGround = false
	obj.Y += dy
	obj.Update()
}

func snapToSlope(b *Body, ramp *resolv.Object) {
	surfaceY := GetSlopeSurfaceY(b.Object, ramp, tags.Slope45UpRight, tags.Slope45UpLeft)
	b.Object.Y = SnapToSlopeY(b.Object.H, surfaceY, SlopeSurfaceOffset)
	b.Object.Update()
	b.OnGround = true
	b.VelY = 0
}
