package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/raster/pkg/math3d"
)

// turntable eases the camera yaw toward a target angle with a critically
// damped spring, so turns start and stop smoothly.
type turntable struct {
	Yaw      float64
	velocity float64
	spring   harmonica.Spring
}

func newTurntable(fps int) *turntable {
	return &turntable{
		// Frequency 6 settles within a few frames without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Step advances the spring one frame toward target and returns the new yaw.
func (t *turntable) Step(target float64) float64 {
	t.Yaw, t.velocity = t.spring.Update(t.Yaw, t.velocity, target)
	return t.Yaw
}

// Eye rotates eye about the vertical axis through the origin by the
// current yaw.
func (t *turntable) Eye(eye math3d.Vec3) math3d.Vec3 {
	return math3d.RotateY(t.Yaw).MulVec3Dir(eye)
}

// turntableAngle is the target yaw of frame i out of n evenly spaced
// frames around a full turn.
func turntableAngle(i, n int) float64 {
	return 2 * math.Pi * float64(i) / float64(n)
}
