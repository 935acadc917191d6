package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose is a position and an orientation.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type pose struct {
	point       r3.Vector
	orientation Orientation
}

// NewPose returns a pose at the given point with the given orientation. A nil orientation is
// treated as no rotation.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return &pose{point: p, orientation: o}
}

// NewPoseFromPoint returns a pose at the given point with no rotation.
func NewPoseFromPoint(p r3.Vector) Pose {
	return NewPose(p, nil)
}

// NewPlanarPose returns a pose on the ground plane at (x, y) heading along yaw radians.
func NewPlanarPose(x, y, yaw float64) Pose {
	return NewPose(r3.Vector{X: x, Y: y}, NewYaw(yaw))
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Orientation() Orientation {
	return p.orientation
}

func (p *pose) String() string {
	q := p.orientation.Quaternion()
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f OX:%.3f OY:%.3f OZ:%.3f OW:%.3f}",
		p.point.X, p.point.Y, p.point.Z, q.Imag, q.Jmag, q.Kmag, q.Real)
}

// PoseAlmostEqual returns whether two poses are within 1e-8 in position and have approximately
// the same orientation.
func PoseAlmostEqual(a, b Pose) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), 1e-8) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return a.Sub(b).Norm() < epsilon
}
