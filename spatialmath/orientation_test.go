package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the x axis in both representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.), Jmag: 0, Kmag: 0}
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}
)

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1, Imag: 0, Jmag: 0, Kmag: 0})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
}

func TestEulerAngles(t *testing.T) {
	test.That(t, QuaternionAlmostEqual(ea45x.Quaternion(), q45x, 1e-8), test.ShouldBeTrue)

	qq45x := Quaternion(q45x)
	test.That(t, qq45x.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, qq45x.EulerAngles().Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, qq45x.EulerAngles().Yaw, test.ShouldAlmostEqual, ea45x.Yaw)

	t.Run("yaw only", func(t *testing.T) {
		q := NewYaw(math.Pi / 2).Quaternion()
		test.That(t, q.Real, test.ShouldAlmostEqual, math.Sqrt2/2)
		test.That(t, q.Imag, test.ShouldAlmostEqual, 0)
		test.That(t, q.Jmag, test.ShouldAlmostEqual, 0)
		test.That(t, q.Kmag, test.ShouldAlmostEqual, math.Sqrt2/2)
		test.That(t, quat.Abs(q), test.ShouldAlmostEqual, 1)
	})

	t.Run("round trip", func(t *testing.T) {
		ea := &EulerAngles{Roll: 0.1, Pitch: -0.4, Yaw: 2.5}
		back := QuatToEulerAngles(ea.Quaternion())
		test.That(t, back.Roll, test.ShouldAlmostEqual, ea.Roll)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ea.Pitch)
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ea.Yaw)
	})
}

func TestNewQuaternion(t *testing.T) {
	q := NewQuaternion(0, 0, 2, 2)
	test.That(t, quat.Abs(q.Quaternion()), test.ShouldAlmostEqual, 1)
	test.That(t, OrientationAlmostEqual(q, NewYaw(math.Pi/2)), test.ShouldBeTrue)

	// sign flipped quaternions are the same rotation
	test.That(t, OrientationAlmostEqual(NewQuaternion(0, 0, -1, -1), q), test.ShouldBeTrue)

	test.That(t, NewQuaternion(0, 0, 0, 0).Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestPose(t *testing.T) {
	p := NewPlanarPose(1.5, -2, math.Pi)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{X: 1.5, Y: -2})
	test.That(t, p.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi)

	same := NewPose(r3.Vector{X: 1.5, Y: -2}, NewQuaternion(0, 0, 1, 0))
	test.That(t, PoseAlmostEqual(p, same), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(p, NewPoseFromPoint(r3.Vector{X: 1.5, Y: -2})), test.ShouldBeFalse)
}
