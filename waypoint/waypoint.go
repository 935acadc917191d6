// Package waypoint defines the target poses a robot is driven through and the shared queue
// they are collected in.
package waypoint

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/spatialmath"
)

// CovarianceSize is the number of entries of the row-major 6x6 pose covariance.
const CovarianceSize = 36

// Waypoint is a target pose. The covariance is passed through untouched.
type Waypoint struct {
	pose       spatialmath.Pose
	covariance *[CovarianceSize]float64
}

// New returns a waypoint at the given pose without covariance.
func New(pose spatialmath.Pose) Waypoint {
	return Waypoint{pose: pose}
}

// NewWithCovariance returns a waypoint at the given pose carrying a copy of covariance.
func NewWithCovariance(pose spatialmath.Pose, covariance [CovarianceSize]float64) Waypoint {
	return Waypoint{pose: pose, covariance: &covariance}
}

// Pose returns the target pose.
func (w Waypoint) Pose() spatialmath.Pose {
	return w.pose
}

// Position returns the target position.
func (w Waypoint) Position() r3.Vector {
	return w.pose.Point()
}

// Orientation returns the target orientation.
func (w Waypoint) Orientation() spatialmath.Orientation {
	return w.pose.Orientation()
}

// Covariance returns a copy of the covariance, if one was supplied.
func (w Waypoint) Covariance() ([CovarianceSize]float64, bool) {
	if w.covariance == nil {
		return [CovarianceSize]float64{}, false
	}
	return *w.covariance, true
}

func (w Waypoint) String() string {
	return fmt.Sprintf("(x, y): %v, %v", w.Position().X, w.Position().Y)
}

// FromROS converts a received pose message. A message that sets Yaw gets its orientation from
// that heading; otherwise the quaternion is normalized and used.
func FromROS(msg ros.PoseWithCovarianceStamped) Waypoint {
	p := msg.Pose.Pose
	var orientation spatialmath.Orientation
	if p.Yaw != nil {
		orientation = spatialmath.NewYaw(*p.Yaw)
	} else {
		o := p.Orientation
		orientation = spatialmath.NewQuaternion(o.X, o.Y, o.Z, o.W)
	}
	pose := spatialmath.NewPose(r3.Vector{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z}, orientation)
	if msg.Pose.Covariance == ([CovarianceSize]float64{}) {
		return New(pose)
	}
	return NewWithCovariance(pose, msg.Pose.Covariance)
}

// ToROS converts a pose to its message form.
func ToROS(pose spatialmath.Pose) ros.Pose {
	pt := pose.Point()
	q := pose.Orientation().Quaternion()
	return ros.Pose{
		Position:    ros.Point{X: pt.X, Y: pt.Y, Z: pt.Z},
		Orientation: ros.Quaternion{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real},
	}
}

// ToPoseArray builds the visualization message for the given waypoints in frame.
func ToPoseArray(frame string, waypoints []Waypoint) ros.PoseArray {
	return ros.PoseArray{
		Header: ros.Header{FrameID: frame},
		Poses: lo.Map(waypoints, func(w Waypoint, _ int) ros.Pose {
			return ToROS(w.Pose())
		}),
	}
}
