package waypoint_test

import (
	"math"
	"sync"
	"testing"

	"go.viam.com/test"

	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/spatialmath"
	"go.viam.com/followwaypoints/waypoint"
)

func planar(x, y float64) waypoint.Waypoint {
	return waypoint.New(spatialmath.NewPlanarPose(x, y, 0))
}

func TestQueueOrder(t *testing.T) {
	q := waypoint.NewQueue()
	snap, gen := q.Snapshot()
	test.That(t, snap, test.ShouldBeEmpty)
	test.That(t, gen, test.ShouldEqual, uint64(0))

	var appended []waypoint.Waypoint
	for i := 0; i < 10; i++ {
		w := planar(float64(i), float64(-i))
		appended = append(appended, w)
		test.That(t, q.Append(w), test.ShouldEqual, i+1)
	}

	snap, gen = q.Snapshot()
	test.That(t, snap, test.ShouldHaveLength, 10)
	for i, w := range snap {
		test.That(t, w.Position(), test.ShouldResemble, appended[i].Position())
	}
	test.That(t, q.ResetSince(gen), test.ShouldBeFalse)
}

func TestQueueClear(t *testing.T) {
	q := waypoint.NewQueue()
	q.Append(planar(1, 1))
	q.Append(planar(2, 2))
	before, gen := q.Snapshot()

	q.Clear()
	test.That(t, q.Len(), test.ShouldEqual, 0)
	test.That(t, q.ResetSince(gen), test.ShouldBeTrue)
	test.That(t, q.Generation(), test.ShouldEqual, gen+1)

	// the earlier snapshot is a copy
	test.That(t, before, test.ShouldHaveLength, 2)

	// appending after a reset does not hide it from an older generation
	q.Append(planar(3, 3))
	test.That(t, q.ResetSince(gen), test.ShouldBeTrue)
	after, gen2 := q.Snapshot()
	test.That(t, after, test.ShouldHaveLength, 1)
	test.That(t, q.ResetSince(gen2), test.ShouldBeFalse)
	test.That(t, before[1].Position().X, test.ShouldEqual, 2.0)
}

func TestQueueEmptyIsReset(t *testing.T) {
	q := waypoint.NewQueue()
	_, gen := q.Snapshot()
	test.That(t, q.ResetSince(gen), test.ShouldBeTrue)
}

func TestQueueConcurrentAccess(t *testing.T) {
	q := waypoint.NewQueue()
	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				q.Append(planar(float64(writer), float64(j)))
			}
		}(i)
	}
	outOfOrder := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < perWriter; j++ {
			snap, _ := q.Snapshot()
			// per writer, ys are strictly increasing in arrival order
			last := map[float64]float64{}
			for _, w := range snap {
				if prev, ok := last[w.Position().X]; ok && w.Position().Y <= prev {
					outOfOrder++
				}
				last[w.Position().X] = w.Position().Y
			}
		}
	}()
	wg.Wait()
	test.That(t, outOfOrder, test.ShouldEqual, 0)
	test.That(t, q.Len(), test.ShouldEqual, writers*perWriter)

	q.Clear()
	snap, _ := q.Snapshot()
	test.That(t, snap, test.ShouldBeEmpty)
}

func TestFromROS(t *testing.T) {
	t.Run("quaternion", func(t *testing.T) {
		var msg ros.PoseWithCovarianceStamped
		msg.Pose.Pose.Position = ros.Point{X: 1, Y: 2}
		msg.Pose.Pose.Orientation = ros.Quaternion{Z: 1, W: 1}
		w := waypoint.FromROS(msg)
		test.That(t, w.Position().X, test.ShouldEqual, 1.0)
		test.That(t, w.Position().Y, test.ShouldEqual, 2.0)
		test.That(t, w.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/2)
		_, ok := w.Covariance()
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("yaw and covariance", func(t *testing.T) {
		yaw := -math.Pi / 4
		var msg ros.PoseWithCovarianceStamped
		msg.Pose.Pose.Yaw = &yaw
		msg.Pose.Covariance[0] = 0.25
		w := waypoint.FromROS(msg)
		test.That(t, w.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, yaw)
		cov, ok := w.Covariance()
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, cov[0], test.ShouldEqual, 0.25)

		// the waypoint holds its own copy
		msg.Pose.Covariance[0] = 1
		cov, _ = w.Covariance()
		test.That(t, cov[0], test.ShouldEqual, 0.25)
	})
}

func TestToPoseArray(t *testing.T) {
	arr := waypoint.ToPoseArray("map", []waypoint.Waypoint{planar(1, 2), planar(3, 4)})
	test.That(t, arr.Header.FrameID, test.ShouldEqual, "map")
	test.That(t, arr.Poses, test.ShouldHaveLength, 2)
	test.That(t, arr.Poses[1].Position, test.ShouldResemble, ros.Point{X: 3, Y: 4})
	test.That(t, arr.Poses[1].Orientation, test.ShouldResemble, ros.Quaternion{W: 1})

	test.That(t, waypoint.ToPoseArray("map", nil).Poses, test.ShouldBeEmpty)
}
