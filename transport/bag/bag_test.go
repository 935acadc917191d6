package bag_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/transport"
	"go.viam.com/followwaypoints/transport/bag"
)

// recorded is a PoseWithCovarianceStamped as the rosbag JSON dump writes it.
const recorded = `{"meta":{"secs":12,"nsecs":5},"data":{"header":{"seq":3,"frame_id":"map"},` +
	`"pose":{"pose":{"position":{"x":2,"y":4,"z":0},"orientation":{"x":0,"y":0,"z":0,"w":1}},` +
	`"covariance":[0.25,0,0,0,0,0,0,0.25,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0.06]}}}`

func TestDecodeRecordedPose(t *testing.T) {
	var msg ros.PoseWithCovarianceStampedMessage
	test.That(t, json.Unmarshal([]byte(recorded), &msg), test.ShouldBeNil)
	test.That(t, msg.Meta.Secs, test.ShouldEqual, 12)
	test.That(t, msg.Data.Header.FrameID, test.ShouldEqual, "map")
	test.That(t, msg.Data.Pose.Pose.Position.Y, test.ShouldEqual, 4.0)
	test.That(t, msg.Data.Pose.Covariance[35], test.ShouldEqual, 0.06)
}

func TestSourceReplay(t *testing.T) {
	var msg ros.PoseWithCovarianceStampedMessage
	test.That(t, json.Unmarshal([]byte(recorded), &msg), test.ShouldBeNil)
	second := msg.Data
	second.Pose.Pose.Position.X = 5

	mock := clock.NewMock()
	src := bag.NewSourceFromMessages(mock, []ros.PoseWithCovarianceStamped{msg.Data, second})
	test.That(t, src.Remaining(), test.ShouldEqual, 2)
	// recordings are pulled on demand, so nothing is pending
	test.That(t, transport.DrainPoses(src), test.ShouldEqual, 0)
	test.That(t, src.Remaining(), test.ShouldEqual, 2)

	ctx := context.Background()
	res := transport.Receive(ctx, src, time.Second)
	test.That(t, res.Kind, test.ShouldEqual, transport.ResultMessage)
	test.That(t, res.Waypoint.Position().X, test.ShouldEqual, 2.0)
	cov, ok := res.Waypoint.Covariance()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cov[0], test.ShouldEqual, 0.25)

	res = transport.Receive(ctx, src, time.Second)
	test.That(t, res.Waypoint.Position().X, test.ShouldEqual, 5.0)
	test.That(t, src.Remaining(), test.ShouldEqual, 0)

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()
	res = transport.Receive(cancelCtx, src, time.Hour)
	test.That(t, res.Kind, test.ShouldEqual, transport.ResultError)

	src.Rewind()
	test.That(t, src.Remaining(), test.ShouldEqual, 2)
}

func TestSourceTimesOut(t *testing.T) {
	src := bag.NewSourceFromMessages(clock.New(), nil)
	res := transport.Receive(context.Background(), src, time.Millisecond)
	test.That(t, res.Kind, test.ShouldEqual, transport.ResultTimeout)
}
