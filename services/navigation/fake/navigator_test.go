package fake

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"go.viam.com/test"

	"go.viam.com/followwaypoints/logging"
	"go.viam.com/followwaypoints/services/navigation"
	"go.viam.com/followwaypoints/spatialmath"
)

func TestInstantArrival(t *testing.T) {
	ctx := context.Background()
	nav := NewNavigator(navigation.Config{}, clock.New(), logging.NewTestLogger(t))
	defer nav.Close(ctx)

	test.That(t, nav.WaitForServer(ctx), test.ShouldBeNil)
	goal := navigation.NewGoal("map", spatialmath.NewPlanarPose(3, 4, 0))
	test.That(t, nav.SendGoal(ctx, goal), test.ShouldBeNil)

	status, err := nav.WaitForResult(ctx, goal.ID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, navigation.StatusSucceeded)
	test.That(t, nav.Position(), test.ShouldResemble, r3.Vector{X: 3, Y: 4})
	test.That(t, nav.Goals(), test.ShouldHaveLength, 1)

	test.That(t, nav.SendGoal(ctx, goal), test.ShouldNotBeNil)
}

func TestTravelTime(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	nav := NewNavigator(navigation.Config{MMPerSecDefault: 1000}, mock, logging.NewTestLogger(t))
	defer nav.Close(ctx)

	// 5m at 1m/s
	test.That(t, nav.travelTime(r3.Vector{}, r3.Vector{X: 3, Y: 4}), test.ShouldEqual, 5*time.Second)

	goal := navigation.NewGoal("map", spatialmath.NewPlanarPose(3, 4, 0))
	test.That(t, nav.SendGoal(ctx, goal), test.ShouldBeNil)

	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := nav.WaitForResult(shortCtx, goal.ID)
	test.That(t, err, test.ShouldBeError, context.DeadlineExceeded)

	mock.Add(5 * time.Second)
	status, err := nav.WaitForResult(ctx, goal.ID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, navigation.StatusSucceeded)
	test.That(t, nav.Position(), test.ShouldResemble, r3.Vector{X: 3, Y: 4})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	nav := NewNavigator(navigation.Config{MMPerSecDefault: 1}, clock.NewMock(), logging.NewTestLogger(t))
	defer nav.Close(ctx)

	goal := navigation.NewGoal("map", spatialmath.NewPlanarPose(10, 0, 0))
	test.That(t, nav.SendGoal(ctx, goal), test.ShouldBeNil)
	test.That(t, nav.CancelGoal(ctx, goal.ID), test.ShouldBeNil)
	// cancelling twice is harmless
	test.That(t, nav.CancelGoal(ctx, goal.ID), test.ShouldBeNil)

	status, err := nav.WaitForResult(ctx, goal.ID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, navigation.StatusPreempted)
	test.That(t, nav.Position(), test.ShouldResemble, r3.Vector{})
}

func TestUnknownGoal(t *testing.T) {
	ctx := context.Background()
	nav := NewNavigator(navigation.Config{}, clock.New(), logging.NewTestLogger(t))
	defer nav.Close(ctx)

	_, err := nav.WaitForResult(ctx, uuid.New())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, navigation.ErrUnknownGoal.Error())
	test.That(t, nav.CancelGoal(ctx, uuid.New()), test.ShouldNotBeNil)
}

func TestCloseAborts(t *testing.T) {
	ctx := context.Background()
	nav := NewNavigator(navigation.Config{MMPerSecDefault: 1}, clock.NewMock(), logging.NewTestLogger(t))

	goal := navigation.NewGoal("map", spatialmath.NewPlanarPose(1, 0, 0))
	test.That(t, nav.SendGoal(ctx, goal), test.ShouldBeNil)
	test.That(t, nav.Close(ctx), test.ShouldBeNil)

	status, err := nav.WaitForResult(ctx, goal.ID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, navigation.StatusAborted)
}

func TestConfigValidate(t *testing.T) {
	cfg := navigation.Config{MMPerSecDefault: -1}
	err := cfg.Validate("navigation")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "mm_per_sec")

	cfg.MMPerSecDefault = 300
	test.That(t, cfg.Validate("navigation"), test.ShouldBeNil)
}
