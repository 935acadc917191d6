// Package inmem implements the follower's channels in process. It backs the tests and sits
// behind network transports, which decode messages and hand them to a Bus.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/transport"
	"go.viam.com/followwaypoints/waypoint"
)

// DefaultPoseBuffer is the number of pose messages held before publishers block.
const DefaultPoseBuffer = 64

var (
	_ = transport.PoseSource(&Bus{})
	_ = transport.PoseDrainer(&Bus{})
	_ = transport.PoseArrayPublisher(&Bus{})
	_ = transport.Signal(&Signal{})
)

// Bus carries the pose topic, the reset and ready triggers and records every published pose
// array.
type Bus struct {
	clock  clock.Clock
	poses  chan waypoint.Waypoint
	reset  *Signal
	ready  *Signal
	closed chan struct{}

	closeOnce sync.Once

	mu         sync.Mutex
	poseArrays []ros.PoseArray
}

// NewBus returns a bus whose pose topic buffers DefaultPoseBuffer messages.
func NewBus() *Bus {
	return NewBusWithClock(clock.New(), DefaultPoseBuffer)
}

// NewBusWithClock returns a bus that times receives with clk.
func NewBusWithClock(clk clock.Clock, poseBuffer int) *Bus {
	return &Bus{
		clock:  clk,
		poses:  make(chan waypoint.Waypoint, poseBuffer),
		reset:  NewSignal(),
		ready:  NewSignal(),
		closed: make(chan struct{}),
	}
}

// Reset returns the reset trigger.
func (b *Bus) Reset() *Signal {
	return b.reset
}

// Ready returns the ready trigger.
func (b *Bus) Ready() *Signal {
	return b.ready
}

// PublishPose enqueues a pose message, blocking while the buffer is full.
func (b *Bus) PublishPose(ctx context.Context, w waypoint.Waypoint) error {
	select {
	case <-b.closed:
		return transport.ErrClosed
	default:
	}
	select {
	case b.poses <- w:
		return nil
	case <-b.closed:
		return transport.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReceivePose returns the oldest pending pose message.
func (b *Bus) ReceivePose(ctx context.Context, timeout time.Duration) (waypoint.Waypoint, error) {
	select {
	case w := <-b.poses:
		return w, nil
	default:
	}

	timer := b.clock.Timer(timeout)
	defer timer.Stop()
	select {
	case w := <-b.poses:
		return w, nil
	case <-timer.C:
		return waypoint.Waypoint{}, transport.ErrReceiveTimeout
	case <-b.closed:
		return waypoint.Waypoint{}, transport.ErrClosed
	case <-ctx.Done():
		return waypoint.Waypoint{}, ctx.Err()
	}
}

// DrainPoses drops every pending pose message.
func (b *Bus) DrainPoses() int {
	var n int
	for {
		select {
		case <-b.poses:
			n++
		default:
			return n
		}
	}
}

// PublishPoseArray records msg.
func (b *Bus) PublishPoseArray(ctx context.Context, msg ros.PoseArray) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.poseArrays = append(b.poseArrays, msg)
	return nil
}

// PoseArrays returns every pose array published so far.
func (b *Bus) PoseArrays() []ros.PoseArray {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ros.PoseArray, len(b.poseArrays))
	copy(out, b.poseArrays)
	return out
}

// LastPoseArray returns the most recently published pose array.
func (b *Bus) LastPoseArray() (ros.PoseArray, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.poseArrays) == 0 {
		return ros.PoseArray{}, false
	}
	return b.poseArrays[len(b.poseArrays)-1], true
}

// Close makes pending and future pose receives fail with transport.ErrClosed.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		close(b.closed)
	})
	return nil
}
