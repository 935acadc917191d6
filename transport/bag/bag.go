// Package bag replays the pose topic of a recorded rosbag as a pose source.
package bag

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/transport"
	"go.viam.com/followwaypoints/waypoint"
)

var _ = transport.PoseSource(&Source{})

// Source hands out the recorded poses one per receive, in recording order. Once they are used
// up every receive waits out its timeout.
type Source struct {
	clock clock.Clock

	mu    sync.Mutex
	poses []waypoint.Waypoint
	next  int
}

// NewSource reads every pose recorded on topic in the bag at filename.
func NewSource(filename, topic string) (*Source, error) {
	rb, err := ros.ReadBag(filename)
	if err != nil {
		return nil, err
	}
	msgs, err := ros.PosesForTopic(rb, topic)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s from %s", topic, filename)
	}
	return NewSourceFromMessages(clock.New(), msgs), nil
}

// NewSourceFromMessages replays msgs.
func NewSourceFromMessages(clk clock.Clock, msgs []ros.PoseWithCovarianceStamped) *Source {
	return &Source{
		clock: clk,
		poses: lo.Map(msgs, func(msg ros.PoseWithCovarianceStamped, _ int) waypoint.Waypoint {
			return waypoint.FromROS(msg)
		}),
	}
}

// Remaining returns the number of poses not yet handed out.
func (s *Source) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.poses) - s.next
}

// Rewind starts the replay over.
func (s *Source) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
}

// ReceivePose returns the next recorded pose.
func (s *Source) ReceivePose(ctx context.Context, timeout time.Duration) (waypoint.Waypoint, error) {
	s.mu.Lock()
	if s.next < len(s.poses) {
		w := s.poses[s.next]
		s.next++
		s.mu.Unlock()
		return w, nil
	}
	s.mu.Unlock()

	select {
	case <-s.clock.After(timeout):
		return waypoint.Waypoint{}, transport.ErrReceiveTimeout
	case <-ctx.Done():
		return waypoint.Waypoint{}, ctx.Err()
	}
}
