// Package transport defines the channels the follower exchanges messages over: the incoming
// pose topic, the reset and ready triggers, and the outgoing visualization topic.
package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/waypoint"
)

// ErrReceiveTimeout is returned by a PoseSource when no message arrived within the wait.
var ErrReceiveTimeout = errors.New("timeout exceeded while waiting for message")

// ErrClosed is returned by channels that have been shut down.
var ErrClosed = errors.New("transport closed")

// PoseSource delivers one waypoint per pose message.
type PoseSource interface {
	// ReceivePose waits at most timeout for the next pose. It returns ErrReceiveTimeout when
	// nothing arrived and any other error when the transport failed.
	ReceivePose(ctx context.Context, timeout time.Duration) (waypoint.Waypoint, error)
}

// PoseDrainer is implemented by pose sources that hold messages nobody has received yet.
type PoseDrainer interface {
	// DrainPoses discards every pending pose and returns how many were dropped.
	DrainPoses() int
}

// DrainPoses drops the poses src is holding, if it holds any.
func DrainPoses(src PoseSource) int {
	if d, ok := src.(PoseDrainer); ok {
		return d.DrainPoses()
	}
	return 0
}

// Signal is a parameterless trigger.
type Signal interface {
	// Wait blocks until the next trigger or until ctx is done.
	Wait(ctx context.Context) error
}

// PoseArrayPublisher publishes the full waypoint list for viewers.
type PoseArrayPublisher interface {
	PublishPoseArray(ctx context.Context, msg ros.PoseArray) error
}

// ResultKind tags the outcome of a Receive.
type ResultKind uint8

const (
	// ResultMessage carries a waypoint.
	ResultMessage ResultKind = iota
	// ResultTimeout means nothing arrived within the wait.
	ResultTimeout
	// ResultError carries a transport failure.
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultMessage:
		return "message"
	case ResultTimeout:
		return "timeout"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of receiving one pose.
type Result struct {
	Kind     ResultKind
	Waypoint waypoint.Waypoint
	Err      error
}

// Receive waits up to timeout for one pose from src and classifies the outcome.
func Receive(ctx context.Context, src PoseSource, timeout time.Duration) Result {
	w, err := src.ReceivePose(ctx, timeout)
	switch {
	case err == nil:
		return Result{Kind: ResultMessage, Waypoint: w}
	case errors.Is(err, ErrReceiveTimeout):
		return Result{Kind: ResultTimeout}
	default:
		return Result{Kind: ResultError, Err: err}
	}
}

// Publishers fans a pose array out to several publishers.
type Publishers []PoseArrayPublisher

// PublishPoseArray publishes to every member and combines their errors.
func (ps Publishers) PublishPoseArray(ctx context.Context, msg ros.PoseArray) error {
	var err error
	for _, p := range ps {
		err = multierr.Combine(err, p.PublishPoseArray(ctx, msg))
	}
	return err
}
