// Package navigation contains the contract of the navigation subsystem the follower delegates
// driving to: it accepts a goal pose and reports when the goal is resolved.
package navigation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/followwaypoints/spatialmath"
)

// ErrUnknownGoal is returned for goal IDs a navigator was never sent.
var ErrUnknownGoal = errors.New("unknown goal")

// Status describes how a goal was resolved.
type Status uint8

// The set of goal resolutions.
const (
	StatusSucceeded = Status(iota + 1)
	StatusAborted
	StatusPreempted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusAborted:
		return "aborted"
	case StatusPreempted:
		return "preempted"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Goal is a target pose expressed in a named reference frame.
type Goal struct {
	ID      uuid.UUID
	FrameID string
	Pose    spatialmath.Pose
}

// NewGoal returns a goal with a fresh ID.
func NewGoal(frameID string, pose spatialmath.Pose) Goal {
	return Goal{ID: uuid.New(), FrameID: frameID, Pose: pose}
}

// A Navigator drives the robot to goals. How it plans and avoids obstacles is its own
// business.
type Navigator interface {
	// WaitForServer blocks until the navigator is able to accept goals.
	WaitForServer(ctx context.Context) error
	// SendGoal hands over a goal and returns without waiting for it to finish.
	SendGoal(ctx context.Context, goal Goal) error
	// WaitForResult blocks until the goal is resolved. The returned error describes a failure
	// to learn the result, not a failure to reach the goal.
	WaitForResult(ctx context.Context, id uuid.UUID) (Status, error)
	// CancelGoal preempts an in-flight goal.
	CancelGoal(ctx context.Context, id uuid.UUID) error
}

// Config describes how to configure the simulated navigator.
type Config struct {
	MMPerSecDefault float64 `json:"mm_per_sec"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	if config.MMPerSecDefault < 0 {
		return utils.NewConfigValidationError(path, errors.New("mm_per_sec must not be negative"))
	}
	return nil
}
