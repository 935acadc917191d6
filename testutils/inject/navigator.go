// Package inject provides test doubles whose behavior is set per test through Func fields.
package inject

import (
	"context"

	"github.com/google/uuid"

	"go.viam.com/followwaypoints/services/navigation"
)

// Navigator is an injectable navigator. Unset funcs fall through to the embedded Navigator.
type Navigator struct {
	navigation.Navigator
	WaitForServerFunc func(ctx context.Context) error
	SendGoalFunc      func(ctx context.Context, goal navigation.Goal) error
	WaitForResultFunc func(ctx context.Context, id uuid.UUID) (navigation.Status, error)
	CancelGoalFunc    func(ctx context.Context, id uuid.UUID) error
}

// WaitForServer calls the injected WaitForServer or the real version.
func (n *Navigator) WaitForServer(ctx context.Context) error {
	if n.WaitForServerFunc == nil {
		return n.Navigator.WaitForServer(ctx)
	}
	return n.WaitForServerFunc(ctx)
}

// SendGoal calls the injected SendGoal or the real version.
func (n *Navigator) SendGoal(ctx context.Context, goal navigation.Goal) error {
	if n.SendGoalFunc == nil {
		return n.Navigator.SendGoal(ctx, goal)
	}
	return n.SendGoalFunc(ctx, goal)
}

// WaitForResult calls the injected WaitForResult or the real version.
func (n *Navigator) WaitForResult(ctx context.Context, id uuid.UUID) (navigation.Status, error) {
	if n.WaitForResultFunc == nil {
		return n.Navigator.WaitForResult(ctx, id)
	}
	return n.WaitForResultFunc(ctx, id)
}

// CancelGoal calls the injected CancelGoal or the real version.
func (n *Navigator) CancelGoal(ctx context.Context, id uuid.UUID) error {
	if n.CancelGoalFunc == nil {
		return n.Navigator.CancelGoal(ctx, id)
	}
	return n.CancelGoalFunc(ctx, id)
}
