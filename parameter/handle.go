package parameter

import (
	"github.com/wrenfold/resonance/tween"
)

// Handle is the control-side reference to a Parameter: something callers
// hold onto to push Set commands, without ever touching renderer memory
// directly.
type Handle struct {
	id    Id
	param *Parameter
}

// NewHandle wraps id and param in a control-side Handle.
func NewHandle(id Id, param *Parameter) Handle {
	return Handle{id: id, param: param}
}

// Id returns the parameter's registry id, for binding track/effect
// settings to this parameter via value.Value.Bound.
func (h Handle) Id() Id {
	return h.id
}

// Value reads the parameter's current value through its atomic mirror.
func (h Handle) Value() float64 {
	return h.param.MirrorValue()
}

// Set pushes a command that tweens the parameter to target. Returns
// queue.ErrFull if the parameter's command queue has no room.
func (h Handle) Set(target float64, tw tween.Tween) error {
	return h.param.PushCommand(SetCommand(target, tw))
}
