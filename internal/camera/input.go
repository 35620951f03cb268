package camera

import (
	"fmt"
	"strings"
)

type Action uint8

const (
	Forward Action = iota
	Back
	Left
	Right
	Up
	Down
	RollLeft
	RollRight
	YawLeft
	YawRight
	PitchUp
	PitchDown
	ToggleSpin
	NumActions
)

var actionNames = [NumActions]string{
	Forward:    "forward",
	Back:       "back",
	Left:       "left",
	Right:      "right",
	Up:         "up",
	Down:       "down",
	RollLeft:   "roll_left",
	RollRight:  "roll_right",
	YawLeft:    "yaw_left",
	YawRight:   "yaw_right",
	PitchUp:    "pitch_up",
	PitchDown:  "pitch_down",
	ToggleSpin: "toggle_spin",
}

func (a Action) String() string {
	if a < NumActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", a)
}

func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("camera: unknown action %q", name)
}

// Input is the per-frame control state. Drivers translate their events into
// Press and Release; Update reads it without changing it.
type Input struct {
	held [NumActions]bool

	// Spin flips on every press of ToggleSpin.
	Spin bool

	// Pointer motion since the last frame, in pixels.
	MouseDX, MouseDY float32
}

func (in *Input) Press(a Action) {
	if a >= NumActions {
		return
	}
	if a == ToggleSpin && !in.held[a] {
		in.Spin = !in.Spin
	}
	in.held[a] = true
}

func (in *Input) Release(a Action) {
	if a < NumActions {
		in.held[a] = false
	}
}

func (in *Input) Held(a Action) bool {
	return a < NumActions && in.held[a]
}

// Look accumulates pointer motion until the next ClearMotion.
func (in *Input) Look(dx, dy float32) {
	in.MouseDX += dx
	in.MouseDY += dy
}

func (in *Input) ClearMotion() {
	in.MouseDX, in.MouseDY = 0, 0
}

// Steps are the per-frame increments for held actions and the radians per
// pixel of pointer motion.
type Steps struct {
	Move  float32
	Turn  float32
	Mouse float32
}

func DefaultSteps() Steps {
	return Steps{Move: 0.01, Turn: 0.01, Mouse: 1.0 / 400}
}

// Update returns cam advanced by one frame of in. cam itself is not
// modified.
func Update(cam Camera, in Input, steps Steps) Camera {
	axis := func(pos, neg Action) float32 {
		var v float32
		if in.Held(pos) {
			v++
		}
		if in.Held(neg) {
			v--
		}
		return v
	}

	if v := axis(Forward, Back); v != 0 {
		cam.MoveForward(v * steps.Move)
	}
	if v := axis(Right, Left); v != 0 {
		cam.MoveSideways(v * steps.Move)
	}
	if v := axis(Up, Down); v != 0 {
		cam.MoveElevation(v * steps.Move)
	}
	if v := axis(YawLeft, YawRight); v != 0 {
		cam.RotateHorizontal(v * steps.Turn)
	}
	if v := axis(PitchUp, PitchDown); v != 0 {
		cam.RotateVertical(v * steps.Turn)
	}
	if v := axis(RollLeft, RollRight); v != 0 {
		cam.RotateUp(v * steps.Turn)
	}

	if in.MouseDX != 0 {
		cam.RotateHorizontal(-in.MouseDX * steps.Mouse)
	}
	if in.MouseDY != 0 {
		cam.RotateVertical(-in.MouseDY * steps.Mouse)
	}
	return cam
}
