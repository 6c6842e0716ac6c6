package animate

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultFPS is the frame rate used when a caller passes a non-positive
	// value.
	DefaultFPS = 30

	// DefaultDuration is the clip length used when a caller passes a
	// non-positive value.
	DefaultDuration = 3 * time.Second

	// defaultSpeed is the fraction of the transition completed per second;
	// 2.0 reaches the target pose after half a second.
	defaultSpeed = 2.0

	maxFrames = 10_000
)

// Frame is one keyframe of an [Animation].
type Frame struct {
	// AtMS is the frame's offset from the start of the clip in milliseconds.
	AtMS int64 `json:"at_ms"`

	// Progress is the eased transition progress in [0, 1].
	Progress float64 `json:"progress"`

	LeftHand  Vec3 `json:"left_hand"`
	RightHand Vec3 `json:"right_hand"`
}

// Animation is a planned clip moving from [RestPose] to a gesture's pose.
type Animation struct {
	GestureID  string  `json:"gesture_id"`
	Target     Pose    `json:"target"`
	Posed      bool    `json:"posed"`
	FPS        int     `json:"fps"`
	DurationMS int64   `json:"duration_ms"`
	Frames     []Frame `json:"frames"`
}

// Duration returns the clip length.
func (a Animation) Duration() time.Duration {
	return time.Duration(a.DurationMS) * time.Millisecond
}

// Describe returns a one-line description of what would be animated, used
// when no display is attached.
func (a Animation) Describe() string {
	motion := "hold"
	switch {
	case a.Target.Wave:
		motion = "wave"
	case a.Target.Kind != "":
		motion = a.Target.Kind
	}
	return fmt.Sprintf("%s: left %s at %v, right %s at %v (%s, %d frames over %s)",
		a.GestureID, a.Target.LeftFingers, a.Target.LeftHand,
		a.Target.RightFingers, a.Target.RightHand,
		motion, len(a.Frames), a.Duration())
}

// AnimatorOption is a functional option for configuring an [Animator].
type AnimatorOption func(*Animator)

// WithSpeed sets the transition speed as the fraction of the move completed
// per second. Default: 2.0.
func WithSpeed(speed float64) AnimatorOption {
	return func(a *Animator) {
		if speed > 0 {
			a.speed = speed
		}
	}
}

// Animator plans gesture animations. It is stateless and safe for concurrent
// use.
type Animator struct {
	speed float64
}

// NewAnimator returns an [Animator].
func NewAnimator(opts ...AnimatorOption) *Animator {
	a := &Animator{speed: defaultSpeed}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Plan returns keyframes from the rest pose to gestureID's pose. The hands
// ease in with a smooth-step curve and hold the target for the remainder of
// the clip. Non-positive duration or fps select the defaults.
func (a *Animator) Plan(gestureID string, duration time.Duration, fps int) Animation {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	target, posed := PoseFor(gestureID)

	n := int(math.Round(duration.Seconds()*float64(fps))) + 1
	n = min(max(n, 2), maxFrames)

	frames := make([]Frame, n)
	step := duration / time.Duration(n-1)
	for i := range frames {
		at := step * time.Duration(i)
		if i == n-1 {
			at = duration
		}
		p := SmoothStep(min(at.Seconds()*a.speed, 1))
		frames[i] = Frame{
			AtMS:      at.Milliseconds(),
			Progress:  p,
			LeftHand:  RestPose.LeftHand.Lerp(target.LeftHand, p),
			RightHand: RestPose.RightHand.Lerp(target.RightHand, p),
		}
	}

	return Animation{
		GestureID:  gestureID,
		Target:     target,
		Posed:      posed,
		FPS:        fps,
		DurationMS: duration.Milliseconds(),
		Frames:     frames,
	}
}

// SmoothStep eases t in [0, 1] with zero slope at both ends. Values outside
// the range are clamped.
func SmoothStep(t float64) float64 {
	t = min(max(t, 0), 1)
	return t * t * (3 - 2*t)
}
