// Package animate turns matched gestures into stick-figure animations.
//
// Each gesture id maps to a [Pose]: target hand positions plus finger shapes.
// Gestures without a dedicated pose use [RestPose]. An [Animator] plans a
// keyframe sequence from the rest pose to the target, and a [Hub] fans
// animation events out to websocket subscribers such as the ishara-avatar
// command. Nothing in this package feeds back into matching.
package animate

// Vec3 is a position in character space: x to the right, y up, z towards the
// viewer. The torso centre is at the origin.
type Vec3 [3]float64

// Lerp returns the point a fraction t of the way from v to w.
func (v Vec3) Lerp(w Vec3, t float64) Vec3 {
	return Vec3{
		v[0]*(1-t) + w[0]*t,
		v[1]*(1-t) + w[1]*t,
		v[2]*(1-t) + w[2]*t,
	}
}

// Pose is the target configuration of both hands for one gesture.
type Pose struct {
	LeftHand     Vec3   `json:"left_hand"`
	RightHand    Vec3   `json:"right_hand"`
	LeftFingers  string `json:"left_fingers"`
	RightFingers string `json:"right_fingers"`

	// Wave marks gestures performed with a waving motion.
	Wave bool `json:"wave,omitempty"`

	// Kind names a compound motion (e.g. "drinking", "help_needed").
	Kind string `json:"gesture_type,omitempty"`
}

// RestPose is the neutral stance every animation starts from and the pose
// used for gestures without a dedicated entry.
var RestPose = Pose{
	LeftHand:     Vec3{-1.0, 0.5, 0},
	RightHand:    Vec3{1.0, 0.5, 0},
	LeftFingers:  "relaxed",
	RightFingers: "relaxed",
}

var poses = map[string]Pose{
	// Numbers are counted on the left hand.
	"ek":     counting("index_up"),
	"do":     counting("two_fingers"),
	"teen":   counting("three_fingers"),
	"chaar":  counting("four_fingers"),
	"paanch": counting("open_hand"),

	"salam":       {LeftHand: Vec3{-0.3, 1.2, 0}, RightHand: Vec3{0.3, 1.2, 0}, LeftFingers: "open_hand", RightFingers: "open_hand", Wave: true},
	"khuda_hafiz": {LeftHand: Vec3{-0.4, 1.3, 0}, RightHand: Vec3{0.4, 1.3, 0}, LeftFingers: "open_hand", RightFingers: "open_hand", Wave: true},
	"shukriya":    {LeftHand: Vec3{-0.2, 0.8, 0}, RightHand: Vec3{0.2, 0.8, 0}, LeftFingers: "open_hand", RightFingers: "open_hand"},

	"ammi": {LeftHand: Vec3{-0.3, 1.1, 0}, RightHand: Vec3{0.3, 1.1, 0}, LeftFingers: "pointing", RightFingers: "heart_shape"},
	"abbu": {LeftHand: Vec3{-0.3, 1.1, 0}, RightHand: Vec3{0.3, 1.1, 0}, LeftFingers: "thumbs_up", RightFingers: "pointing"},
	"bhai": {LeftHand: Vec3{-0.4, 1.0, 0}, RightHand: Vec3{0.4, 1.0, 0}, LeftFingers: "fist", RightFingers: "fist", Kind: "brotherhood"},
	"behn": {LeftHand: Vec3{-0.3, 1.2, 0}, RightHand: Vec3{0.3, 1.2, 0}, LeftFingers: "gentle_wave", RightFingers: "gentle_wave"},

	"paani": {LeftHand: Vec3{-0.2, 0.9, 0}, RightHand: Vec3{0.2, 0.9, 0}, LeftFingers: "cup_shape", RightFingers: "pouring", Kind: "drinking"},
	"khana": {LeftHand: Vec3{-0.2, 0.8, 0}, RightHand: Vec3{0.2, 0.8, 0}, LeftFingers: "open_hand", RightFingers: "eating_motion", Kind: "eating"},
	"madad": {LeftHand: Vec3{-0.5, 1.2, 0}, RightHand: Vec3{0.5, 1.2, 0}, LeftFingers: "open_hand", RightFingers: "open_hand", Kind: "help_needed"},

	"parhna": {LeftHand: Vec3{-0.3, 0.9, 0}, RightHand: Vec3{0.3, 0.9, 0}, LeftFingers: "book_hold", RightFingers: "page_turn"},
	"likhna": {LeftHand: Vec3{-0.2, 0.8, 0}, RightHand: Vec3{0.2, 0.8, 0}, LeftFingers: "paper_hold", RightFingers: "pen_grip"},
	"sunna":  {LeftHand: Vec3{-0.7, 1.1, 0}, RightHand: Vec3{0.7, 1.1, 0}, LeftFingers: "cupped_ear", RightFingers: "cupped_ear"},
	"bolna":  {LeftHand: Vec3{-0.3, 1.0, 0}, RightHand: Vec3{0.2, 1.0, 0}, LeftFingers: "open_hand", RightFingers: "near_mouth"},
}

func counting(fingers string) Pose {
	return Pose{
		LeftHand:     Vec3{-0.5, 1.0, 0},
		RightHand:    Vec3{0.5, 1.0, 0},
		LeftFingers:  fingers,
		RightFingers: "fist",
	}
}

// PoseFor returns the pose for gestureID. ok is false when the gesture has
// no dedicated pose, in which case [RestPose] is returned.
func PoseFor(gestureID string) (p Pose, ok bool) {
	p, ok = poses[gestureID]
	if !ok {
		return RestPose, false
	}
	return p, true
}

// PosedGestures returns the number of gestures with a dedicated pose.
func PosedGestures() int { return len(poses) }
