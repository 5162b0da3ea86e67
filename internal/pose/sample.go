// Package pose models the joint positions delivered by the pose-estimation
// pipeline. Coordinates are normalized to the frame: x and y in [0,1], with y
// increasing downward.
package pose

import "fmt"

// Joint identifies one of the tracked body joints.
type Joint int

const (
	Neck Joint = iota
	LeftShoulder
	RightShoulder
	LeftWrist
	RightWrist
	jointCount
)

var jointNames = [jointCount]string{
	"neck", "left_shoulder", "right_shoulder", "left_wrist", "right_wrist",
}

// Joints lists every tracked joint in a stable order.
var Joints = []Joint{Neck, LeftShoulder, RightShoulder, LeftWrist, RightWrist}

func (j Joint) String() string {
	if j < 0 || j >= jointCount {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

// ParseJoint maps a feed name such as "left_wrist" to its Joint.
func ParseJoint(name string) (Joint, bool) {
	for i, n := range jointNames {
		if n == name {
			return Joint(i), true
		}
	}
	return 0, false
}

// Point is a normalized 2-D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is one frame's worth of joints. Each joint is either present with a
// coordinate or absent; absent joints have no position at all, not a zero one.
// The zero Sample has every joint absent. Sample is a value and copies freely.
type Sample struct {
	points  [jointCount]Point
	present [jointCount]bool
}

// With returns a copy of s with j set to p.
func (s Sample) With(j Joint, p Point) Sample {
	if j >= 0 && j < jointCount {
		s.points[j] = p
		s.present[j] = true
	}
	return s
}

// Without returns a copy of s with j absent.
func (s Sample) Without(j Joint) Sample {
	if j >= 0 && j < jointCount {
		s.points[j] = Point{}
		s.present[j] = false
	}
	return s
}

// Get returns the position of j and whether it was detected this frame.
func (s Sample) Get(j Joint) (Point, bool) {
	if j < 0 || j >= jointCount || !s.present[j] {
		return Point{}, false
	}
	return s.points[j], true
}

// Len returns the number of joints present.
func (s Sample) Len() int {
	n := 0
	for _, ok := range s.present {
		if ok {
			n++
		}
	}
	return n
}

// ShoulderNeckAverage returns the mean y of the neck and both shoulders.
// It reports false when any of the three is missing.
func ShoulderNeckAverage(s Sample) (float64, bool) {
	n, ok1 := s.Get(Neck)
	l, ok2 := s.Get(LeftShoulder)
	r, ok3 := s.Get(RightShoulder)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return (n.Y + l.Y + r.Y) / 3, true
}

// BarMidpoint returns the normalized y of the midpoint between the two ends
// of the reference bar.
func BarMidpoint(a, b Point) float64 {
	return (a.Y + b.Y) / 2
}
