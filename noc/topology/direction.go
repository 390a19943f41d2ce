package topology

import "strings"

// Direction is the compass direction of a link as seen from a node.
type Direction int

// The directions a node can connect to.
const (
	Local Direction = iota
	East
	West
	North
	South
	Up
	Down
)

var directionNames = []string{
	"Local", "East", "West", "North", "South", "Up", "Down",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "Invalid"
	}

	return directionNames[d]
}

// ParseDirection converts a direction name to a Direction. The match is case
// insensitive.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if strings.EqualFold(name, s) {
			return Direction(i), true
		}
	}

	return -1, false
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	switch d {
	case East:
		return West
	case West:
		return East
	case North:
		return South
	case South:
		return North
	case Up:
		return Down
	case Down:
		return Up
	default:
		return Local
	}
}

// Vec3 is the position of a node in the mesh.
type Vec3 struct {
	X, Y, Z int
}
