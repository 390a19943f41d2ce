package routing

import (
	"fmt"
	"sort"
)

// A Channel addresses one virtual channel on one port of a router. It is used
// on both the input and the output side.
type Channel struct {
	Dir int
	VC  int
}

// InvalidChannel marks a channel that is not assigned.
var InvalidChannel = Channel{Dir: -1, VC: -1}

// Valid checks if the channel points to a port.
func (c Channel) Valid() bool {
	return c.Dir >= 0 && c.VC >= 0
}

func (c Channel) String() string {
	return fmt.Sprintf("(%d,%d)", c.Dir, c.VC)
}

// less orders channels by direction and then by VC.
func (c Channel) less(o Channel) bool {
	if c.Dir != o.Dir {
		return c.Dir < o.Dir
	}

	return c.VC < o.VC
}

// SortChannels sorts channels by direction and then by VC.
func SortChannels(channels []Channel) {
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].less(channels[j])
	})
}
