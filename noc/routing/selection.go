package routing

// RoundRobinSelection rotates through the routed channels across calls.
// Channels that are not reserved by other packets are preferred.
type RoundRobinSelection struct {
	next int
}

// NewRoundRobinSelection creates a RoundRobinSelection.
func NewRoundRobinSelection() *RoundRobinSelection {
	return &RoundRobinSelection{}
}

// Select picks one routed channel.
func (s *RoundRobinSelection) Select(
	info *Information,
	pInfo *PacketInformation,
) {
	candidates := preferUnoccupied(info, pInfo.RoutedChannels)
	if len(candidates) == 0 {
		pInfo.SelectedChannels = nil
		return
	}

	c := candidates[s.next%len(candidates)]
	s.next++
	pInfo.SelectedChannels = []Channel{c}
}

// OutputRoundRobinSelection keeps a rotation per output direction. The
// packet goes to the first routed direction and the VC rotates within it.
type OutputRoundRobinSelection struct {
	next map[int]int
}

// NewOutputRoundRobinSelection creates an OutputRoundRobinSelection.
func NewOutputRoundRobinSelection() *OutputRoundRobinSelection {
	return &OutputRoundRobinSelection{
		next: make(map[int]int),
	}
}

// Select picks one routed channel.
func (s *OutputRoundRobinSelection) Select(
	info *Information,
	pInfo *PacketInformation,
) {
	candidates := preferUnoccupied(info, pInfo.RoutedChannels)
	if len(candidates) == 0 {
		pInfo.SelectedChannels = nil
		return
	}

	dir := candidates[0].Dir
	sameDir := make([]Channel, 0, len(candidates))
	for _, c := range candidates {
		if c.Dir == dir {
			sameDir = append(sameDir, c)
		}
	}

	c := sameDir[s.next[dir]%len(sameDir)]
	s.next[dir]++
	pInfo.SelectedChannels = []Channel{c}
}

// EmptyFirstSelection prefers channels whose downstream buffer is empty, and
// then channels whose downstream buffer is ready to accept a flit.
type EmptyFirstSelection struct{}

// NewEmptyFirstSelection creates an EmptyFirstSelection.
func NewEmptyFirstSelection() *EmptyFirstSelection {
	return &EmptyFirstSelection{}
}

// Select picks one routed channel.
func (s *EmptyFirstSelection) Select(
	info *Information,
	pInfo *PacketInformation,
) {
	candidates := preferUnoccupied(info, pInfo.RoutedChannels)
	if len(candidates) == 0 {
		pInfo.SelectedChannels = nil
		return
	}

	for _, c := range candidates {
		if info.EmptyIn[c] {
			pInfo.SelectedChannels = []Channel{c}
			return
		}
	}

	for _, c := range candidates {
		if info.FlowIn[c] {
			pInfo.SelectedChannels = []Channel{c}
			return
		}
	}

	pInfo.SelectedChannels = []Channel{candidates[0]}
}

// preferUnoccupied returns the sorted channels that are not reserved. If all
// of them are reserved, it returns all of them sorted.
func preferUnoccupied(info *Information, channels []Channel) []Channel {
	sorted := make([]Channel, len(channels))
	copy(sorted, channels)
	SortChannels(sorted)

	free := make([]Channel, 0, len(sorted))
	for _, c := range sorted {
		if !info.Occupied(c) {
			free = append(free, c)
		}
	}

	if len(free) > 0 {
		return free
	}

	return sorted
}
