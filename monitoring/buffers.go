package monitoring

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/sarchlab/vcnoc/sim/queueing"
)

type bufferLevel struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

type bufferQuery struct {
	sortBy string
	limit  int
	offset int
}

// hangDetectorBuffers lists the fullest buffers. A router that stops making
// progress shows up as input buffers that stay full.
func (m *Monitor) hangDetectorBuffers(w http.ResponseWriter, r *http.Request) {
	q, err := parseBufferQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	selected := m.sortAndSelectBuffers(q.sortBy, q.limit, q.offset)

	levels := make([]bufferLevel, 0, len(selected))
	for _, b := range selected {
		levels = append(levels, bufferLevel{
			Buffer: b.Name(),
			Level:  b.Occupied(),
			Cap:    b.Capacity(),
		})
	}

	writeJSON(w, levels)
}

func parseBufferQuery(r *http.Request) (bufferQuery, error) {
	q := bufferQuery{sortBy: r.URL.Query().Get("sort")}
	if q.sortBy == "" {
		q.sortBy = "percent"
	}

	if q.sortBy != "level" && q.sortBy != "percent" {
		return q, fmt.Errorf(
			"invalid sort method %q, allowed values are level and percent",
			q.sortBy)
	}

	var err error

	if q.limit, err = intParam(r, "limit"); err != nil {
		return q, err
	}

	if q.offset, err = intParam(r, "offset"); err != nil {
		return q, err
	}

	return q, nil
}

func intParam(r *http.Request, name string) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("%s cannot be negative", name)
	}

	return n, nil
}

func bufferPercent(b queueing.Gauge) float64 {
	if b.Capacity() == 0 {
		return 0
	}

	return float64(b.Occupied()) / float64(b.Capacity())
}

// sortAndSelectBuffers returns a page of the buffers, fullest first. A limit
// of zero selects all the buffers after the offset.
func (m *Monitor) sortAndSelectBuffers(
	sortBy string,
	limit, offset int,
) []queueing.Gauge {
	bufs := make([]queueing.Gauge, len(m.buffers))
	copy(bufs, m.buffers)

	byLevel := func(i, j int) (less, decided bool) {
		li, lj := bufs[i].Occupied(), bufs[j].Occupied()
		return li > lj, li != lj
	}

	byPercent := func(i, j int) (less, decided bool) {
		pi, pj := bufferPercent(bufs[i]), bufferPercent(bufs[j])
		return pi > pj, pi != pj
	}

	first, second := byPercent, byLevel

	switch sortBy {
	case "level":
		first, second = byLevel, byPercent
	case "percent":
	default:
		panic("invalid sort method " + sortBy)
	}

	sort.SliceStable(bufs, func(i, j int) bool {
		if less, decided := first(i, j); decided {
			return less
		}

		less, _ := second(i, j)

		return less
	})

	offset = min(offset, len(bufs))

	end := len(bufs)
	if limit > 0 {
		end = min(offset+limit, end)
	}

	return bufs[offset:end]
}
