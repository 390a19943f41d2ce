package monitoring

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/syifan/goseth"

	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/sim"
)

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Named {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

// serialize writes one level of the component, starting from the dotted
// field path if one is given.
func serialize(w http.ResponseWriter, c sim.Named, field string) error {
	s := goseth.NewSerializer()
	s.SetRoot(c)
	s.SetMaxDepth(1)

	if field != "" {
		err := s.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "application/json")

	return s.Serialize(w)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	c := m.findComponentOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	dieOnErr(serialize(w, c, ""))
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	c := m.findComponentOr404(w, req.CompName)
	if c == nil {
		return
	}

	err = serialize(w, c, req.FieldName)
	if err != nil {
		badRequest(w, err)
	}
}

type statisticsOwner interface {
	Stats() *router.Statistics
}

func (m *Monitor) reportStatistics(w http.ResponseWriter, r *http.Request) {
	c := m.findComponentOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	owner, ok := c.(statisticsOwner)
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, owner.Stats().Snapshot())
}
