package router

import (
	"github.com/sarchlab/vcnoc/datarecording"
	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/sim"
	"github.com/sarchlab/vcnoc/sim/queueing"
)

// The tables that a Recorder writes.
const (
	EventTable           = "router_event"
	BufferAttributeTable = "buffer_attribute"
)

// Event is a row of the router event table.
type Event struct {
	Cycle    uint64
	Location string
	Kind     string
	FlitID   string
	PacketID string
	InDir    string
	InVC     int
	OutDir   string
	OutVC    int
}

// BufferAttribute is a row of the buffer attribute table.
type BufferAttribute struct {
	Buffer string
	Node   int
	Dir    string
	VC     int
}

// Recorder is a hook that stores router events and buffer activities with a
// data recorder.
type Recorder struct {
	recorder datarecording.DataRecorder
	reported map[string]bool
	owners   map[string]*Comp
}

// NewRecorder creates a Recorder and the tables it writes.
func NewRecorder(recorder datarecording.DataRecorder) *Recorder {
	r := &Recorder{
		recorder: recorder,
		reported: make(map[string]bool),
		owners:   make(map[string]*Comp),
	}

	recorder.CreateTable(EventTable, Event{})
	recorder.CreateTable(BufferAttributeTable, BufferAttribute{})

	return r
}

// Attach registers the recorder with the router and all its input buffers.
// The attributes of the buffers are stored once.
func (r *Recorder) Attach(c *Comp) {
	c.AcceptHook(r)

	for dir, perDir := range c.buffers {
		dirName := c.node.PortToDir(dir).String()

		for vc, buf := range perDir {
			r.reportBuffer(c, buf, dirName, vc)
			buf.AcceptHook(r)
			r.owners[buf.Name()] = c
		}
	}
}

func (r *Recorder) reportBuffer(
	c *Comp,
	buf queueing.Buffer[*messaging.Flit],
	dirName string,
	vc int,
) {
	if r.reported[buf.Name()] {
		return
	}

	r.reported[buf.Name()] = true
	r.recorder.InsertData(BufferAttributeTable, BufferAttribute{
		Buffer: buf.Name(),
		Node:   c.node.ID,
		Dir:    dirName,
		VC:     vc,
	})
}

// Func stores the event.
func (r *Recorder) Func(ctx sim.HookCtx) {
	switch domain := ctx.Domain.(type) {
	case *Comp:
		r.recordRouterEvent(domain, ctx)
	case queueing.Buffer[*messaging.Flit]:
		r.recordBufferEvent(domain, ctx)
	}
}

func (r *Recorder) recordRouterEvent(c *Comp, ctx sim.HookCtx) {
	detail, _ := ctx.Detail.(FlitDetail)

	e := Event{
		Cycle:    detail.Cycle,
		Location: c.Name(),
		Kind:     ctx.Pos.Name,
		InDir:    r.dirName(c, detail.In.Dir),
		InVC:     detail.In.VC,
		OutDir:   r.dirName(c, detail.Out.Dir),
		OutVC:    detail.Out.VC,
	}

	switch item := ctx.Item.(type) {
	case *messaging.Flit:
		e.FlitID = item.ID
		e.PacketID = item.Packet.ID
	case *messaging.Packet:
		e.PacketID = item.ID
	}

	r.recorder.InsertData(EventTable, e)
}

func (r *Recorder) recordBufferEvent(
	buf queueing.Buffer[*messaging.Flit],
	ctx sim.HookCtx,
) {
	var kind string

	switch ctx.Pos {
	case queueing.HookPosBufPush:
		kind = "buffer_enqueue_flit"
	case queueing.HookPosBufPop:
		kind = "buffer_dequeue_flit"
	default:
		return
	}

	flit, ok := ctx.Item.(*messaging.Flit)
	if !ok {
		return
	}

	e := Event{
		Location: buf.Name(),
		Kind:     kind,
		FlitID:   flit.ID,
		PacketID: flit.Packet.ID,
		InVC:     -1,
		OutVC:    -1,
	}

	if c, found := r.owners[buf.Name()]; found {
		e.Cycle = c.cycle
	}

	r.recorder.InsertData(EventTable, e)
}

func (r *Recorder) dirName(c *Comp, dir int) string {
	if dir < 0 || dir >= len(c.ports) {
		return ""
	}

	return c.node.PortToDir(dir).String()
}
