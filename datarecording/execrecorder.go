package datarecording

import (
	"os"
	"runtime"
	"strings"
	"time"
)

// ExecInfo is a property of the program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecInfoTable holds the ExecInfo entries of a recording.
const ExecInfoTable = "exec_info"

const execTimeFormat = "2006-01-02 15:04:05.000000000"

// execRecorder collects the properties of the run and writes them when the
// recording ends, so that a recording says how it was produced.
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &execRecorder{recorder: recorder}
}

// Set adds a property. Setting a property again replaces its value.
func (e *execRecorder) Set(property, value string) {
	for i := range e.entries {
		if e.entries[i].Property == property {
			e.entries[i].Value = value
			return
		}
	}

	e.entries = append(e.entries, ExecInfo{property, value})
}

// Start records the command line and the environment of the process.
func (e *execRecorder) Start() {
	e.Set("Start Time", time.Now().Format(execTimeFormat))
	e.Set("Command", strings.Join(os.Args, " "))
	e.Set("Go Version", runtime.Version())

	if wd, err := os.Getwd(); err == nil {
		e.Set("Working Directory", wd)
	}

	if host, err := os.Hostname(); err == nil {
		e.Set("Host", host)
	}
}

// End writes the properties along with the end time.
func (e *execRecorder) End() {
	e.Set("End Time", time.Now().Format(execTimeFormat))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.entries = nil
}
