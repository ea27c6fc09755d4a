// Package profile selects between runtime profiling via pkg/profile
// and Gio's per-frame timing recorder behind one flag-friendly option.
package profile

import (
	"log"

	"gioui.org/layout"
	"gioui.org/x/profiling"
	"github.com/pkg/profile"
)

// Opt names a profiling mode, suitable for a command line flag.
type Opt string

const (
	None      Opt = "none"
	CPU       Opt = "cpu"
	Memory    Opt = "mem"
	Block     Opt = "block"
	Goroutine Opt = "goroutine"
	Mutex     Opt = "mutex"
	Trace     Opt = "trace"
	// Gio records per-frame GUI timings to CSV instead of a runtime
	// profile.
	Gio Opt = "gio"
)

// Profiler runs one profiling mode across the life of the app.
type Profiler struct {
	Type Opt

	begin    func() (stop func())
	stop     func()
	recorder func(gtx layout.Context)
}

// Start begins collection.
func (p *Profiler) Start() {
	if p.begin != nil {
		p.stop = p.begin()
	}
}

// Stop flushes and ends collection.
func (p *Profiler) Stop() {
	if p.stop != nil {
		p.stop()
	}
}

// Record captures per-frame stats for modes that want them. Call once
// per frame after layout.
func (p *Profiler) Record(gtx layout.Context) {
	if p.recorder != nil {
		p.recorder(gtx)
	}
}

// NewProfiler builds the profiler for the option. Unknown options
// profile nothing.
func (o Opt) NewProfiler() Profiler {
	switch o {
	case CPU:
		return runtimeProfiler(o, profile.CPUProfile)
	case Memory:
		return runtimeProfiler(o, profile.MemProfile)
	case Block:
		return runtimeProfiler(o, profile.BlockProfile)
	case Goroutine:
		return runtimeProfiler(o, profile.GoroutineProfile)
	case Mutex:
		return runtimeProfiler(o, profile.MutexProfile)
	case Trace:
		return runtimeProfiler(o, profile.TraceProfile)
	case Gio:
		return gioProfiler()
	}
	return Profiler{Type: o}
}

func runtimeProfiler(o Opt, mode func(*profile.Profile)) Profiler {
	return Profiler{
		Type: o,
		begin: func() func() {
			return profile.Start(mode).Stop
		},
	}
}

func gioProfiler() Profiler {
	var recorder *profiling.CSVTimingRecorder
	return Profiler{
		Type: Gio,
		begin: func() func() {
			var err error
			recorder, err = profiling.NewRecorder(nil)
			if err != nil {
				log.Printf("starting frame recorder: %v", err)
			}
			return func() {
				if recorder == nil {
					return
				}
				if err := recorder.Stop(); err != nil {
					log.Printf("stopping frame recorder: %v", err)
				}
			}
		},
		recorder: func(gtx layout.Context) {
			if recorder != nil {
				recorder.Profile(gtx)
			}
		},
	}
}
