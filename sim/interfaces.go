// Package sim owns the simulation session: the double-buffered grid, the
// active rules and kernel, the palette and the update scheduler. Rendering
// and shader parameters are reached only through the Surface and
// ParameterSink interfaces so the session runs the same with or without a
// window.
package sim

import "github.com/pthm-cable/cellular/rules"

// Uniform names pushed to the ParameterSink.
const (
	UniformRadius        = "radius"
	UniformIncludeCenter = "includeCenter"
	UniformSurviveRange  = "surviveRange"
	UniformBirthRange    = "birthRange"
	UniformBoundary      = "boundary"
	UniformKernel        = "kernel"
	UniformAliveColor    = "aliveColor"
	UniformDeadColor     = "deadColor"
)

// KernelUniformLen is the fixed length of the kernel uniform array: the
// footprint of the largest supported radius. Smaller kernels are zero padded.
const KernelUniformLen = (2*rules.MaxRadius + 1) * (2*rules.MaxRadius + 1)

// Surface receives each generation as soon as it is written. index is the
// slot (0 or 1) of the buffer in the ping-pong pair.
type Surface interface {
	Upload(index int, cells []uint8)
}

// ParameterSink accepts named shader parameters.
type ParameterSink interface {
	SetInt(name string, v int)
	SetVec2(name string, x, y float32)
	SetVec3(name string, v [3]float32)
	SetFloats(name string, v []float32)
}

type nopSurface struct{}

func (nopSurface) Upload(int, []uint8) {}

type nopSink struct{}

func (nopSink) SetInt(string, int)               {}
func (nopSink) SetVec2(string, float32, float32) {}
func (nopSink) SetVec3(string, [3]float32)       {}
func (nopSink) SetFloats(string, []float32)      {}
