package scene

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// FrameStats summarizes the volumes built for one frame.
type FrameStats struct {
	Lights    int
	Casters   int
	Volumes   int // Non-empty group volumes
	Vertices  int // Side vertices
	Indices   int // Side and cap indices
	DepthFail int // Caster-light pairs using depth-fail
	DepthPass int // Caster-light pairs using depth-pass
	DrawCalls int
	Duration  time.Duration
}

// Add accumulates o into s. Lights and Casters are left alone.
func (s *FrameStats) Add(o FrameStats) {
	s.Volumes += o.Volumes
	s.Vertices += o.Vertices
	s.Indices += o.Indices
	s.DepthFail += o.DepthFail
	s.DepthPass += o.DepthPass
	s.DrawCalls += o.DrawCalls
	s.Duration += o.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s FrameStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("lights", s.Lights)
	enc.AddInt("casters", s.Casters)
	enc.AddInt("volumes", s.Volumes)
	enc.AddInt("vertices", s.Vertices)
	enc.AddInt("indices", s.Indices)
	enc.AddInt("depth_fail", s.DepthFail)
	enc.AddInt("depth_pass", s.DepthPass)
	enc.AddInt("draw_calls", s.DrawCalls)
	enc.AddDuration("duration", s.Duration)
	return nil
}
