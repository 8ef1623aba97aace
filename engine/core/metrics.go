package core

import "github.com/spaghettifunk/anima-scenes/engine/containers"

const AVG_COUNT int = 30

// How often FPS is re-sampled, in seconds.
const FPS_SAMPLE_SECONDS float64 = 0.25

/**
 * @brief Frame timing statistics: a rolling frame-time average over the
 * last AVG_COUNT frames and a frames-per-second figure re-sampled every
 * FPS_SAMPLE_SECONDS.
 */
type Metrics struct {
	frameTimes      *containers.RingQueue[float64]
	msSum           float64
	MSavg           float64
	Frames          int32
	AccumulatedTime float64
	FPS             float64
}

func NewMetrics() *Metrics {
	return &Metrics{frameTimes: containers.NewRingQueue[float64](AVG_COUNT)}
}

// Update records one frame. It returns true when a new FPS sample is ready.
func (m *Metrics) Update(frame_elapsed_time float64) bool {
	// Calculate frame ms average
	frame_ms := frame_elapsed_time * 1000.0
	if evicted, ok := m.frameTimes.Push(frame_ms); ok {
		m.msSum -= evicted
	}
	m.msSum += frame_ms
	m.MSavg = m.msSum / float64(m.frameTimes.Len())

	// Count all Frames.
	m.Frames++
	m.AccumulatedTime += frame_elapsed_time
	if m.AccumulatedTime > FPS_SAMPLE_SECONDS {
		m.FPS = float64(m.Frames) / m.AccumulatedTime
		m.AccumulatedTime = 0
		m.Frames = 0
		return true
	}
	return false
}

// FrameTime returns the average frame time in milliseconds.
func (m *Metrics) FrameTime() float64 {
	return m.MSavg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.FPS, m.MSavg
}
