// internal/motion/mock.go
package motion

import "math"

// MockAccelerometer produces a deterministic wave for benches without a sensor.
// Each read advances the phase by one step.
type MockAccelerometer struct {
	RateHz uint8
	t      float64
}

func (m *MockAccelerometer) Begin() error {
	m.t = 0
	return nil
}

func (m *MockAccelerometer) ReadG() (float64, float64, float64, error) {
	x := 0.200 * math.Sin(m.t*0.1)
	y := 0.150 * math.Sin(m.t*0.07+1.0)
	z := 1.000 + 0.050*math.Sin(m.t*0.05+2.0)
	m.t++
	return x, y, z, nil
}

func (m *MockAccelerometer) SampleRateHz() uint8 {
	if m.RateHz == 0 {
		return 100
	}
	return m.RateHz
}
