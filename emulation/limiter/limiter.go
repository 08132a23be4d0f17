// This file is part of Gopherboy.
//
// Gopherboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherboy.  If not, see <https://www.gnu.org/licenses/>.

package limiter

import (
	"sync/atomic"
	"time"
)

// RefreshRate is the number of frames per second produced by the Game Boy
// LCD. The Super Game Boy runs slightly faster but that is not emulated.
const RefreshRate float32 = 59.7275

// DefaultMeasurePeriod is the period over which the actual frame rate is
// measured if no other period is specified.
const DefaultMeasurePeriod = 500 * time.Millisecond

// Limiter keeps the emulation running at the requested number of frames per
// second and measures the actual number of frames per second.
type Limiter struct {
	// whether to wait for fps limited each frame
	Active atomic.Bool

	// the ideal number of frames per second if everything was working nicely
	IdealFPS atomic.Value // float32

	// pulse that performs the limiting. the duration of the ticker will be set
	// when SetLimit() is called with a new fps value
	pulse *time.Ticker

	// we don't want to wait on the pulse every frame because the ticker isn't
	// accurate enough at short durations. a simple counter means that we wait
	// once every few frames
	pulseCt      int
	pulseCtLimit int

	// pulse that performs the FPS measurement
	measuringPulse *time.Ticker

	// the measured FPS is the number of frames divided by the amount of
	// elapsed time since the previous measurement
	measureTime time.Time
	measureCt   int

	// the measured number of frames per second
	Measured atomic.Value // float32

	// nudge the limiter so that it doesn't wait for the specified number of
	// frames
	Nudge atomic.Int32
}

// NewLimiter is preferred method of initialising a new instance of the Limiter
// type. The limit is set to the RefreshRate and the actual frame rate is
// measured every measurePeriod.
func NewLimiter(measurePeriod time.Duration) *Limiter {
	if measurePeriod <= 0 {
		measurePeriod = DefaultMeasurePeriod
	}

	lmtr := Limiter{}
	lmtr.Active.Store(true)
	lmtr.Measured.Store(float32(0.0))

	lmtr.pulse = time.NewTicker(time.Millisecond * 16)
	lmtr.measuringPulse = time.NewTicker(measurePeriod)

	lmtr.SetLimit(RefreshRate)

	return &lmtr
}

// SetLimit sets the number of frames per second. Values of zero or less set
// the limit to the RefreshRate.
func (lmtr *Limiter) SetLimit(fps float32) {
	if fps <= 0.0 {
		fps = RefreshRate
	}

	lmtr.IdealFPS.Store(fps)

	// set scale and duration to wait according to requested FPS rate
	lmtr.pulseCt = 0
	lmtr.pulseCtLimit = 1 + int(fps/20)
	lmtr.pulse.Stop()
	lmtr.pulse.Reset(time.Duration(1000000000 / fps * float32(lmtr.pulseCtLimit)))

	// restart acutal FPS rate measurement values
	lmtr.measureCt = 0
	lmtr.measureTime = time.Now()
}

// CheckFrame should be called every frame.
func (lmtr *Limiter) CheckFrame() {
	lmtr.measureCt++

	nudge := lmtr.Nudge.Load()
	if nudge > 0 {
		lmtr.Nudge.Store(nudge - 1)
		return
	}

	if lmtr.Active.Load() {
		lmtr.pulseCt++
		if lmtr.pulseCt >= lmtr.pulseCtLimit {
			lmtr.pulseCt = 0
			<-lmtr.pulse.C
		}
	}
}

// MeasureActual measures frame rate on every tick of the measuringPulse
// ticker. Returns true if a new measurement has been made.
func (lmtr *Limiter) MeasureActual() bool {
	select {
	case <-lmtr.measuringPulse.C:
		t := time.Now()
		m := float32(lmtr.measureCt) / float32(t.Sub(lmtr.measureTime).Seconds())
		lmtr.Measured.Store(m)

		// reset time and count ready for next measurement
		lmtr.measureTime = t
		lmtr.measureCt = 0
		return true
	default:
	}
	return false
}

// ResetMeasurement restarts the measurement of the actual frame rate. Should
// be called when the emulation resumes after being paused.
func (lmtr *Limiter) ResetMeasurement() {
	lmtr.measureCt = 0
	lmtr.measureTime = time.Now()
}

// Speed returns the measured frame rate as a fraction of the RefreshRate of
// the real hardware.
func (lmtr *Limiter) Speed() float64 {
	return float64(lmtr.Measured.Load().(float32)) / float64(RefreshRate)
}

// Stop the tickers used by the limiter. The limiter should not be used after
// calling Stop().
func (lmtr *Limiter) Stop() {
	lmtr.pulse.Stop()
	lmtr.measuringPulse.Stop()
}
