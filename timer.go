package vl53l0x

import (
	"fmt"
	"time"
)

// pollInterval is the pause between register reads in polling loops
const pollInterval = 1 * time.Millisecond

// clock is the time source used by the timeout guard
type clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// realClock uses the system monotonic clock
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// SetTimeout set the timeout duration for polling sensor registers, a zero
// duration disables the timeout
func (v *VL53L0X) SetTimeout(timeout time.Duration) {
	v.ioTimeout = timeout
}

// GetTimeout returns the current polling timeout
func (v *VL53L0X) GetTimeout() time.Duration {
	return v.ioTimeout
}

// TimeoutOccurred reports whether a timeout has occurred since the last call
func (v *VL53L0X) TimeoutOccurred() bool {
	tmp := v.didTimeout
	v.didTimeout = false
	return tmp
}

// startTimeout starts the timeout counter
func (v *VL53L0X) startTimeout() {
	v.timeoutStart = v.clock.Now()
}

// checkTimeoutExpired checks if timeout has expired
func (v *VL53L0X) checkTimeoutExpired() bool {
	return (v.ioTimeout > 0) && (v.clock.Now().Sub(v.timeoutStart) > v.ioTimeout)
}

// pollUntil reads reg until done returns true for its value. On expiry of the
// timeout an error wrapping ErrTimeout is returned which names what was being
// waited for.
func (v *VL53L0X) pollUntil(reg uint8, done func(uint8) bool, waitingFor string) error {

	v.startTimeout()

	for {
		val, err := v.readReg(reg)

		if err != nil {
			return err
		}

		if done(val) {
			return nil
		}

		if v.checkTimeoutExpired() {
			v.didTimeout = true
			v.log.Printf("Timeout waiting for %s", waitingFor)
			return fmt.Errorf("%w waiting for %s", ErrTimeout, waitingFor)
		}

		v.clock.Sleep(pollInterval)
	}
}
