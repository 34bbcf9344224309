package vl53l0x

// rangingState is the progress of a range measurement
type rangingState uint8

const (
	stateIdle rangingState = iota
	stateStarting
	stateWaitingForStart
	stateWaitingForResult
)

// String implement Stringer interface for rangingState
func (s rangingState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStarting:
		return "starting"
	case stateWaitingForStart:
		return "waiting for start"
	case stateWaitingForResult:
		return "waiting for result"
	default:
		return "unknown"
	}
}

// rangeOffset is the offset of the range in millimeters within the
// RESULT_RANGE_STATUS block
const rangeOffset = 10

// Sample performs a single-shot range measurement and returns the distance
// in millimeters. On error no measurement is returned and the sensor remains
// usable for the next call.
func (v *VL53L0X) Sample() (uint16, error) {
	return v.ReadRangeSingleMillimeters()
}

// ReadRangeSingleMillimeters performs a single-shot range measurement and
// returns the reading in millimeters based on
// VL53L0X_PerformSingleRangingMeasurement()
func (v *VL53L0X) ReadRangeSingleMillimeters() (uint16, error) {

	defer v.setState(stateIdle)

	v.setState(stateStarting)

	if err := v.writeStopVariable(v.stopVariable); err != nil {
		return 0, err
	}

	if err := v.writeReg(SYSRANGE_START, 0x01); err != nil {
		return 0, err
	}

	// wait until start bit has been cleared
	v.setState(stateWaitingForStart)

	err := v.pollUntil(SYSRANGE_START, func(val uint8) bool {
		return val&0x01 == 0
	}, "range start")

	if err != nil {
		return 0, err
	}

	return v.readRange()
}

// StartContinuous begins continuous ranging. If periodMs is zero the sensor
// ranges back-to-back as fast as possible, otherwise measurements are taken
// every periodMs milliseconds. Based on VL53L0X_StartMeasurement()
func (v *VL53L0X) StartContinuous(periodMs uint32) error {

	v.log.Printf("Start continuous mode, period %dms", periodMs)

	if err := v.writeStopVariable(v.stopVariable); err != nil {
		return err
	}

	if periodMs == 0 {
		// VL53L0X_REG_SYSRANGE_MODE_BACKTOBACK
		return v.writeReg(SYSRANGE_START, 0x02)
	}

	// continuous timed mode, the period is given in oscillator ticks
	oscCalibrateVal, err := v.readReg16Bit(OSC_CALIBRATE_VAL)

	if err != nil {
		return err
	}

	if oscCalibrateVal != 0 {
		periodMs *= uint32(oscCalibrateVal)
	}

	if err := v.writeReg32Bit(SYSTEM_INTERMEASUREMENT_PERIOD, periodMs); err != nil {
		return err
	}

	// VL53L0X_REG_SYSRANGE_MODE_TIMED
	return v.writeReg(SYSRANGE_START, 0x04)
}

// StopContinuous stops continuous ranging based on VL53L0X_StopMeasurement()
func (v *VL53L0X) StopContinuous() error {

	v.log.Print("Stop continuous mode")

	// VL53L0X_REG_SYSRANGE_MODE_SINGLESHOT
	if err := v.writeReg(SYSRANGE_START, 0x01); err != nil {
		return err
	}

	return v.writeSequence([]regWrite{
		{regPageSelect, 0x01},
		{0x00, 0x00},
		{regStopVariable, 0x00},
		{0x00, 0x01},
		{regPageSelect, 0x00},
	})
}

// ReadRangeContinuousMillimeters returns a range reading in millimeters
// when continuous mode is active
func (v *VL53L0X) ReadRangeContinuousMillimeters() (uint16, error) {

	defer v.setState(stateIdle)

	return v.readRange()
}

// readRange waits for a measurement to complete, reads the range and clears
// the interrupt
func (v *VL53L0X) readRange() (uint16, error) {

	v.setState(stateWaitingForResult)

	err := v.pollUntil(RESULT_INTERRUPT_STATUS, func(val uint8) bool {
		return val&0x07 != 0
	}, "range result")

	if err != nil {
		return 0, err
	}

	// assumptions: Linearity Corrective Gain is 1000 (default) and
	// fractional ranging is not enabled
	rangeMM, err := v.readReg16Bit(RESULT_RANGE_STATUS + rangeOffset)

	if err != nil {
		return 0, err
	}

	if err := v.writeReg(SYSTEM_INTERRUPT_CLEAR, 0x01); err != nil {
		return 0, err
	}

	return rangeMM, nil
}

// writeStopVariable writes the stop variable captured during bring-up, this
// is required by the device before each measurement is started
func (v *VL53L0X) writeStopVariable(stop uint8) error {

	if err := v.writeSequence(internalModeEnter); err != nil {
		return err
	}

	if err := v.writeReg(regStopVariable, stop); err != nil {
		return err
	}

	return v.writeSequence(standardModeExit)
}

func (v *VL53L0X) setState(s rangingState) {
	v.state = s
}
