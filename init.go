package vl53l0x

import (
	"fmt"
)

const (
	// vhvCalibrationMode is the SYSRANGE_START mode byte for the VHV
	// reference calibration
	vhvCalibrationMode uint8 = 0x40
	// phaseCalibrationMode is the SYSRANGE_START mode byte for the phase
	// reference calibration
	phaseCalibrationMode uint8 = 0x00

	// sequenceAll enables every sequence step
	sequenceAll uint8 = 0xFF
	// sequenceDefault enables DSS, pre-range and final range, leaving MSRC
	// and TCC disabled
	sequenceDefault uint8 = 0xE8
	// sequenceVHV and sequencePhase select the single calibration step run
	sequenceVHV   uint8 = 0x01
	sequencePhase uint8 = 0x02
)

// Init initialize sensor using sequence based on VL53L0X_DataInit(),
// VL53L0X_StaticInit(), and VL53L0X_PerformRefCalibration()
func (v *VL53L0X) Init() error {

	if v.initialized {
		return fmt.Errorf("device already initialized")
	}

	err := v.dataInit()

	if err != nil {
		return fmt.Errorf("Error on dataInit(), %w", err)
	}

	err = v.staticInit()

	if err != nil {
		return fmt.Errorf("Error on staticInit(), %w", err)
	}

	err = v.refCalibration()

	if err != nil {
		return fmt.Errorf("Error on refCalibration(), %w", err)
	}

	v.initialized = true
	return nil
}

// checkModelID verifies the identification registers hold the VL53L0X
// signature
func (v *VL53L0X) checkModelID() error {

	var id [3]uint8

	for i := range id {
		val, err := v.readReg(IDENTIFICATION_MODEL_ID + uint8(i))

		if err != nil {
			return err
		}

		id[i] = val
	}

	if id != modelSignature {
		return fmt.Errorf("%w: 0x%X 0x%X 0x%X", ErrRegisterIDMismatch, id[0], id[1], id[2])
	}

	return nil
}

// dataInit implements VL53L0X_DataInit() from the ST API
func (v *VL53L0X) dataInit() error {

	// check model ID registers (values specified in datasheet)
	if err := v.checkModelID(); err != nil {
		return err
	}

	// "Set I2C standard mode"
	if err := v.writeSequence(standardModeEnter); err != nil {
		return err
	}

	stop, err := v.readReg(regStopVariable)

	if err != nil {
		return err
	}

	v.stopVariable = stop

	if err := v.writeSequence(standardModeExit); err != nil {
		return err
	}

	// disable SIGNAL_RATE_MSRC (bit 1) and SIGNAL_RATE_PRE_RANGE (bit 4)
	// limit checks
	if err := v.updateReg(MSRC_CONFIG_CONTROL, 0, 0x12); err != nil {
		return err
	}

	// set final range signal rate limit to 0.25 MCPS
	if err := v.SetSignalRateLimit(DefaultRateLimit); err != nil {
		return err
	}

	return v.writeReg(SYSTEM_SEQUENCE_CONFIG, sequenceAll)
}

// staticInit implements VL53L0X_StaticInit() from the ST API
func (v *VL53L0X) staticInit() error {

	info, err := v.getSpadInfo()

	if err != nil {
		return err
	}

	v.log.Printf("Reference SPADs: count=%d aperture=%t", info.Count, info.IsAperture)

	if err := v.setReferenceSpads(info); err != nil {
		return err
	}

	// VL53L0X_load_tuning_settings()
	if err := v.writeSequence(defaultTuning); err != nil {
		return err
	}

	// set interrupt config to new sample ready, VL53L0X_SetGpioConfig()
	if err := v.writeReg(SYSTEM_INTERRUPT_CONFIG_GPIO, 0x04); err != nil {
		return err
	}

	// active low
	if err := v.updateReg(GPIO_HV_MUX_ACTIVE_HIGH, 0x10, 0); err != nil {
		return err
	}

	if err := v.writeReg(SYSTEM_INTERRUPT_CLEAR, 0x01); err != nil {
		return err
	}

	budget, err := v.GetMeasurementTimingBudget()

	if err != nil {
		return err
	}

	// disable MSRC and TCC by default
	if err := v.writeReg(SYSTEM_SEQUENCE_CONFIG, sequenceDefault); err != nil {
		return err
	}

	// recalculate timing budget for the reduced set of steps
	return v.SetMeasurementTimingBudget(budget)
}

// refCalibration implements VL53L0X_PerformRefCalibration() which runs the
// VHV and phase calibrations
func (v *VL53L0X) refCalibration() error {

	if err := v.writeReg(SYSTEM_SEQUENCE_CONFIG, sequenceVHV); err != nil {
		return err
	}

	if err := v.performSingleRefCalibration(vhvCalibrationMode); err != nil {
		return err
	}

	if err := v.writeReg(SYSTEM_SEQUENCE_CONFIG, sequencePhase); err != nil {
		return err
	}

	if err := v.performSingleRefCalibration(phaseCalibrationMode); err != nil {
		return err
	}

	// restore the previous sequence config
	return v.writeReg(SYSTEM_SEQUENCE_CONFIG, sequenceDefault)
}

// performSingleRefCalibration runs one reference calibration with the given
// mode byte and waits for it to complete
func (v *VL53L0X) performSingleRefCalibration(mode uint8) error {

	if err := v.writeReg(SYSRANGE_START, 0x01|mode); err != nil {
		return err
	}

	err := v.pollUntil(RESULT_INTERRUPT_STATUS, func(val uint8) bool {
		return val&0x07 != 0
	}, fmt.Sprintf("reference calibration 0x%02X", mode))

	if err != nil {
		return err
	}

	if err := v.writeReg(SYSTEM_INTERRUPT_CLEAR, 0x01); err != nil {
		return err
	}

	return v.writeReg(SYSRANGE_START, 0x00)
}
