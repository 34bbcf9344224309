package vl53l0x

import "fmt"

// Sequence step overheads in microseconds used by the timing budget
// calculations, values from the ST API
const (
	startOverhead      uint32 = 1910
	endOverhead        uint32 = 960
	msrcOverhead       uint32 = 660
	tccOverhead        uint32 = 590
	dssOverhead        uint32 = 690
	preRangeOverhead   uint32 = 660
	finalRangeOverhead uint32 = 550
)

// DefaultRateLimit is the final range signal rate limit in MCPS set during
// initialization
const DefaultRateLimit float32 = 0.25

// range of VCSEL pulse periods in PCLKs the sensor supports
const (
	minVcselPeriod uint16 = 8
	maxVcselPeriod uint16 = 18
)

// VcselPeriodType selects which VCSEL pulse period is addressed
type VcselPeriodType int

const (
	// VcselPeriodPreRange is the VCSEL period used by the pre-range step
	VcselPeriodPreRange VcselPeriodType = iota
	// VcselPeriodFinalRange is the VCSEL period used by the final range step
	VcselPeriodFinalRange
)

// String implement Stringer interface for VcselPeriodType
func (t VcselPeriodType) String() string {
	switch t {
	case VcselPeriodPreRange:
		return "pre-range"
	case VcselPeriodFinalRange:
		return "final range"
	default:
		return "unknown"
	}
}

// SetSignalRateLimit sets the return signal rate limit check value in MCPS
// (mega counts per second). This is the minimum amplitude of the signal
// reflected from the target and received by the sensor for a valid reading.
// Setting a lower limit increases the potential range but also increases the
// chance of an inaccurate reading. Defaults to 0.25 MCPS.
func (v *VL53L0X) SetSignalRateLimit(limitMcps float32) error {

	regVal, err := encodeRateLimit(limitMcps)

	if err != nil {
		return fmt.Errorf("%w: %v", err, limitMcps)
	}

	return v.writeReg16Bit(FINAL_RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT, regVal)
}

// GetSignalRateLimit returns the current return signal rate limit in MCPS
func (v *VL53L0X) GetSignalRateLimit() (float32, error) {

	regVal, err := v.readReg16Bit(FINAL_RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT)

	if err != nil {
		return 0, err
	}

	return decodeRateLimit(regVal), nil
}

// stepsBudget sums the start and end overheads with the durations and
// overheads of the enabled steps prior to the final range step. DSS, when
// enabled, is counted in place of MSRC.
func stepsBudget(enables SequenceStepEnables, timeouts SequenceStepTimeouts) uint32 {

	budgetUs := startOverhead + endOverhead

	if enables.TCC {
		budgetUs += timeouts.MsrcDssTccUs + tccOverhead
	}

	if enables.DSS {
		budgetUs += 2 * (timeouts.MsrcDssTccUs + dssOverhead)
	} else if enables.MSRC {
		budgetUs += timeouts.MsrcDssTccUs + msrcOverhead
	}

	if enables.PreRange {
		budgetUs += timeouts.PreRangeUs + preRangeOverhead
	}

	return budgetUs
}

// GetMeasurementTimingBudget returns the measurement timing budget in
// microseconds based on VL53L0X_get_measurement_timing_budget_micro_seconds()
func (v *VL53L0X) GetMeasurementTimingBudget() (uint32, error) {

	enables, err := v.GetSequenceStepEnables()

	if err != nil {
		return 0, err
	}

	timeouts, err := v.getSequenceStepTimeouts(enables)

	if err != nil {
		return 0, err
	}

	budgetUs := stepsBudget(enables, timeouts)

	if enables.FinalRange {
		budgetUs += timeouts.FinalRangeUs + finalRangeOverhead
	}

	// store for internal reuse
	v.measurementTimingBudgetUs = budgetUs

	return budgetUs, nil
}

// SetMeasurementTimingBudget sets the measurement timing budget in
// microseconds, which is the time allowed for one measurement. The time left
// after the enabled sequence steps and their overheads is given to the final
// range step.  A longer timing budget allows for more accurate measurements.
// Based on VL53L0X_set_measurement_timing_budget_micro_seconds()
func (v *VL53L0X) SetMeasurementTimingBudget(budgetUs uint32) error {

	enables, err := v.GetSequenceStepEnables()

	if err != nil {
		return err
	}

	timeouts, err := v.getSequenceStepTimeouts(enables)

	if err != nil {
		return err
	}

	if !enables.FinalRange {
		return nil
	}

	usedBudgetUs := stepsBudget(enables, timeouts) + finalRangeOverhead

	if usedBudgetUs > budgetUs {
		return fmt.Errorf("%w: %dus requested, %dus required", ErrBudgetExceeded,
			budgetUs, usedBudgetUs)
	}

	finalRangeTimeoutUs := budgetUs - usedBudgetUs

	// the final range timeout register stores the pre-range time as well
	finalRangeMclks := timeoutMicrosecondsToMclks(finalRangeTimeoutUs,
		timeouts.FinalRangeVcselPeriodPclks)

	if enables.PreRange {
		finalRangeMclks += timeouts.PreRangeMclks
	}

	if err := v.writeReg16Bit(FINAL_RANGE_CONFIG_TIMEOUT_MACROP_HI, encodeTimeout(finalRangeMclks)); err != nil {
		return err
	}

	v.measurementTimingBudgetUs = budgetUs
	v.log.Printf("Measurement timing budget set to %dus", budgetUs)

	return nil
}

// GetVcselPulsePeriod returns the VCSEL pulse period in PCLKs for the given
// period type
func (v *VL53L0X) GetVcselPulsePeriod(periodType VcselPeriodType) (uint8, error) {

	var reg uint8

	switch periodType {
	case VcselPeriodPreRange:
		reg = PRE_RANGE_CONFIG_VCSEL_PERIOD
	case VcselPeriodFinalRange:
		reg = FINAL_RANGE_CONFIG_VCSEL_PERIOD
	default:
		return 0, fmt.Errorf("unrecognized VCSEL period type")
	}

	val, err := v.readReg(reg)

	if err != nil {
		return 0, err
	}

	period := decodeVcselPeriod(val)

	if period < minVcselPeriod || period > maxVcselPeriod {
		return 0, fmt.Errorf("%w: %s register 0x%02X", ErrInvalidVcselPeriod, periodType, val)
	}

	return uint8(period), nil
}

// finalRangePhase holds the register values that depend on the final range
// VCSEL period
type finalRangePhase struct {
	validPhaseHigh  uint8
	vcselWidth      uint8
	phasecalTimeout uint8
	phasecalLim     uint8
}

// preRangePhaseHigh maps pre-range VCSEL periods to the valid phase high
// register value
var preRangePhaseHigh = map[uint8]uint8{
	12: 0x18,
	14: 0x30,
	16: 0x40,
	18: 0x50,
}

// finalRangePhases maps final range VCSEL periods to their phase settings
var finalRangePhases = map[uint8]finalRangePhase{
	8:  {validPhaseHigh: 0x10, vcselWidth: 0x02, phasecalTimeout: 0x0C, phasecalLim: 0x30},
	10: {validPhaseHigh: 0x28, vcselWidth: 0x03, phasecalTimeout: 0x09, phasecalLim: 0x20},
	12: {validPhaseHigh: 0x38, vcselWidth: 0x03, phasecalTimeout: 0x08, phasecalLim: 0x20},
	14: {validPhaseHigh: 0x48, vcselWidth: 0x03, phasecalTimeout: 0x07, phasecalLim: 0x20},
}

// SetVcselPulsePeriod sets the VCSEL pulse period in PCLKs for the given
// period type. Valid pre-range periods are 12, 14, 16 and 18, valid final
// range periods are 8, 10, 12 and 14. Longer periods increase the potential
// range of the sensor. The sequence step timeouts are rescaled to the new
// period, the timing budget is reapplied and a phase calibration is run.
// Based on VL53L0X_set_vcsel_pulse_period()
func (v *VL53L0X) SetVcselPulsePeriod(periodType VcselPeriodType, periodPclks uint8) error {

	switch periodType {
	case VcselPeriodPreRange:
		if _, ok := preRangePhaseHigh[periodPclks]; !ok {
			return fmt.Errorf("%w: %s %d", ErrInvalidVcselPeriod, periodType, periodPclks)
		}
	case VcselPeriodFinalRange:
		if _, ok := finalRangePhases[periodPclks]; !ok {
			return fmt.Errorf("%w: %s %d", ErrInvalidVcselPeriod, periodType, periodPclks)
		}
	default:
		return fmt.Errorf("unrecognized VCSEL period type")
	}

	enables, err := v.GetSequenceStepEnables()

	if err != nil {
		return err
	}

	timeouts, err := v.getSequenceStepTimeouts(enables)

	if err != nil {
		return err
	}

	periodReg := encodeVcselPeriod(periodPclks)

	if periodType == VcselPeriodPreRange {

		if err := v.writeSequence([]regWrite{
			{PRE_RANGE_CONFIG_VALID_PHASE_HIGH, preRangePhaseHigh[periodPclks]},
			{PRE_RANGE_CONFIG_VALID_PHASE_LOW, 0x08},
			{PRE_RANGE_CONFIG_VCSEL_PERIOD, periodReg},
		}); err != nil {
			return err
		}

		// update timeouts
		preRangeMclks := timeoutMicrosecondsToMclks(timeouts.PreRangeUs, periodPclks)

		if err := v.writeReg16Bit(PRE_RANGE_CONFIG_TIMEOUT_MACROP_HI, encodeTimeout(preRangeMclks)); err != nil {
			return err
		}

		msrcMclks := timeoutMicrosecondsToMclks(timeouts.MsrcDssTccUs, periodPclks)

		if err := v.writeReg(MSRC_CONFIG_TIMEOUT_MACROP, encodeMsrcTimeout(msrcMclks)); err != nil {
			return err
		}

	} else {

		phase := finalRangePhases[periodPclks]

		if err := v.writeSequence([]regWrite{
			{FINAL_RANGE_CONFIG_VALID_PHASE_HIGH, phase.validPhaseHigh},
			{FINAL_RANGE_CONFIG_VALID_PHASE_LOW, 0x08},
			{GLOBAL_CONFIG_VCSEL_WIDTH, phase.vcselWidth},
			{ALGO_PHASECAL_CONFIG_TIMEOUT, phase.phasecalTimeout},
			{regPageSelect, 0x01},
			{ALGO_PHASECAL_LIM, phase.phasecalLim},
			{regPageSelect, 0x00},
			{FINAL_RANGE_CONFIG_VCSEL_PERIOD, periodReg},
		}); err != nil {
			return err
		}

		// update timeouts, the final range register includes pre-range
		finalRangeMclks := timeoutMicrosecondsToMclks(timeouts.FinalRangeUs, periodPclks)

		if enables.PreRange {
			finalRangeMclks += timeouts.PreRangeMclks
		}

		if err := v.writeReg16Bit(FINAL_RANGE_CONFIG_TIMEOUT_MACROP_HI, encodeTimeout(finalRangeMclks)); err != nil {
			return err
		}
	}

	v.log.Printf("VCSEL %s period set to %d PCLKs", periodType, periodPclks)

	// the new period changed the step durations so reapply the budget
	if err := v.SetMeasurementTimingBudget(v.measurementTimingBudgetUs); err != nil {
		return err
	}

	// perform a phase calibration
	seqCfg, err := v.readReg(SYSTEM_SEQUENCE_CONFIG)

	if err != nil {
		return err
	}

	if err := v.writeReg(SYSTEM_SEQUENCE_CONFIG, sequencePhase); err != nil {
		return err
	}

	if err := v.performSingleRefCalibration(phaseCalibrationMode); err != nil {
		return err
	}

	return v.writeReg(SYSTEM_SEQUENCE_CONFIG, seqCfg)
}
