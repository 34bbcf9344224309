package vl53l0x

import "math"

// MaxRateLimit is the largest signal rate limit in MCPS the Q9.7 register can
// hold
const MaxRateLimit float32 = 511.99

// encodeRateLimit converts a signal rate limit in MCPS to Q9.7 fixed point
func encodeRateLimit(mcps float32) (uint16, error) {

	if mcps < 0 || mcps > MaxRateLimit || math.IsNaN(float64(mcps)) {
		return 0, ErrInvalidRateLimit
	}

	return uint16(math.Round(float64(mcps) * (1 << 7))), nil
}

// decodeRateLimit converts a Q9.7 fixed point register value to MCPS
func decodeRateLimit(regVal uint16) float32 {
	return float32(regVal) / float32(1<<7)
}

// decodeTimeout decode sequence step timeout in MCLKs from register value
// based on VL53L0X_decode_timeout()
func decodeTimeout(regVal uint16) uint32 {
	// format: "(LSByte * 2^MSByte) + 1"
	return (uint32(regVal&0xFF) << (regVal >> 8)) + 1
}

// encodeTimeout encode sequence step timeout register value from timeout in
// MCLKs based on VL53L0X_encode_timeout()
func encodeTimeout(timeoutMclks uint32) uint16 {
	var lsByte uint32
	var msByte uint16 = 0

	if timeoutMclks > 0 {
		lsByte = timeoutMclks - 1

		for lsByte&0xFFFFFF00 > 0 {
			lsByte >>= 1
			msByte++
		}

		return (msByte << 8) | uint16(lsByte&0xFF)
	}

	return 0
}

// calcMacroPeriod calculate macro period in nanoseconds from VCSEL period in
// PCLKs based on VL53L0X_calc_macro_period_ps()
func calcMacroPeriod(vcselPeriodPclks uint8) uint32 {
	return ((2304*uint32(vcselPeriodPclks)*1655 + 500) / 1000)
}

// timeoutMclksToMicroseconds convert sequence step timeout from MCLKs to
// microseconds with given VCSEL period in PCLKs based on
// VL53L0X_calc_timeout_us()
func timeoutMclksToMicroseconds(timeoutMclks uint32, vcselPeriodPclks uint8) uint32 {
	macroPeriodNs := uint64(calcMacroPeriod(vcselPeriodPclks))
	return uint32(((uint64(timeoutMclks) * macroPeriodNs) + 500) / 1000)
}

// timeoutMicrosecondsToMclks convert sequence step timeout from microseconds
// to MCLKs with given VCSEL period in PCLKs based on
// VL53L0X_calc_timeout_mclks()
func timeoutMicrosecondsToMclks(timeoutUs uint32, vcselPeriodPclks uint8) uint32 {
	macroPeriodNs := uint64(calcMacroPeriod(vcselPeriodPclks))

	if macroPeriodNs == 0 {
		return 0
	}

	return uint32(((uint64(timeoutUs) * 1000) + (macroPeriodNs / 2)) / macroPeriodNs)
}

// decodeVcselPeriod decode VCSEL pulse period in PCLKs from register value
func decodeVcselPeriod(regVal uint8) uint16 {
	return (uint16(regVal) + 1) << 1
}

// encodeVcselPeriod encode VCSEL pulse period register value from period in
// PCLKs
func encodeVcselPeriod(periodPclks uint8) uint8 {
	return (periodPclks >> 1) - 1
}

// encodeMsrcTimeout encode the single byte MSRC timeout register which holds
// mclks - 1, saturating at 255. Zero mclks is written as 0, the shortest
// timeout the register can hold.
func encodeMsrcTimeout(timeoutMclks uint32) uint8 {

	switch {
	case timeoutMclks == 0:
		return 0
	case timeoutMclks > 256:
		return 255
	default:
		return uint8(timeoutMclks - 1)
	}
}
