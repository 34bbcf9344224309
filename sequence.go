package vl53l0x

// SequenceStepEnables holds which ranging sequence steps are enabled in
// SYSTEM_SEQUENCE_CONFIG
type SequenceStepEnables struct {
	// TCC is the target centre check
	TCC bool
	// DSS is dynamic SPAD selection
	DSS bool
	// MSRC is the minimum signal rate check
	MSRC       bool
	PreRange   bool
	FinalRange bool
}

// SequenceStepTimeouts holds the per step timeouts in MCLKs and microseconds
// along with the VCSEL periods they were converted with
type SequenceStepTimeouts struct {
	PreRangeVcselPeriodPclks   uint8
	FinalRangeVcselPeriodPclks uint8

	MsrcDssTccMclks uint32
	PreRangeMclks   uint32
	FinalRangeMclks uint32

	MsrcDssTccUs uint32
	PreRangeUs   uint32
	FinalRangeUs uint32
}

// decodeSequenceConfig decodes the step enable bits of SYSTEM_SEQUENCE_CONFIG
func decodeSequenceConfig(cfg uint8) SequenceStepEnables {
	return SequenceStepEnables{
		TCC:        (cfg>>4)&0x01 == 1,
		DSS:        (cfg>>3)&0x01 == 1,
		MSRC:       (cfg>>2)&0x01 == 1,
		PreRange:   (cfg>>6)&0x01 == 1,
		FinalRange: (cfg>>7)&0x01 == 1,
	}
}

// GetSequenceStepEnables returns the currently enabled sequence steps based
// on VL53L0X_GetSequenceStepEnables()
func (v *VL53L0X) GetSequenceStepEnables() (SequenceStepEnables, error) {

	cfg, err := v.readReg(SYSTEM_SEQUENCE_CONFIG)

	if err != nil {
		return SequenceStepEnables{}, err
	}

	return decodeSequenceConfig(cfg), nil
}

// getSequenceStepTimeouts reads the sequence step timeouts, the final range
// timeout register holds the pre-range time as well so it is removed when
// pre-range is enabled.  Based on get_sequence_step_timeout()
func (v *VL53L0X) getSequenceStepTimeouts(enables SequenceStepEnables) (SequenceStepTimeouts, error) {

	var t SequenceStepTimeouts

	prePclks, err := v.GetVcselPulsePeriod(VcselPeriodPreRange)

	if err != nil {
		return t, err
	}

	t.PreRangeVcselPeriodPclks = prePclks

	msrc, err := v.readReg(MSRC_CONFIG_TIMEOUT_MACROP)

	if err != nil {
		return t, err
	}

	t.MsrcDssTccMclks = uint32(msrc) + 1
	t.MsrcDssTccUs = timeoutMclksToMicroseconds(t.MsrcDssTccMclks, prePclks)

	preReg, err := v.readReg16Bit(PRE_RANGE_CONFIG_TIMEOUT_MACROP_HI)

	if err != nil {
		return t, err
	}

	t.PreRangeMclks = decodeTimeout(preReg)
	t.PreRangeUs = timeoutMclksToMicroseconds(t.PreRangeMclks, prePclks)

	finalPclks, err := v.GetVcselPulsePeriod(VcselPeriodFinalRange)

	if err != nil {
		return t, err
	}

	t.FinalRangeVcselPeriodPclks = finalPclks

	finalReg, err := v.readReg16Bit(FINAL_RANGE_CONFIG_TIMEOUT_MACROP_HI)

	if err != nil {
		return t, err
	}

	t.FinalRangeMclks = decodeTimeout(finalReg)

	if enables.PreRange {
		if t.FinalRangeMclks > t.PreRangeMclks {
			t.FinalRangeMclks -= t.PreRangeMclks
		} else {
			t.FinalRangeMclks = 0
		}
	}

	t.FinalRangeUs = timeoutMclksToMicroseconds(t.FinalRangeMclks, finalPclks)

	return t, nil
}
