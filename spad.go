package vl53l0x

// spadCount is the number of reference SPADs in the enable map
const spadCount = 48

// firstApertureSpad is the index of the first aperture reference SPAD
const firstApertureSpad = 12

// SpadInfo describes the reference SPADs selected by the factory calibration
type SpadInfo struct {
	// Count of reference SPADs to enable, 0..127
	Count uint8
	// IsAperture is true when the reference SPADs are aperture type
	IsAperture bool
}

// spadInfoEnter puts the device into the mode where the reference SPAD
// information can be read
var spadInfoEnter = []regWrite{
	{POWER_MANAGEMENT_GO1_POWER_FORCE, 0x01},
	{regPageSelect, 0x01},
	{0x00, 0x00},
	{regPageSelect, 0x06},
}

// getSpadInfo reads the reference SPAD count and type based on
// VL53L0X_get_info_from_device()
func (v *VL53L0X) getSpadInfo() (SpadInfo, error) {

	if err := v.writeSequence(spadInfoEnter); err != nil {
		return SpadInfo{}, err
	}

	if err := v.updateReg(regSpadStatus, 0, 0x04); err != nil {
		return SpadInfo{}, err
	}

	if err := v.writeSequence([]regWrite{
		{regPageSelect, 0x07},
		{0x81, 0x01},
		{POWER_MANAGEMENT_GO1_POWER_FORCE, 0x01},
		{regSpadCalibrate, 0x6B},
		{regSpadStatus, 0x00},
	}); err != nil {
		return SpadInfo{}, err
	}

	err := v.pollUntil(regSpadStatus, func(val uint8) bool {
		return val != 0x00
	}, "SPAD info")

	if err != nil {
		return SpadInfo{}, err
	}

	if err := v.writeReg(regSpadStatus, 0x01); err != nil {
		return SpadInfo{}, err
	}

	tmp, err := v.readReg(regSpadInfo)

	if err != nil {
		return SpadInfo{}, err
	}

	info := SpadInfo{
		Count:      tmp & 0x7F,
		IsAperture: (tmp>>7)&0x01 == 1,
	}

	// restore register state
	if err := v.writeSequence([]regWrite{
		{0x81, 0x00},
		{regPageSelect, 0x06},
	}); err != nil {
		return SpadInfo{}, err
	}

	if err := v.updateReg(regSpadStatus, 0x04, 0); err != nil {
		return SpadInfo{}, err
	}

	if err := v.writeSequence([]regWrite{
		{regPageSelect, 0x01},
		{0x00, 0x01},
		{regPageSelect, 0x00},
		{POWER_MANAGEMENT_GO1_POWER_FORCE, 0x00},
	}); err != nil {
		return SpadInfo{}, err
	}

	return info, nil
}

// setReferenceSpads enables the reference SPADs described by info, based on
// VL53L0X_set_reference_spads() assuming the NVM values are valid
func (v *VL53L0X) setReferenceSpads(info SpadInfo) error {

	// the SPAD map (RefGoodSpadMap) is more easily read from the global config
	// enable registers than through VL53L0X_get_info_from_device()
	spadMap, err := v.readMulti(GLOBAL_CONFIG_SPAD_ENABLES_REF_0, spadCount/8)

	if err != nil {
		return err
	}

	if err := v.writeSequence([]regWrite{
		{regPageSelect, 0x01},
		{DYNAMIC_SPAD_REF_EN_START_OFFSET, 0x00},
		{DYNAMIC_SPAD_NUM_REQUESTED_REF_SPAD, 0x2C},
		{regPageSelect, 0x00},
		{GLOBAL_CONFIG_REF_EN_START_SELECT, 0xB4},
	}); err != nil {
		return err
	}

	applySpadCount(spadMap, info)

	return v.writeMulti(GLOBAL_CONFIG_SPAD_ENABLES_REF_0, spadMap)
}

// applySpadCount clears bits of the SPAD enable map so that at most
// info.Count good SPADs remain enabled, beginning at the first SPAD of the
// reference type and scanning from low to high index
func applySpadCount(spadMap []byte, info SpadInfo) {

	var first uint8 = 0

	if info.IsAperture {
		first = firstApertureSpad
	}

	var enabled uint8 = 0

	for i := uint8(0); i < spadCount; i++ {

		mask := byte(1 << (i % 8))

		if i < first || enabled == info.Count {
			spadMap[i/8] &^= mask
		} else if spadMap[i/8]&mask != 0 {
			enabled++
		}
	}
}
