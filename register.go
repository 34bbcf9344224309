package vl53l0x

const (
	// Ranging control
	SYSRANGE_START uint8 = 0x00

	// System configuration
	SYSTEM_THRESH_HIGH             uint8 = 0x0C
	SYSTEM_THRESH_LOW              uint8 = 0x0E
	SYSTEM_SEQUENCE_CONFIG         uint8 = 0x01
	SYSTEM_RANGE_CONFIG            uint8 = 0x09
	SYSTEM_INTERMEASUREMENT_PERIOD uint8 = 0x04

	// Interrupt configuration
	SYSTEM_INTERRUPT_CONFIG_GPIO uint8 = 0x0A
	GPIO_HV_MUX_ACTIVE_HIGH      uint8 = 0x84
	SYSTEM_INTERRUPT_CLEAR       uint8 = 0x0B

	// Result registers
	RESULT_INTERRUPT_STATUS uint8 = 0x13
	RESULT_RANGE_STATUS     uint8 = 0x14

	ALGO_PART_TO_PART_RANGE_OFFSET_MM uint8 = 0x28
	I2C_SLAVE_DEVICE_ADDRESS          uint8 = 0x8A

	// MSRC (minimum signal rate check) and pre-range configuration
	MSRC_CONFIG_CONTROL                uint8 = 0x60
	MSRC_CONFIG_TIMEOUT_MACROP         uint8 = 0x46
	PRE_RANGE_CONFIG_MIN_SNR           uint8 = 0x27
	PRE_RANGE_CONFIG_VALID_PHASE_LOW   uint8 = 0x56
	PRE_RANGE_CONFIG_VALID_PHASE_HIGH  uint8 = 0x57
	PRE_RANGE_MIN_COUNT_RATE_RTN_LIMIT uint8 = 0x64
	PRE_RANGE_CONFIG_SIGMA_THRESH_HI   uint8 = 0x61
	PRE_RANGE_CONFIG_SIGMA_THRESH_LO   uint8 = 0x62
	PRE_RANGE_CONFIG_VCSEL_PERIOD      uint8 = 0x50
	PRE_RANGE_CONFIG_TIMEOUT_MACROP_HI uint8 = 0x51
	PRE_RANGE_CONFIG_TIMEOUT_MACROP_LO uint8 = 0x52

	// Final range configuration
	FINAL_RANGE_CONFIG_MIN_SNR                  uint8 = 0x67
	FINAL_RANGE_CONFIG_VALID_PHASE_LOW          uint8 = 0x47
	FINAL_RANGE_CONFIG_VALID_PHASE_HIGH         uint8 = 0x48
	FINAL_RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT uint8 = 0x44
	FINAL_RANGE_CONFIG_VCSEL_PERIOD             uint8 = 0x70
	FINAL_RANGE_CONFIG_TIMEOUT_MACROP_HI        uint8 = 0x71
	FINAL_RANGE_CONFIG_TIMEOUT_MACROP_LO        uint8 = 0x72

	CROSSTALK_COMPENSATION_PEAK_RATE_MCPS uint8 = 0x20

	// Identification registers
	SOFT_RESET_GO2_SOFT_RESET_N uint8 = 0xBF
	IDENTIFICATION_MODEL_ID     uint8 = 0xC0
	IDENTIFICATION_REVISION_ID  uint8 = 0xC2

	OSC_CALIBRATE_VAL uint8 = 0xF8

	// Reference SPAD configuration
	GLOBAL_CONFIG_VCSEL_WIDTH           uint8 = 0x32
	GLOBAL_CONFIG_SPAD_ENABLES_REF_0    uint8 = 0xB0
	GLOBAL_CONFIG_REF_EN_START_SELECT   uint8 = 0xB6
	DYNAMIC_SPAD_NUM_REQUESTED_REF_SPAD uint8 = 0x4E
	DYNAMIC_SPAD_REF_EN_START_OFFSET    uint8 = 0x4F

	POWER_MANAGEMENT_GO1_POWER_FORCE  uint8 = 0x80
	VHV_CONFIG_PAD_SCL_SDA__EXTSUP_HV uint8 = 0x89

	// Phase calibration, these share an address on different register pages
	ALGO_PHASECAL_LIM            uint8 = 0x30
	ALGO_PHASECAL_CONFIG_TIMEOUT uint8 = 0x30

	// undocumented vendor registers
	regPageSelect    uint8 = 0xFF
	regStopVariable  uint8 = 0x91
	regSpadInfo      uint8 = 0x92
	regSpadStatus    uint8 = 0x83
	regSpadCalibrate uint8 = 0x94
)

// modelSignature is the content of the three identification registers
// starting at IDENTIFICATION_MODEL_ID after a fresh reset
var modelSignature = [3]uint8{0xEE, 0xAA, 0x10}

// regWrite is a single entry of a fixed register write sequence
type regWrite struct {
	reg   uint8
	value uint8
}

// standardModeEnter is the "set I2C standard mode" preamble, it leaves the
// device on register page 1 so the stop variable can be accessed
var standardModeEnter = []regWrite{
	{0x88, 0x00},
	{POWER_MANAGEMENT_GO1_POWER_FORCE, 0x01},
	{regPageSelect, 0x01},
	{0x00, 0x00},
}

// standardModeExit returns to register page 0
var standardModeExit = []regWrite{
	{0x00, 0x01},
	{regPageSelect, 0x00},
	{POWER_MANAGEMENT_GO1_POWER_FORCE, 0x00},
}

// internalModeEnter precedes every rewrite of the stop variable when a range
// is started
var internalModeEnter = []regWrite{
	{POWER_MANAGEMENT_GO1_POWER_FORCE, 0x01},
	{regPageSelect, 0x01},
	{0x00, 0x00},
}

// defaultTuning is DefaultTuningSettings from the ST API vl53l0x_tuning.h
var defaultTuning = []regWrite{
	{0xFF, 0x01}, {0x00, 0x00},

	{0xFF, 0x00}, {0x09, 0x00}, {0x10, 0x00}, {0x11, 0x00},

	{0x24, 0x01}, {0x25, 0xFF}, {0x75, 0x00},

	{0xFF, 0x01}, {0x4E, 0x2C}, {0x48, 0x00}, {0x30, 0x20},

	{0xFF, 0x00}, {0x30, 0x09}, {0x54, 0x00}, {0x31, 0x04}, {0x32, 0x03},
	{0x40, 0x83}, {0x46, 0x25}, {0x60, 0x00}, {0x27, 0x00}, {0x50, 0x06},
	{0x51, 0x00}, {0x52, 0x96}, {0x56, 0x08}, {0x57, 0x30}, {0x61, 0x00},
	{0x62, 0x00}, {0x64, 0x00}, {0x65, 0x00}, {0x66, 0xA0},

	{0xFF, 0x01}, {0x22, 0x32}, {0x47, 0x14}, {0x49, 0xFF}, {0x4A, 0x00},

	{0xFF, 0x00}, {0x7A, 0x0A}, {0x7B, 0x00}, {0x78, 0x21},

	{0xFF, 0x01}, {0x23, 0x34}, {0x42, 0x00}, {0x44, 0xFF}, {0x45, 0x26},
	{0x46, 0x05}, {0x40, 0x40}, {0x0E, 0x06}, {0x20, 0x1A}, {0x43, 0x40},

	{0xFF, 0x00}, {0x34, 0x03}, {0x35, 0x44},

	{0xFF, 0x01}, {0x31, 0x04}, {0x4B, 0x09}, {0x4C, 0x05}, {0x4D, 0x04},

	{0xFF, 0x00}, {0x44, 0x00}, {0x45, 0x20}, {0x47, 0x08}, {0x48, 0x28},
	{0x67, 0x00}, {0x70, 0x04}, {0x71, 0x01}, {0x72, 0xFE}, {0x76, 0x00},
	{0x77, 0x00},

	{0xFF, 0x01}, {0x0D, 0x01},

	{0xFF, 0x00}, {0x80, 0x01}, {0x01, 0xF8},

	{0xFF, 0x01}, {0x8E, 0x01}, {0x00, 0x01}, {0xFF, 0x00}, {0x80, 0x00},
}

// writeReg writes a 8 bit value to the register
func (v *VL53L0X) writeReg(reg uint8, value uint8) error {

	if v.bus == nil {
		return ErrClosed
	}

	return v.bus.WriteU8(reg, value)
}

// writeReg16Bit writes a big endian 16 bit value to the register
func (v *VL53L0X) writeReg16Bit(reg uint8, value uint16) error {

	if v.bus == nil {
		return ErrClosed
	}

	return v.bus.WriteU16(reg, value, true)
}

// writeReg32Bit writes a big endian 32 bit value to the register
func (v *VL53L0X) writeReg32Bit(reg uint8, value uint32) error {

	buf := []byte{
		byte(value >> 24), byte(value >> 16),
		byte(value >> 8), byte(value),
	}

	return v.writeMulti(reg, buf)
}

// writeMulti writes consecutive registers starting at reg
func (v *VL53L0X) writeMulti(reg uint8, data []byte) error {

	if v.bus == nil {
		return ErrClosed
	}

	return v.bus.WriteBlock(reg, data)
}

// writeSequence writes each entry of a fixed register table in order
func (v *VL53L0X) writeSequence(seq []regWrite) error {

	for _, w := range seq {
		if err := v.writeReg(w.reg, w.value); err != nil {
			return err
		}
	}

	return nil
}

// readReg reads an 8-bit value from the register
func (v *VL53L0X) readReg(reg uint8) (uint8, error) {

	if v.bus == nil {
		return 0, ErrClosed
	}

	return v.bus.ReadU8(reg)
}

// readReg16Bit reads a big endian 16-bit value from the register
func (v *VL53L0X) readReg16Bit(reg uint8) (uint16, error) {

	if v.bus == nil {
		return 0, ErrClosed
	}

	return v.bus.ReadU16(reg, true)
}

// readMulti reads n consecutive registers starting at reg
func (v *VL53L0X) readMulti(reg uint8, n int) ([]byte, error) {

	if v.bus == nil {
		return nil, ErrClosed
	}

	return v.bus.ReadBlock(reg, n)
}

// updateReg performs a read-modify-write of a single register, clearing the
// bits in clear and then setting the bits in set
func (v *VL53L0X) updateReg(reg uint8, clear, set uint8) error {

	val, err := v.readReg(reg)

	if err != nil {
		return err
	}

	return v.writeReg(reg, (val&^clear)|set)
}
