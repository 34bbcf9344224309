package vl53l0x

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// wordWrite is a recorded 16 bit register write
type wordWrite struct {
	Reg   uint8
	Value uint16
}

// mockBus is a flat register file implementing Transport. Register pages
// are not modelled, reads can be overridden per register.
type mockBus struct {
	regs   [256]uint8
	reads  map[uint8]func() uint8
	writes []regWrite
	words  []wordWrite
	closed bool

	readErr  error
	writeErr error
}

// newMockBus returns a register file holding a VL53L0X that completes every
// calibration and measurement immediately
func newMockBus() *mockBus {

	m := &mockBus{
		reads: make(map[uint8]func() uint8),
	}

	m.regs[0xC0] = 0xEE
	m.regs[0xC1] = 0xAA
	m.regs[0xC2] = 0x10

	m.regs[regStopVariable] = 0x3C

	// 24 non-aperture reference SPADs with every SPAD good
	m.regs[regSpadInfo] = 24

	for i := uint8(0); i < 6; i++ {
		m.regs[GLOBAL_CONFIG_SPAD_ENABLES_REF_0+i] = 0xFF
	}

	// range of 300mm
	m.regs[RESULT_RANGE_STATUS+rangeOffset] = 0x01
	m.regs[RESULT_RANGE_STATUS+rangeOffset+1] = 0x2C

	m.setRead(regSpadStatus, 0x01)
	m.setRead(RESULT_INTERRUPT_STATUS, 0x07)
	m.setRead(SYSRANGE_START, 0x00)

	return m
}

// setRead makes reads of reg always return val
func (m *mockBus) setRead(reg uint8, val uint8) {
	m.reads[reg] = func() uint8 { return val }
}

func (m *mockBus) ReadU8(reg uint8) (uint8, error) {

	if m.readErr != nil {
		return 0, m.readErr
	}

	if fn, ok := m.reads[reg]; ok {
		return fn(), nil
	}

	return m.regs[reg], nil
}

func (m *mockBus) WriteU8(reg uint8, value uint8) error {

	if m.writeErr != nil {
		return m.writeErr
	}

	m.regs[reg] = value
	m.writes = append(m.writes, regWrite{reg, value})

	return nil
}

func (m *mockBus) ReadU16(reg uint8, bigEndian bool) (uint16, error) {

	hi, err := m.ReadU8(reg)

	if err != nil {
		return 0, err
	}

	lo, err := m.ReadU8(reg + 1)

	if err != nil {
		return 0, err
	}

	if !bigEndian {
		hi, lo = lo, hi
	}

	return uint16(hi)<<8 | uint16(lo), nil
}

func (m *mockBus) WriteU16(reg uint8, value uint16, bigEndian bool) error {

	if m.writeErr != nil {
		return m.writeErr
	}

	hi, lo := uint8(value>>8), uint8(value)

	if !bigEndian {
		hi, lo = lo, hi
	}

	m.words = append(m.words, wordWrite{reg, value})

	return m.WriteBlock(reg, []byte{hi, lo})
}

func (m *mockBus) ReadBlock(reg uint8, n int) ([]byte, error) {

	buf := make([]byte, n)

	for i := range buf {
		val, err := m.ReadU8(reg + uint8(i))

		if err != nil {
			return nil, err
		}

		buf[i] = val
	}

	return buf, nil
}

func (m *mockBus) WriteBlock(reg uint8, data []byte) error {

	for i, b := range data {
		if err := m.WriteU8(reg+uint8(i), b); err != nil {
			return err
		}
	}

	return nil
}

func (m *mockBus) Close() error {
	m.closed = true
	return nil
}

// writesTo returns the values written to reg in order
func (m *mockBus) writesTo(reg uint8) []uint8 {

	var vals []uint8

	for _, w := range m.writes {
		if w.reg == reg {
			vals = append(vals, w.value)
		}
	}

	return vals
}

// reg16 returns the big endian value held at reg
func (m *mockBus) reg16(reg uint8) uint16 {
	return uint16(m.regs[reg])<<8 | uint16(m.regs[reg+1])
}

// fakeClock only advances when slept on
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func discardLog() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

// newTestSensor brings up a sensor on a fresh mock bus
func newTestSensor(t *testing.T) (*VL53L0X, *mockBus) {
	t.Helper()

	bus := newMockBus()
	v, err := newSensor(bus, Options{}, discardLog(), &fakeClock{now: time.Unix(0, 0)})

	require.NoError(t, err)
	require.NotNil(t, v)

	return v, bus
}
