package vl53l0x

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// busTx records one bus transaction
type busTx struct {
	Addr uint16
	W    []byte
	R    int
}

// recordingI2C is a TinyGo style bus that records transactions and answers
// reads from a fixed buffer
type recordingI2C struct {
	txs   []busTx
	reply []byte
	err   error
}

func (b *recordingI2C) Tx(addr uint16, w, r []byte) error {

	b.txs = append(b.txs, busTx{Addr: addr, W: append([]byte(nil), w...), R: len(r)})

	if b.err != nil {
		return b.err
	}

	copy(r, b.reply)

	return nil
}

func (b *recordingI2C) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{r}, buf)
}

func (b *recordingI2C) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{r}, buf...), nil)
}

func TestRegisterBusFraming(t *testing.T) {

	bus := &recordingI2C{reply: []byte{0x12, 0x34, 0x56}}
	tr := NewTinyGoTransport(bus, uint16(Address))

	val, err := tr.ReadU8(0xC0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x12), val)

	be, err := tr.ReadU16(0x44, true)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), be)

	le, err := tr.ReadU16(0x44, false)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3412), le)

	block, err := tr.ReadBlock(0x14, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 0x56}, block)

	require.NoError(t, tr.WriteU8(0x00, 0x01))
	require.NoError(t, tr.WriteU16(0x71, 0x0285, true))
	require.NoError(t, tr.WriteU16(0x71, 0x0285, false))
	require.NoError(t, tr.WriteBlock(0xB0, []byte{0xFF, 0x0F}))

	want := []busTx{
		{Addr: 0x29, W: []byte{0xC0}, R: 1},
		{Addr: 0x29, W: []byte{0x44}, R: 2},
		{Addr: 0x29, W: []byte{0x44}, R: 2},
		{Addr: 0x29, W: []byte{0x14}, R: 3},
		{Addr: 0x29, W: []byte{0x00, 0x01}},
		{Addr: 0x29, W: []byte{0x71, 0x02, 0x85}},
		{Addr: 0x29, W: []byte{0x71, 0x85, 0x02}},
		{Addr: 0x29, W: []byte{0xB0, 0xFF, 0x0F}},
	}

	if diff := cmp.Diff(want, bus.txs); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}

	assert.NoError(t, tr.Close())
}

func TestRegisterBusError(t *testing.T) {

	busErr := errors.New("i2c: NACK")
	tr := NewTinyGoTransport(&recordingI2C{err: busErr}, uint16(Address))

	_, err := tr.ReadU8(0xC0)
	assert.Equal(t, busErr, err)

	_, err = tr.ReadBlock(0x14, 12)
	assert.Equal(t, busErr, err)

	assert.Equal(t, busErr, tr.WriteU8(0x00, 0x01))
}

func TestTinyGoTransportSetAddress(t *testing.T) {

	bus := &recordingI2C{}
	tr := NewTinyGoTransport(bus, uint16(Address))

	v := &VL53L0X{bus: tr, clock: realClock{}, log: discardLog()}

	require.NoError(t, v.SetAddress(0x30))
	require.NoError(t, v.writeReg(SYSRANGE_START, 0x01))

	require.Len(t, bus.txs, 2)
	assert.Equal(t, busTx{Addr: 0x29, W: []byte{I2C_SLAVE_DEVICE_ADDRESS, 0x30}}, bus.txs[0])
	assert.Equal(t, uint16(0x30), bus.txs[1].Addr)
}

func TestPeriphTransport(t *testing.T) {

	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x29, W: []byte{0xC0}, R: []byte{0xEE, 0xAA, 0x10}},
			{Addr: 0x29, W: []byte{0x1E}, R: []byte{0x01, 0x2C}},
			{Addr: 0x29, W: []byte{0x0B, 0x01}},
			{Addr: 0x30, W: []byte{0x00, 0x01}},
		},
		DontPanic: true,
	}

	tr := NewPeriphTransport(bus, uint16(Address))

	id, err := tr.ReadBlock(IDENTIFICATION_MODEL_ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEE, 0xAA, 0x10}, id)

	rangeMM, err := tr.ReadU16(RESULT_RANGE_STATUS+rangeOffset, true)
	require.NoError(t, err)
	assert.Equal(t, uint16(300), rangeMM)

	require.NoError(t, tr.WriteU8(SYSTEM_INTERRUPT_CLEAR, 0x01))

	require.NoError(t, tr.(addressable).setAddress(0x30))
	require.NoError(t, tr.WriteU8(SYSRANGE_START, 0x01))

	// playback verifies every operation was consumed
	assert.NoError(t, tr.Close())
}
