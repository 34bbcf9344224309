package vl53l0x

import (
	"fmt"

	"github.com/swdee/go-i2c"
)

// Transport is register level access to the sensor on its bus. All
// operations are synchronous and any error returned is handed back to the
// caller unchanged.
type Transport interface {
	ReadU8(reg uint8) (uint8, error)
	WriteU8(reg uint8, value uint8) error
	ReadU16(reg uint8, bigEndian bool) (uint16, error)
	WriteU16(reg uint8, value uint16, bigEndian bool) error
	ReadBlock(reg uint8, n int) ([]byte, error)
	WriteBlock(reg uint8, data []byte) error
	Close() error
}

// addressable is implemented by transports that can follow the sensor to a
// new bus address after SetAddress
type addressable interface {
	setAddress(addr uint8) error
}

// txFunc performs one bus transaction, writing w and then reading len(r)
// bytes into r when r is not empty
type txFunc func(w, r []byte) error

// registerBus implements Transport on top of a plain write-then-read bus
// transaction using 8 bit register addresses
type registerBus struct {
	tx    txFunc
	close func() error
}

// ReadU8 reads one register
func (b *registerBus) ReadU8(reg uint8) (uint8, error) {

	buf := make([]byte, 1)

	if err := b.tx([]byte{reg}, buf); err != nil {
		return 0, err
	}

	return buf[0], nil
}

// WriteU8 writes one register
func (b *registerBus) WriteU8(reg uint8, value uint8) error {
	return b.tx([]byte{reg, value}, nil)
}

// ReadU16 reads two consecutive registers as a 16 bit value
func (b *registerBus) ReadU16(reg uint8, bigEndian bool) (uint16, error) {

	buf := make([]byte, 2)

	if err := b.tx([]byte{reg}, buf); err != nil {
		return 0, err
	}

	if bigEndian {
		return uint16(buf[0])<<8 | uint16(buf[1]), nil
	}

	return uint16(buf[1])<<8 | uint16(buf[0]), nil
}

// WriteU16 writes a 16 bit value to two consecutive registers
func (b *registerBus) WriteU16(reg uint8, value uint16, bigEndian bool) error {

	if bigEndian {
		return b.tx([]byte{reg, byte(value >> 8), byte(value)}, nil)
	}

	return b.tx([]byte{reg, byte(value), byte(value >> 8)}, nil)
}

// ReadBlock reads n consecutive registers
func (b *registerBus) ReadBlock(reg uint8, n int) ([]byte, error) {

	buf := make([]byte, n)

	if err := b.tx([]byte{reg}, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// WriteBlock writes data to consecutive registers
func (b *registerBus) WriteBlock(reg uint8, data []byte) error {

	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reg)
	buf = append(buf, data...)

	return b.tx(buf, nil)
}

// Close releases the underlying bus
func (b *registerBus) Close() error {

	if b.close == nil {
		return nil
	}

	return b.close()
}

// i2cTransport is a Transport over a Linux i2c-dev connection
type i2cTransport struct {
	registerBus
	conn *i2c.Options
}

// NewI2CTransport returns a Transport using an opened go-i2c connection.
// Closing the transport closes the connection.
func NewI2CTransport(conn *i2c.Options) (Transport, error) {

	if conn.GetAddr() == 0 {
		return nil, fmt.Errorf("I2C device is not initiated")
	}

	t := &i2cTransport{conn: conn}
	t.tx = t.transfer
	t.close = func() error {
		t.conn.Close()
		return nil
	}

	return t, nil
}

// transfer writes w and reads back r as two separate i2c-dev operations
func (t *i2cTransport) transfer(w, r []byte) error {

	if _, err := t.conn.WriteBytes(w); err != nil {
		return err
	}

	if len(r) == 0 {
		return nil
	}

	n, err := t.conn.ReadBytes(r)

	if err != nil {
		return err
	}

	if n < len(r) {
		return fmt.Errorf("register 0x%02X: insufficient data read", w[0])
	}

	return nil
}

// setAddress opens a new connection at addr on the same bus device and
// closes the existing one
func (t *i2cTransport) setAddress(addr uint8) error {

	conn, err := i2c.New(addr, t.conn.GetDev())

	if err != nil {
		return err
	}

	t.conn.Close()
	t.conn = conn

	return nil
}
