package vl53l0x

import (
	"tinygo.org/x/drivers"
)

// tinygoTransport is a Transport over a TinyGo I2C bus such as machine.I2C0
type tinygoTransport struct {
	registerBus
	bus  drivers.I2C
	addr uint16
}

// NewTinyGoTransport returns a Transport for the sensor at addr. The bus is
// owned by the board so Close leaves it untouched.
func NewTinyGoTransport(bus drivers.I2C, addr uint16) Transport {

	t := &tinygoTransport{
		bus:  bus,
		addr: addr,
	}

	t.tx = func(w, r []byte) error {
		return t.bus.Tx(t.addr, w, r)
	}

	return t
}

func (t *tinygoTransport) setAddress(addr uint8) error {
	t.addr = uint16(addr)
	return nil
}
