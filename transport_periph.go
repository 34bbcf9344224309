package vl53l0x

import (
	"periph.io/x/conn/v3/i2c"
)

// periphTransport is a Transport over a periph.io I2C bus
type periphTransport struct {
	registerBus
	dev *i2c.Dev
}

// NewPeriphTransport returns a Transport for the sensor at addr on a periph
// bus, typically one returned by i2creg.Open. Closing the transport closes
// the bus.
func NewPeriphTransport(bus i2c.BusCloser, addr uint16) Transport {

	t := &periphTransport{
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}

	t.tx = t.dev.Tx
	t.close = bus.Close

	return t
}

func (t *periphTransport) setAddress(addr uint8) error {
	t.dev.Addr = uint16(addr)
	return nil
}
