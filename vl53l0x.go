// go-vl53l0x is an I2C driver for the ST VL53L0X time‐of‐flight sensor.
package vl53l0x

import (
	"fmt"
	"io"
	"log"
	"time"
)

const (
	// Address is the default address of the sensor on I2C bus
	Address uint8 = 0x29
	// DefaultBusHz is the suggested I2C clock frequency
	DefaultBusHz = 400_000
)

// VL53L0X represents a single VL53L0X sensor instance.
type VL53L0X struct {
	// bus is register access to the sensor, nil after Close
	bus Transport

	ioTimeout    time.Duration
	didTimeout   bool
	timeoutStart time.Time
	clock        clock

	initialized bool

	// stopVariable is read during bring-up and written back at the start of
	// every range measurement
	stopVariable uint8

	// timing budget in microseconds
	measurementTimingBudgetUs uint32

	state rangingState

	// log logger for debugging
	log *log.Logger
}

// New returns a new VL53L0X sensor instance that has been initialized and
// configured with any options set in opts
func New(bus Transport, opts Options) (*VL53L0X, error) {
	return newSensor(bus, opts, log.New(io.Discard, "", log.LstdFlags), realClock{})
}

// NewWithLog creates sensor instance with logger to be used for debugging
func NewWithLog(bus Transport, opts Options, log *log.Logger) (*VL53L0X, error) {
	return newSensor(bus, opts, log, realClock{})
}

// newSensor creates the sensor instance and runs the bring-up sequence. No
// instance is returned unless bring-up and configuration succeed.
func newSensor(bus Transport, opts Options, log *log.Logger, clk clock) (*VL53L0X, error) {

	if bus == nil {
		return nil, fmt.Errorf("I2C transport is nil")
	}

	v := &VL53L0X{
		bus:       bus,
		ioTimeout: 0, // no timeout by default
		clock:     clk,
		state:     stateIdle,
		log:       log,
	}

	// bring-up polling honours the requested timeout
	if opts.Timeout != nil {
		v.SetTimeout(time.Duration(*opts.Timeout) * time.Millisecond)
	}

	if err := v.setup(); err != nil {
		return nil, err
	}

	if err := v.Configure(opts); err != nil {
		return nil, fmt.Errorf("Failed to configure device: %w", err)
	}

	return v, nil
}

// setup completes New instance creation and is a common function for New() and
// NewWithLog()
func (v *VL53L0X) setup() error {

	v.log.Printf("Starting Setup()")

	// initialize device
	err := v.Init()

	if err != nil {
		return fmt.Errorf("Failed to Init device: %w", err)
	}

	v.log.Printf("Device Init()'d")

	return nil
}

// Close releases the transport, the sensor instance can not be used
// afterwards
func (v *VL53L0X) Close() error {

	if v.bus == nil {
		return ErrClosed
	}

	err := v.bus.Close()
	v.bus = nil

	return err
}

// SetAddress change default address of sensor and retarget the transport to
// the new address when the transport supports it
func (v *VL53L0X) SetAddress(newAddr uint8) error {

	if err := v.writeReg(I2C_SLAVE_DEVICE_ADDRESS, newAddr&0x7F); err != nil {
		return err
	}

	if t, ok := v.bus.(addressable); ok {
		return t.setAddress(newAddr & 0x7F)
	}

	return nil
}
