package main

import (
	"flag"
	"fmt"
	"github.com/swdee/go-i2c"
	"github.com/swdee/go-vl53l0x"
	"log"
	"os"
	"time"
)

func main() {

	i2cbus := flag.String("b", "/dev/i2c-0", "Path to I2C bus to use")
	config := flag.String("c", "", "Path to YAML file of sensor options")
	count := flag.Int("n", 10, "Number of samples to take")
	interval := flag.Duration("i", 100*time.Millisecond, "Interval between samples")
	verbose := flag.Bool("v", false, "Log sensor debug output")
	flag.Parse()

	opts := vl53l0x.Options{
		Timeout: vl53l0x.Uint32(500),
	}

	// values in the config file override the defaults above
	if *config != "" {
		fileOpts, err := vl53l0x.LoadOptions(*config)

		if err != nil {
			log.Fatal(err)
		}

		opts = opts.Merge(fileOpts)
	}

	// Open I2C bus (adjust bus number and default address as needed)
	conn, err := i2c.New(vl53l0x.Address, *i2cbus)

	if err != nil {
		log.Fatal(err)
	}

	bus, err := vl53l0x.NewI2CTransport(conn)

	if err != nil {
		log.Fatal(err)
	}

	var sensor *vl53l0x.VL53L0X

	if *verbose {
		sensor, err = vl53l0x.NewWithLog(bus, opts, log.New(os.Stderr, "vl53l0x: ", log.LstdFlags))
	} else {
		sensor, err = vl53l0x.New(bus, opts)
	}

	if err != nil {
		conn.Close()
		log.Fatal(err)
	}

	// closing the sensor closes the I2C connection
	defer sensor.Close()

	budget, err := sensor.GetMeasurementTimingBudget()

	if err != nil {
		log.Fatalf("Get timing budget: %v", err)
	}

	limit, err := sensor.GetSignalRateLimit()

	if err != nil {
		log.Fatalf("Get signal rate limit: %v", err)
	}

	log.Printf("Timing budget: %dus, signal rate limit: %.2f MCPS\n", budget, limit)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	// take single shot readings, failed samples are discarded
	for i := 0; i < *count; i++ {

		<-ticker.C

		distance, err := sensor.Sample()

		if err != nil {
			log.Printf("Sample error: %v", err)
			continue
		}

		fmt.Printf("Distance: %d mm\n", distance)
	}
}
