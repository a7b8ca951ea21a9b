//go:build !tinygo

package sensor

import (
	"fmt"
	"log/slog"

	"go.bug.st/serial"
)

// OpenSerial starts reading debug lines from a board on a serial device.
func OpenSerial(name string, baud int) (*LineSource, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	slog.Info("sensor: serial port opened", "device", name, "baud", baud)
	return NewLineSource(port), nil
}
