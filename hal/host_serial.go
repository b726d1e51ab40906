//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// stdoutSerial is the default telemetry sink: score lines share the logger.
type stdoutSerial struct {
	log *hostLogger
}

func (s *stdoutSerial) WriteLine(line string) {
	s.log.WriteLineString(line)
}

// portSerial writes telemetry lines to a real serial device, so a terminal
// program sees the same output the hardware UART produces.
type portSerial struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// OpenSerial opens a serial device for line output.
func OpenSerial(device string, baud int) (Serial, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return &portSerial{w: port}, nil
}

func (s *portSerial) WriteLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Best effort, like the hardware UART: nobody checks the send.
	s.w.Write([]byte(line))
	s.w.Write([]byte("\r\n"))
}
