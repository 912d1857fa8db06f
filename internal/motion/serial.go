// internal/motion/serial.go
package motion

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/serial"
	log "github.com/sirupsen/logrus"
)

// ErrNoReading is returned when no fresh line has arrived from the sensor.
var ErrNoReading = errors.New("motion: no fresh sensor reading")

// SerialConfig is minimal transport config for a line-oriented serial IMU.
type SerialConfig struct {
	Address  string
	BaudRate int
	Timeout  time.Duration
	RateHz   uint8
}

// SerialAccelerometer reads "x,y,z" g-force lines from a serial IMU.
// A background goroutine keeps the latest reading; ReadG never blocks on the port.
type SerialAccelerometer struct {
	cfg  SerialConfig
	open func() (io.ReadWriteCloser, error)

	mu      sync.Mutex
	port    io.ReadWriteCloser
	x, y, z float64
	at      time.Time
	done    chan struct{}
}

func NewSerialAccelerometer(cfg SerialConfig) *SerialAccelerometer {
	return &SerialAccelerometer{
		cfg: cfg,
		open: func() (io.ReadWriteCloser, error) {
			return serial.Open(&serial.Config{
				Address:  cfg.Address,
				BaudRate: cfg.BaudRate,
				DataBits: 8,
				StopBits: 1,
				Parity:   "N",
				Timeout:  cfg.Timeout,
			})
		},
	}
}

func (s *SerialAccelerometer) Begin() error {
	p, err := s.open()
	if err != nil {
		return fmt.Errorf("motion: open serial %s: %w", s.cfg.Address, err)
	}

	s.mu.Lock()
	s.port = p
	s.at = time.Time{}
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.readLoop(p, s.done)
	return nil
}

// maxLine bounds the carry-over kept across read timeouts.
const maxLine = 256

// readLoop owns the port reader until Close or a fatal read error.
// A partial line survives serial timeouts and is completed by the next read.
func (s *SerialAccelerometer) readLoop(p io.Reader, done chan struct{}) {
	defer close(done)

	br := bufio.NewReader(p)
	var carry strings.Builder
	for {
		chunk, err := br.ReadString('\n')
		carry.WriteString(chunk)
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				if carry.Len() > maxLine {
					carry.Reset()
				}
				continue
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				log.WithError(err).Warn("motion: serial read loop stopped")
			}
			return
		}

		line := carry.String()
		carry.Reset()

		x, y, z, err := parseTriple(strings.TrimRight(line, "\r\n"))
		if err != nil {
			continue
		}

		s.mu.Lock()
		s.x, s.y, s.z = x, y, z
		s.at = time.Now()
		s.mu.Unlock()
	}
}

// ReadG returns the latest reading if it is younger than three sample periods.
func (s *SerialAccelerometer) ReadG() (float64, float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.at.IsZero() || time.Since(s.at) > 3*s.period() {
		return 0, 0, 0, ErrNoReading
	}
	return s.x, s.y, s.z, nil
}

func (s *SerialAccelerometer) SampleRateHz() uint8 {
	if s.cfg.RateHz == 0 {
		return 100
	}
	return s.cfg.RateHz
}

func (s *SerialAccelerometer) period() time.Duration {
	return time.Second / time.Duration(s.SampleRateHz())
}

// Close releases the port and waits for the reader to exit.
func (s *SerialAccelerometer) Close() error {
	s.mu.Lock()
	p, done := s.port, s.done
	s.port = nil
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	err := p.Close()
	<-done
	return err
}

// parseTriple accepts comma, tab or space separated g values.
func parseTriple(line string) (float64, float64, float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == '\t' || r == ' ' || r == '\r'
	})
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("motion: short line %q", line)
	}

	fields = fields[len(fields)-3:]
	var v [3]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("motion: bad field %q: %w", f, err)
		}
		v[i] = n
	}
	return v[0], v[1], v[2], nil
}
