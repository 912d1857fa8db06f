// internal/motion/serial_test.go
package motion

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goburrow/serial"
)

type pipePort struct {
	*io.PipeReader
}

func (pipePort) Write(p []byte) (int, error) { return len(p), nil }

func TestParseTriple(t *testing.T) {
	x, y, z, err := parseTriple("123, 0.1,-0.2,\t0.98\r")
	if err != nil {
		t.Fatalf("parse err=%v", err)
	}
	if x != 0.1 || y != -0.2 || z != 0.98 {
		t.Fatalf("unexpected %v %v %v", x, y, z)
	}

	if _, _, _, err := parseTriple("1,2"); err == nil {
		t.Fatalf("expected short line error")
	}
	if _, _, _, err := parseTriple("1,x,3"); err == nil {
		t.Fatalf("expected bad field error")
	}
}

func TestSerialAccelerometer_ReadsLatestLine(t *testing.T) {
	pr, pw := io.Pipe()

	s := NewSerialAccelerometer(SerialConfig{Address: "/dev/null", RateHz: 10})
	s.open = func() (io.ReadWriteCloser, error) { return pipePort{pr}, nil }

	if _, _, _, err := s.ReadG(); !errors.Is(err, ErrNoReading) {
		t.Fatalf("expected ErrNoReading before begin, got %v", err)
	}
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin err=%v", err)
	}

	if _, err := pw.Write([]byte("0.25,0.5,1.0\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		x, y, z, err := s.ReadG()
		if err == nil {
			if x != 0.25 || y != 0.5 || z != 1.0 {
				t.Fatalf("unexpected %v %v %v", x, y, z)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no reading within deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
}

// scriptedPort replays reads in order, then blocks until closed.
type scriptedPort struct {
	reads  []scriptedRead
	closed chan struct{}
}

type scriptedRead struct {
	data string
	err  error
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.reads) > 0 {
		r := p.reads[0]
		p.reads = p.reads[1:]
		return copy(b, r.data), r.err
	}
	<-p.closed
	return 0, io.EOF
}

func (p *scriptedPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *scriptedPort) Close() error {
	close(p.closed)
	return nil
}

func TestSerialAccelerometer_TimeoutMidLineKeepsCarry(t *testing.T) {
	port := &scriptedPort{
		reads: []scriptedRead{
			{data: "1.05,-0.02,0.9"},
			{err: serial.ErrTimeout},
			{data: "8\n"},
		},
		closed: make(chan struct{}),
	}

	s := NewSerialAccelerometer(SerialConfig{Address: "/dev/null", RateHz: 10})
	s.open = func() (io.ReadWriteCloser, error) { return port, nil }
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin err=%v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		x, y, z, err := s.ReadG()
		if err == nil {
			if x != 1.05 || y != -0.02 || z != 0.98 {
				t.Fatalf("expected whole line across timeout, got %v %v %v", x, y, z)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no reading within deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
}

func TestSerialAccelerometer_OpenFailure(t *testing.T) {
	s := NewSerialAccelerometer(SerialConfig{Address: "/dev/ttyNONE"})
	s.open = func() (io.ReadWriteCloser, error) { return nil, errors.New("no such port") }

	if err := s.Begin(); err == nil {
		t.Fatalf("expected begin error")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close on unopened err=%v", err)
	}
	if s.SampleRateHz() != 100 {
		t.Fatalf("expected default rate")
	}
}
