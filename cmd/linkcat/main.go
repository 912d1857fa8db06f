// cmd/linkcat/main.go
package main

import (
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/link/tcpradio"
)

// linkcat subscribes to a node's TCP link and logs decoded samples.
func main() {
	addr := flag.String("addr", "127.0.0.1:7600", "node link address")
	count := flag.Int("n", 0, "samples to read (0 = until disconnect)")
	timeout := flag.Duration("timeout", 5*time.Second, "dial and read timeout")
	flag.Parse()

	c, err := tcpradio.Dial(*addr, *timeout)
	if err != nil {
		log.WithError(err).Fatal("dial failed")
	}
	defer c.Close()

	log.WithFields(log.Fields{
		"advert": len(c.Advert),
		"name":   scanName(c.ScanResponse),
	}).Info("connected")

	if err := c.Subscribe(true); err != nil {
		log.WithError(err).Fatal("subscribe failed")
	}

	for i := 0; *count == 0 || i < *count; i++ {
		s, err := c.NextSample(*timeout)
		if err != nil {
			log.WithError(err).Error("stream ended")
			return
		}
		log.WithFields(log.Fields{
			"ts":   s.TimestampMs,
			"ax":   s.AxMg,
			"ay":   s.AyMg,
			"az":   s.AzMg,
			"rate": s.RateHz,
		}).Info("sample")
	}

	_ = c.Subscribe(false)
}

// scanName extracts the complete local name AD structure.
func scanName(sr []byte) string {
	for len(sr) >= 2 {
		n := int(sr[0])
		if n == 0 || n+1 > len(sr) {
			break
		}
		if sr[1] == 0x09 {
			return string(sr[2 : n+1])
		}
		sr = sr[n+1:]
	}
	return ""
}
