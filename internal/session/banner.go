// internal/session/banner.go
package session

import log "github.com/sirupsen/logrus"

// Banner draws the node's status banner.
type Banner interface {
	Render(v View)
}

// Title is the banner header.
const Title = "Stridera IMU BLE Streamer"

// BannerLines returns the one or two centered lines for v.
// line2 is empty for single-line banners.
func BannerLines(v View) (line1, line2 string) {
	switch v.State {
	case StateBooting:
		return "BOOTING", ""
	case StateIdle:
		switch {
		case !v.Connected:
			return "IDLE:", "not connected / not subscribed"
		case !v.Subscribed:
			return "IDLE:", "connected / not subscribed"
		default:
			return "IDLE:", "connected / (unexpected)"
		}
	case StateStreaming:
		return "STREAMING:", "connected / subscribed"
	case StateShuttingDown:
		return "SHUTTING DOWN", ""
	default:
		return v.State.String(), ""
	}
}

// LogBanner renders the banner as a log line.
type LogBanner struct {
	Logger log.FieldLogger
}

func (b LogBanner) Render(v View) {
	l := b.Logger
	if l == nil {
		l = log.StandardLogger()
	}

	line1, line2 := BannerLines(v)
	e := l.WithField("banner", line1)
	if line2 != "" {
		e = e.WithField("detail", line2)
	}
	e.Info(Title)
}
