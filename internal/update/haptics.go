package update

import (
	"io"
	"os"
	"time"
)

// Haptics gives short physical feedback after a successful add. Terminals
// have no vibration, so the closest thing is the bell.
type Haptics interface {
	Pulse(d time.Duration) error
}

type NoopHaptics struct{}

func (NoopHaptics) Pulse(time.Duration) error { return nil }

type BellHaptics struct {
	Out io.Writer
}

func (b BellHaptics) Pulse(time.Duration) error {
	out := b.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := io.WriteString(out, "\a")
	return err
}

// HapticsFor picks the bell when enabled and a no-op otherwise.
func HapticsFor(enabled bool) Haptics {
	if enabled {
		return BellHaptics{}
	}
	return NoopHaptics{}
}

// pulse never surfaces failure to the user.
func (m Model) pulse() {
	if err := m.haptics.Pulse(m.ui.HapticPulse()); err != nil {
		m.logger.Warn("haptic pulse failed", "err", err)
	}
}
