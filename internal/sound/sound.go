// Package sound plays short audible cues for timer lifecycle events.
// Cues are fire-and-forget; playback failure is logged and ignored.
package sound

import (
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
)

// Cue identifies which lifecycle event is being voiced.
type Cue string

const (
	CueStart    Cue = "start"
	CuePause    Cue = "pause"
	CueStop     Cue = "stop"
	CueComplete Cue = "complete"
)

// Player plays a cue. Implementations must not block the caller on
// playback completion.
type Player interface {
	Play(c Cue) error
}

// Beeper plays cues through the system beep. The completion cue is held
// longer so it stands out from start/stop.
type Beeper struct{}

func (Beeper) Play(c Cue) error {
	duration := beeep.DefaultDuration
	if c == CueComplete {
		duration = 3 * beeep.DefaultDuration
	}
	return beeep.Beep(beeep.DefaultFreq, duration)
}

// Muted drops all cues.
type Muted struct{}

func (Muted) Play(Cue) error { return nil }

// Safe wraps a Player so failures are logged and swallowed. A nil inner
// player is treated as muted.
type Safe struct {
	Inner  Player
	Logger *log.Logger
}

// Play fires the cue asynchronously and never reports failure to the
// caller.
func (s Safe) Play(c Cue) {
	if s.Inner == nil {
		return
	}
	go func() {
		if err := s.Inner.Play(c); err != nil && s.Logger != nil {
			s.Logger.Warn("sound cue failed", "cue", c, "err", err)
		}
	}()
}
