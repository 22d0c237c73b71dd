//go:build !tinygo && cgo

package hal

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const toneSampleRate = 48000

// toneAmplitude keeps the square wave well below full scale.
const toneAmplitude = 6000

var (
	audioOnce sync.Once
	audioCtx  *audio.Context
)

// hostTone plays the speaker PWM as a square wave through Ebiten's audio output.
type hostTone struct {
	player *audio.Player
}

func startTone(pwm *hostPWM) (*hostTone, error) {
	audioOnce.Do(func() {
		audioCtx = audio.NewContext(toneSampleRate)
	})
	p, err := audioCtx.NewPlayer(&toneReader{pwm: pwm})
	if err != nil {
		return nil, err
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.Play()
	return &hostTone{player: p}, nil
}

func (t *hostTone) Close() error {
	if t == nil || t.player == nil {
		return nil
	}
	return t.player.Close()
}

// toneReader renders the current period and pulse width as 16-bit stereo PCM.
type toneReader struct {
	pwm   *hostPWM
	phase time.Duration
}

func (r *toneReader) Read(p []byte) (int, error) {
	period, pulse := r.pwm.settings()
	step := time.Second / toneSampleRate

	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		var s int16
		if period > 0 && pulse > 0 {
			if r.phase < pulse {
				s = toneAmplitude
			} else {
				s = -toneAmplitude
			}
			r.phase = (r.phase + step) % period
		} else {
			r.phase = 0
		}
		// Ebiten audio expects 16-bit little-endian stereo.
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return n, nil
}
