// Package sim replays scripted board inputs on the host simulator.
package sim

import (
	"fmt"
	"os"
	"sort"
	"time"

	"boardloop/hal"
	"boardloop/internal/mathx"

	"gopkg.in/yaml.v3"
)

// maxAccel is the largest magnitude per axis the script may set, in g.
const maxAccel = 8

// Script is a timeline of input changes.
type Script struct {
	Name string `yaml:"name"`
	// LoopMS restarts the timeline after this many milliseconds (0 = play once).
	LoopMS int64  `yaml:"loop_ms"`
	Steps  []Step `yaml:"steps"`
}

// Step sets the listed inputs at AtMS milliseconds after boot.
// Absent fields leave the input unchanged.
type Step struct {
	AtMS     int64     `yaml:"at_ms"`
	Pots     *Pots     `yaml:"pots,omitempty"`
	Joystick *[]string `yaml:"joystick,omitempty"` // pressed contacts; [] releases all
	Button   *bool     `yaml:"button,omitempty"`
	Accel    *Accel    `yaml:"accel,omitempty"`
	Temp     *float32  `yaml:"temp,omitempty"`
}

type Pots struct {
	Left  *float32 `yaml:"left,omitempty"`
	Right *float32 `yaml:"right,omitempty"`
}

type Accel struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

var joystickNames = map[string]hal.JoystickPin{
	"center": hal.JoyCenter,
	"up":     hal.JoyUp,
	"down":   hal.JoyDown,
	"left":   hal.JoyLeft,
	"right":  hal.JoyRight,
}

// Load reads and validates a YAML script.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// Validate checks the script and orders its steps by time.
func Validate(s *Script) error {
	if s.LoopMS < 0 {
		return fmt.Errorf("loop_ms must be >= 0")
	}
	for i, st := range s.Steps {
		if st.AtMS < 0 {
			return fmt.Errorf("step %d: at_ms must be >= 0", i)
		}
		if s.LoopMS > 0 && st.AtMS >= s.LoopMS {
			return fmt.Errorf("step %d: at_ms %d is past loop_ms %d", i, st.AtMS, s.LoopMS)
		}
		if st.Pots != nil {
			for name, v := range map[string]*float32{"left": st.Pots.Left, "right": st.Pots.Right} {
				if v != nil && (*v < 0 || *v > 1) {
					return fmt.Errorf("step %d: pots.%s must be in [0, 1], got %v", i, name, *v)
				}
			}
		}
		if st.Joystick != nil {
			for _, name := range *st.Joystick {
				if _, ok := joystickNames[name]; !ok {
					return fmt.Errorf("step %d: unknown joystick direction %q", i, name)
				}
			}
		}
		if a := st.Accel; a != nil {
			if mathx.Abs(a.X) > maxAccel || mathx.Abs(a.Y) > maxAccel || mathx.Abs(a.Z) > maxAccel {
				return fmt.Errorf("step %d: accel axes must be within ±%dg", i, maxAccel)
			}
		}
	}

	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].AtMS < s.Steps[j].AtMS })
	return nil
}

// Duration returns the time of the last step, or the loop length.
func (s *Script) Duration() time.Duration {
	if s.LoopMS > 0 {
		return time.Duration(s.LoopMS) * time.Millisecond
	}
	if len(s.Steps) == 0 {
		return 0
	}
	return time.Duration(s.Steps[len(s.Steps)-1].AtMS) * time.Millisecond
}

func (st Step) apply(in hal.Stimulus) {
	if st.Pots != nil {
		if st.Pots.Left != nil {
			in.SetPot(hal.PotLeft, *st.Pots.Left)
		}
		if st.Pots.Right != nil {
			in.SetPot(hal.PotRight, *st.Pots.Right)
		}
	}
	if st.Joystick != nil {
		var pressed [hal.JoyPinCount]bool
		for _, name := range *st.Joystick {
			pressed[joystickNames[name]] = true
		}
		for pin, on := range pressed {
			in.SetJoystick(hal.JoystickPin(pin), on)
		}
	}
	if st.Button != nil {
		in.SetButton(*st.Button)
	}
	if st.Accel != nil {
		in.SetAcceleration(st.Accel.X, st.Accel.Y, st.Accel.Z)
	}
	if st.Temp != nil {
		in.SetTemperature(*st.Temp)
	}
}
