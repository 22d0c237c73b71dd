package state

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// Slot identifies one shared reading.
type Slot uint8

const (
	SlotPotLeft Slot = iota
	SlotPotRight
	SlotJoystick
	SlotAccel
	SlotTemperature
	SlotButton

	slotCount
)

func (s Slot) String() string {
	switch s {
	case SlotPotLeft:
		return "pot-left"
	case SlotPotRight:
		return "pot-right"
	case SlotJoystick:
		return "joystick"
	case SlotAccel:
		return "accel"
	case SlotTemperature:
		return "temperature"
	case SlotButton:
		return "button"
	default:
		return "unknown"
	}
}

// JoystickUnset is returned by Store.Joystick before the first write.
const JoystickUnset = ' '

var (
	ErrSlotClaimed = errors.New("state: slot already claimed")
	ErrBadSlot     = errors.New("state: no such slot")
)

// Vec3 is an accelerometer triple.
type Vec3 struct {
	X, Y, Z float32
}

type float32Cell struct {
	bits atomic.Uint32
}

func (c *float32Cell) load() float32   { return math.Float32frombits(c.bits.Load()) }
func (c *float32Cell) store(v float32) { c.bits.Store(math.Float32bits(v)) }

// Store holds the six shared readings.
//
// There is no lock. Each value lives in its own atomic cell and has exactly one
// writer, so single reads never tear. Reads across slots (and across the three
// accelerometer axes) are independent and may mix old and new values.
type Store struct {
	potLeft  float32Cell
	potRight float32Cell
	joystick atomic.Int32
	accel    [3]float32Cell
	temp     float32Cell
	button   atomic.Bool

	seq    [slotCount]atomic.Uint32
	owners [slotCount]atomic.Pointer[Writer]
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Claim hands out exclusive write access to slots.
//
// A slot can be claimed once for the lifetime of the store.
func (s *Store) Claim(owner string, slots ...Slot) (*Writer, error) {
	w := &Writer{s: s, owner: owner}
	for i, slot := range slots {
		if slot >= slotCount {
			s.release(w, slots[:i])
			return nil, fmt.Errorf("%w: %d", ErrBadSlot, slot)
		}
		if !s.owners[slot].CompareAndSwap(nil, w) {
			s.release(w, slots[:i])
			return nil, fmt.Errorf("%w: %s owned by %q", ErrSlotClaimed, slot, s.Owner(slot))
		}
		w.mask |= 1 << slot
	}
	return w, nil
}

func (s *Store) release(w *Writer, slots []Slot) {
	for _, slot := range slots {
		s.owners[slot].CompareAndSwap(w, nil)
	}
}

// Owner returns the name of the writer holding slot, or "".
func (s *Store) Owner(slot Slot) string {
	if slot >= slotCount {
		return ""
	}
	if w := s.owners[slot].Load(); w != nil {
		return w.owner
	}
	return ""
}

// Seq returns the number of writes to slot so far.
func (s *Store) Seq(slot Slot) uint32 {
	if slot >= slotCount {
		return 0
	}
	return s.seq[slot].Load()
}

func (s *Store) PotLeft() float32     { return s.potLeft.load() }
func (s *Store) PotRight() float32    { return s.potRight.load() }
func (s *Store) Temperature() float32 { return s.temp.load() }
func (s *Store) ButtonPressed() bool  { return s.button.Load() }

// Joystick returns the last joystick symbol, or JoystickUnset.
func (s *Store) Joystick() rune {
	r := rune(s.joystick.Load())
	if r == 0 {
		return JoystickUnset
	}
	return r
}

// Accel reads the three axes one after another.
func (s *Store) Accel() Vec3 {
	return Vec3{
		X: s.accel[0].load(),
		Y: s.accel[1].load(),
		Z: s.accel[2].load(),
	}
}

// Readings is a slot-by-slot copy of the store.
type Readings struct {
	PotLeft     float32
	PotRight    float32
	Joystick    rune
	Accel       Vec3
	Temperature float32
	Button      bool
}

// Snapshot copies every slot in turn. It is not atomic across slots.
func (s *Store) Snapshot() Readings {
	return Readings{
		PotLeft:     s.PotLeft(),
		PotRight:    s.PotRight(),
		Joystick:    s.Joystick(),
		Accel:       s.Accel(),
		Temperature: s.Temperature(),
		Button:      s.ButtonPressed(),
	}
}

// Writer is the single-writer handle for a set of slots.
type Writer struct {
	s     *Store
	owner string
	mask  uint32
}

// Owner returns the name the writer was claimed with.
func (w *Writer) Owner() string { return w.owner }

// Owns reports whether w may write slot.
func (w *Writer) Owns(slot Slot) bool {
	return w != nil && slot < slotCount && w.mask&(1<<slot) != 0
}

func (w *Writer) check(slot Slot) {
	if !w.Owns(slot) {
		owner := "<nil>"
		if w != nil {
			owner = w.owner
		}
		panic(fmt.Sprintf("state: writer %q does not own slot %s", owner, slot))
	}
}

func (w *Writer) bump(slot Slot) {
	w.s.seq[slot].Add(1)
}

// SetFloat writes one of the scalar float slots.
func (w *Writer) SetFloat(slot Slot, v float32) {
	w.check(slot)
	switch slot {
	case SlotPotLeft:
		w.s.potLeft.store(v)
	case SlotPotRight:
		w.s.potRight.store(v)
	case SlotTemperature:
		w.s.temp.store(v)
	default:
		panic(fmt.Sprintf("state: slot %s is not a float", slot))
	}
	w.bump(slot)
}

// SetJoystick writes the joystick symbol.
func (w *Writer) SetJoystick(r rune) {
	w.check(SlotJoystick)
	w.s.joystick.Store(int32(r))
	w.bump(SlotJoystick)
}

// SetAccel writes the three axes one after another.
func (w *Writer) SetAccel(v Vec3) {
	w.check(SlotAccel)
	w.s.accel[0].store(v.X)
	w.s.accel[1].store(v.Y)
	w.s.accel[2].store(v.Z)
	w.bump(SlotAccel)
}

// SetButton writes the button flag.
func (w *Writer) SetButton(pressed bool) {
	w.check(SlotButton)
	w.s.button.Store(pressed)
	w.bump(SlotButton)
}
