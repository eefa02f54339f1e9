// Package audio enumerates audio output devices (sinks) and plays test
// sounds on them. It uses malgo (miniaudio bindings) and prefers the
// PulseAudio backend, whose device IDs are the PulseAudio sink names the
// jukebox daemon expects.
package audio

import (
	"bytes"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
)

// Sink is an audio output device.
type Sink struct {
	// Index is the position in the enumeration, used for prompting.
	Index int
	// Name is the PulseAudio sink name when available, otherwise the
	// backend's device name.
	Name string
	// Description is the human readable device name.
	Description string
	IsDefault   bool
}

// audioContext wraps an initialized malgo context and remembers whether it runs
// on the PulseAudio backend.
type audioContext struct {
	*malgo.AllocatedContext
	pulse bool
}

func initContext() (*audioContext, error) {
	ctx, err := malgo.InitContext([]malgo.Backend{malgo.BackendPulseaudio}, malgo.ContextConfig{}, nil)
	if err == nil {
		return &audioContext{AllocatedContext: ctx, pulse: true}, nil
	}
	logging.Debug("PulseAudio backend unavailable, using default backends: %v", err)

	ctx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}
	return &audioContext{AllocatedContext: ctx}, nil
}

func (c *audioContext) close() {
	_ = c.Uninit()
	c.Free()
}

func (c *audioContext) playbackDevices() ([]malgo.DeviceInfo, error) {
	devices, err := c.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	return devices, nil
}

func (c *audioContext) sinkOf(index int, dev malgo.DeviceInfo) Sink {
	s := Sink{
		Index:       index,
		Name:        dev.Name(),
		Description: dev.Name(),
		IsDefault:   dev.IsDefault != 0,
	}
	if c.pulse {
		if name := pulseSinkName(dev.ID); name != "" {
			s.Name = name
		}
	}
	return s
}

// ListSinks returns the available audio outputs in backend order.
func ListSinks() ([]Sink, error) {
	ctx, err := initContext()
	if err != nil {
		return nil, err
	}
	defer ctx.close()

	devices, err := ctx.playbackDevices()
	if err != nil {
		return nil, err
	}

	sinks := make([]Sink, 0, len(devices))
	for i, dev := range devices {
		sinks = append(sinks, ctx.sinkOf(i, dev))
	}
	return sinks, nil
}

// Lister lists sinks; it exists so callers can substitute a fixed list.
type Lister interface {
	ListSinks() ([]Sink, error)
}

// System lists the sinks of the running system.
type System struct{}

// ListSinks implements Lister.
func (System) ListSinks() ([]Sink, error) { return ListSinks() }

// pulseSinkName extracts the NUL terminated sink name PulseAudio stores in
// the device ID.
func pulseSinkName(id malgo.DeviceID) string {
	raw := id[:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

// FindSink returns the sink whose Name or Description equals name.
func FindSink(sinks []Sink, name string) (Sink, bool) {
	for _, s := range sinks {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range sinks {
		if s.Description == name {
			return s, true
		}
	}
	return Sink{}, false
}
