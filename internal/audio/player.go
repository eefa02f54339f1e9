package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
)

const playbackTimeout = 30 * time.Second

// Player plays sound files on one sink.
type Player struct {
	mu        sync.Mutex
	ctx       *audioContext
	sink      string
	deviceID  malgo.DeviceID
	hasDevice bool
	volume    float64
}

// NewPlayer opens a player on the sink with the given name (sink name or
// description). An empty name selects the system default output.
func NewPlayer(sink string, volume float64) (*Player, error) {
	ctx, err := initContext()
	if err != nil {
		return nil, err
	}

	p := &Player{ctx: ctx, sink: sink, volume: volume}
	if sink == "" {
		return p, nil
	}

	devices, err := ctx.playbackDevices()
	if err != nil {
		ctx.close()
		return nil, err
	}

	sinks := make([]Sink, len(devices))
	for i, dev := range devices {
		sinks[i] = ctx.sinkOf(i, dev)
	}
	found, ok := FindSink(sinks, sink)
	if !ok {
		ctx.close()
		return nil, fmt.Errorf("audio sink not found: %s", sink)
	}
	p.deviceID = devices[found.Index].ID
	p.hasDevice = true
	logging.Debug("Audio sink found: %s (%s)", found.Name, found.Description)
	return p, nil
}

// Play decodes path and blocks until playback finished or timed out.
func (p *Player) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil {
		return fmt.Errorf("player is closed")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("sound file not found: %s", path)
	}

	sound, err := decodeFile(path)
	if err != nil {
		return fmt.Errorf("failed to decode audio: %w", err)
	}
	sound.scale(p.volume)
	data := sound.bytes()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = uint32(sound.channels)
	cfg.SampleRate = sound.sampleRate
	cfg.PeriodSizeInFrames = 4096
	cfg.Periods = 4
	cfg.Alsa.NoMMap = 1
	if p.hasDevice {
		cfg.Playback.DeviceID = p.deviceID.Pointer()
	}

	var (
		pos      int
		done     = make(chan struct{})
		doneOnce sync.Once
	)
	frameBytes := sound.channels * 2
	onData := func(out, _ []byte, frames uint32) {
		n := copy(out[:min(len(out), int(frames)*frameBytes)], data[pos:])
		pos += n
		clear(out[n:])
		if pos >= len(data) {
			doneOnce.Do(func() { close(done) })
		}
	}

	device, err := malgo.InitDevice(p.ctx.AllocatedContext.Context, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return fmt.Errorf("failed to init audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	select {
	case <-done:
		// let the device buffer drain
		time.Sleep(200 * time.Millisecond)
		logging.Debug("Playback completed on %q: %s", p.sink, path)
	case <-time.After(playbackTimeout):
		logging.Warn("Playback timeout on %q: %s", p.sink, path)
	}

	_ = device.Stop()
	return nil
}

// Close releases the audio context.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		p.ctx.close()
		p.ctx = nil
	}
	return nil
}
