// Package devicesim serves a simulated force/torque and encoder backend
// over the same HTTP contract as the bench device server.
package devicesim

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tinytelemetry/ftscope/internal/model"
)

// Raw-unit scale factors of the bench hardware.
const (
	encoderCountsPerMM = 2000000.0
	loadCellCountsPerN = 1000.0
)

var errNotConnected = errors.New("device not connected")

// rawReading is one acquisition in hardware units.
type rawReading struct {
	fx, fy, fz, tx, ty, tz float64
	ax, ay, az, aw         float64
}

// Device simulates the load cell and the encoder interface. Readings are
// a deterministic function of the acquisition index plus seeded noise.
type Device struct {
	mu        sync.Mutex
	connected bool
	tick      int64
	samples   int64
	noise     *rand.Rand
	now       func() time.Time

	// Position tare in mm, subtracted after scaling.
	tareX, tareY, tareZ float64
	// Force/torque offsets in raw counts, subtracted before scaling.
	forceZero rawReading

	recorder *Recorder
}

// NewDevice creates a disconnected device. rec may be nil to disable
// recording files.
func NewDevice(seed uint64, rec *Recorder) *Device {
	return &Device{
		noise:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:      time.Now,
		recorder: rec,
	}
}

// Connect opens the device and a fresh recording file. It returns the
// recording filename.
func (d *Device) Connect() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := RecordingFilename(d.now())
	if d.recorder != nil {
		if err := d.recorder.Open(name); err != nil {
			return "", err
		}
	}
	d.connected = true
	return name, nil
}

// Disconnect closes the device and the recording file.
func (d *Device) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.connected = false
	if d.recorder != nil {
		return d.recorder.Close()
	}
	return nil
}

// Connected reports whether the device is open.
func (d *Device) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Read acquires one sample. When write is set the sample is appended to
// the recording file.
func (d *Device) Read(write bool) (model.Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return model.Sample{}, errNotConnected
	}

	raw := d.acquire()
	s := d.scale(raw)
	d.samples++

	if write && d.recorder != nil {
		if err := d.recorder.Append(d.now(), s); err != nil {
			return model.Sample{}, err
		}
	}
	return s, nil
}

// TareLoadCell zeroes forces and torques at their current reading.
func (d *Device) TareLoadCell() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return errNotConnected
	}
	raw := d.acquire()
	d.forceZero = rawReading{fx: raw.fx, fy: raw.fy, fz: raw.fz, tx: raw.tx, ty: raw.ty, tz: raw.tz}
	return nil
}

// TareHeiden stores the current encoder positions as the new origin.
func (d *Device) TareHeiden() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return errNotConnected
	}
	raw := d.acquire()
	d.tareX = raw.ax / encoderCountsPerMM
	d.tareY = raw.ay / encoderCountsPerMM
	d.tareZ = raw.az / encoderCountsPerMM
	return nil
}

// Samples returns how many samples were served since start.
func (d *Device) Samples() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.samples
}

// acquire advances the simulation by one step. Caller holds mu.
func (d *Device) acquire() rawReading {
	d.tick++
	t := float64(d.tick)
	jitter := func(scale float64) float64 { return (d.noise.Float64() - 0.5) * scale }

	return rawReading{
		fx: 1000 * (2*math.Sin(t*0.07) + jitter(0.2)),
		fy: 1000 * (1.5*math.Cos(t*0.05) + jitter(0.2)),
		fz: 1000 * (25 + 8*math.Sin(t*0.11) + jitter(0.5)),
		tx: 1000 * (0.3*math.Sin(t*0.09) + jitter(0.02)),
		ty: 1000 * (0.3*math.Cos(t*0.09) + jitter(0.02)),
		tz: 1000 * (0.1*math.Sin(t*0.03) + jitter(0.01)),
		ax: encoderCountsPerMM * (12.5 + 3*math.Sin(t*0.04) + jitter(0.002)),
		ay: encoderCountsPerMM * (-4 + 2*math.Cos(t*0.06) + jitter(0.002)),
		az: encoderCountsPerMM * (30 + 0.5*math.Sin(t*0.02) + jitter(0.002)),
		aw: encoderCountsPerMM * jitter(0.001),
	}
}

// scale converts raw counts to engineering units. Caller holds mu.
func (d *Device) scale(raw rawReading) model.Sample {
	return model.Sample{
		Fx: (raw.fx - d.forceZero.fx) / loadCellCountsPerN,
		Fy: (raw.fy - d.forceZero.fy) / loadCellCountsPerN,
		Fz: (raw.fz - d.forceZero.fz) / loadCellCountsPerN,
		Tx: (raw.tx - d.forceZero.tx) / loadCellCountsPerN,
		Ty: (raw.ty - d.forceZero.ty) / loadCellCountsPerN,
		Tz: (raw.tz - d.forceZero.tz) / loadCellCountsPerN,
		Ax: raw.ax/encoderCountsPerMM - d.tareX,
		Ay: raw.ay/encoderCountsPerMM - d.tareY,
		Az: raw.az/encoderCountsPerMM - d.tareZ,
		Aw: raw.aw / encoderCountsPerMM,
	}
}
