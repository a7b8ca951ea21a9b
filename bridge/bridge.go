// Package bridge turns the streamer's OSC gyroscope stream into MIDI notes
// and controller changes, switching behaviour on the /opt mode.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/jsphweid/mpusynth/midi"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/oscmsg"
	"github.com/jsphweid/mpusynth/util"
	gomidi "gitlab.com/gomidi/midi/v2"
)

const (
	BaseNote        = 36
	Octaves         = 5
	DefaultVelocity = 112
	NoteChannel     = 1
	NoteHold        = 100 * time.Millisecond

	// gyroscope range the streamer's raw values are spread over
	gyrSpan = 36000.0
	accSpan = 2000.0
	ccSpan  = 18000.0

	HistoryLen = 200
)

var MajorScale = [7]uint8{0, 2, 4, 5, 7, 9, 11}

const (
	ModeNotes = iota + 1
	ModeNotesAndCC
	ModeRoll
	ModePitch
	ModeYaw
)

func ModeName(mode int) string {
	switch mode {
	case ModeNotes:
		return "Mode 1: MIDI Notes only"
	case ModeNotesAndCC:
		return "Mode 2: MIDI Notes + MIDI CC (all axes)"
	case ModeRoll:
		return "Mode 3: MIDI CC (roll/x only, channel 1)"
	case ModePitch:
		return "Mode 4: MIDI CC (pitch/y only, channel 2)"
	case ModeYaw:
		return "Mode 5: MIDI CC (yaw/z only, channel 3)"
	}
	return fmt.Sprintf("Mode %d: Unknown", mode)
}

// Scale position and octave are truncated toward zero before wrapping, so
// readings just past the span land on the lowest degree.
func NoteFor(roll, pitch float64) (note uint8, degree, octave int) {
	degree = util.FloorMod(int((pitch+gyrSpan)/(2*gyrSpan)*float64(len(MajorScale))), len(MajorScale))
	octave = util.FloorMod(int((roll+gyrSpan)/(2*gyrSpan)*Octaves), Octaves)
	return BaseNote + uint8(octave)*12 + MajorScale[degree], degree, octave
}

func Velocity(accY float64) uint8 {
	return uint8(util.Clamp((accY+accSpan)/(2*accSpan)*127, 0, 127))
}

// CCValue maps an angle onto 0..127. Values beyond a full turn are taken to
// be in tenths of a degree.
func CCValue(v float64) uint8 {
	if util.Abs(v) > 360 {
		v /= 10
	}
	return uint8(util.Clamp((v+ccSpan)/(2*ccSpan)*127, 0, 127))
}

type Bridge struct {
	Send midi.Send
	// Hold waits between a note's on and off.
	Hold func(time.Duration)

	mu      sync.Mutex
	mode    int
	accY    float64
	haveAcc bool
	gyr     *History
	acc     *History
}

func New(send midi.Send) *Bridge {
	return &Bridge{
		Send: send,
		Hold: time.Sleep,
		mode: ModeNotes,
		gyr:  NewHistory(HistoryLen),
		acc:  NewHistory(HistoryLen),
	}
}

func (b *Bridge) Mode() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

func (b *Bridge) SetMode(mode int) {
	b.mu.Lock()
	b.mode = mode
	b.mu.Unlock()
	slog.Info("bridge: mode", "mode", ModeName(mode))
}

func (b *Bridge) HandleAcc(v model.Vector3) {
	b.acc.Push(v)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accY = v.Y
	b.haveAcc = true
}

func (b *Bridge) velocity() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.haveAcc {
		return DefaultVelocity
	}
	return Velocity(b.accY)
}

func (b *Bridge) HandleGyr(v model.Vector3) error {
	b.gyr.Push(v)
	switch b.Mode() {
	case ModeNotes:
		return b.playNote(v)
	case ModeNotesAndCC:
		if err := b.playNote(v); err != nil {
			return err
		}
		return b.sendCC(
			gomidi.ControlChange(0, 11, CCValue(v.X)),
			gomidi.ControlChange(0, 12, CCValue(v.Y)),
			gomidi.ControlChange(0, 13, CCValue(v.Z)),
		)
	case ModeRoll:
		return b.sendCC(gomidi.ControlChange(0, 11, CCValue(v.X)))
	case ModePitch:
		return b.sendCC(gomidi.ControlChange(1, 12, CCValue(v.Y)))
	case ModeYaw:
		return b.sendCC(gomidi.ControlChange(2, 13, CCValue(v.Z)))
	}
	return nil
}

func (b *Bridge) playNote(v model.Vector3) error {
	note, degree, octave := NoteFor(v.X, v.Y)
	vel := b.velocity()
	if err := b.Send(gomidi.NoteOn(NoteChannel, note, vel)); err != nil {
		return fmt.Errorf("note on: %w", err)
	}
	b.Hold(NoteHold)
	if err := b.Send(gomidi.NoteOff(NoteChannel, note)); err != nil {
		return fmt.Errorf("note off: %w", err)
	}
	slog.Info("bridge: note",
		"note", note,
		"velocity", vel,
		"roll", v.X,
		"pitch", v.Y,
		"scale_degree", degree,
		"octave", octave)
	return nil
}

func (b *Bridge) sendCC(msgs ...gomidi.Message) error {
	for _, m := range msgs {
		if err := b.Send(m); err != nil {
			return fmt.Errorf("control change: %w", err)
		}
	}
	slog.Debug("bridge: cc", "messages", fmt.Sprint(msgs))
	return nil
}

func (b *Bridge) Samples() model.SamplesResponse {
	return model.SamplesResponse{
		Mode: ModeName(b.Mode()),
		Gyr:  b.gyr.Snapshot(),
		Acc:  b.acc.Snapshot(),
	}
}

// Dispatcher routes the streamer's addresses to the bridge. Malformed
// messages are logged and dropped.
func (b *Bridge) Dispatcher() (*osc.StandardDispatcher, error) {
	d := osc.NewStandardDispatcher()
	handlers := map[string]osc.HandlerFunc{
		oscmsg.AddressAcc: func(msg *osc.Message) {
			v, err := oscmsg.Vector(msg)
			if err != nil {
				slog.Debug("bridge: dropped message", "err", err)
				return
			}
			b.HandleAcc(v)
		},
		oscmsg.AddressGyr: func(msg *osc.Message) {
			v, err := oscmsg.Vector(msg)
			if err != nil {
				slog.Debug("bridge: dropped message", "err", err)
				return
			}
			if err := b.HandleGyr(v); err != nil {
				slog.Error("bridge: midi", "err", err)
			}
		},
		oscmsg.AddressOpt: func(msg *osc.Message) {
			if len(msg.Arguments) == 0 {
				return
			}
			mode, ok := oscmsg.Float(msg.Arguments[0])
			if !ok {
				slog.Debug("bridge: dropped message", "address", msg.Address, "arg", msg.Arguments[0])
				return
			}
			b.SetMode(int(mode))
		},
	}
	for addr, h := range handlers {
		if err := d.AddMsgHandler(addr, h); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Listen binds the OSC port and serves it until ctx is done.
func (b *Bridge) Listen(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("listen osc %s: %w", addr, err)
	}
	slog.Info("bridge: listening for osc", "addr", conn.LocalAddr().String())
	return b.Serve(ctx, conn)
}

// Serve handles packets from conn one at a time, in arrival order, until ctx
// is done. osc.Server.Serve would dispatch each packet on its own goroutine,
// letting a mode change overtake the gyroscope reading sent before it.
func (b *Bridge) Serve(ctx context.Context, conn net.PacketConn) error {
	d, err := b.Dispatcher()
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	server := &osc.Server{}
	for {
		p, err := server.ReceivePacket(conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) {
				return err
			}
			slog.Debug("bridge: dropped packet", "err", err)
			continue
		}
		d.Dispatch(p)
	}
}
