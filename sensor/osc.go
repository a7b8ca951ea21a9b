//go:build !tinygo

package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/hypebeast/go-osc/osc"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/oscmsg"
)

// OSCSource listens for the raw /acc and /gyr stream sent by a streamer and
// serves the latest pair.
type OSCSource struct {
	mu      sync.Mutex
	raw     model.RawReading
	haveAcc bool
	haveGyr bool

	conn net.PacketConn
}

func ListenOSC(addr string) (*OSCSource, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen osc %s: %w", addr, err)
	}
	s := &OSCSource{conn: conn}
	d := osc.NewStandardDispatcher()
	if err := d.AddMsgHandler(oscmsg.AddressAcc, s.handleAcc); err != nil {
		conn.Close()
		return nil, err
	}
	if err := d.AddMsgHandler(oscmsg.AddressGyr, s.handleGyr); err != nil {
		conn.Close()
		return nil, err
	}
	server := &osc.Server{Dispatcher: d}
	go func() {
		if err := server.Serve(conn); err != nil {
			slog.Debug("sensor: osc listener stopped", "addr", addr, "err", err)
		}
	}()
	slog.Info("sensor: listening for osc", "addr", conn.LocalAddr().String())
	return s, nil
}

func (s *OSCSource) Addr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *OSCSource) handleAcc(msg *osc.Message) {
	v, err := oscmsg.Vector(msg)
	if err != nil {
		slog.Debug("sensor: bad osc message", "err", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw.Ax, s.raw.Ay, s.raw.Az = int16(v.X), int16(v.Y), int16(v.Z)
	s.haveAcc = true
}

func (s *OSCSource) handleGyr(msg *osc.Message) {
	v, err := oscmsg.Vector(msg)
	if err != nil {
		slog.Debug("sensor: bad osc message", "err", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw.Gx, s.raw.Gy, s.raw.Gz = int16(v.X), int16(v.Y), int16(v.Z)
	s.haveGyr = true
}

func (s *OSCSource) ReadRaw(ctx context.Context) (model.RawReading, error) {
	if err := ctx.Err(); err != nil {
		return model.RawReading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveAcc || !s.haveGyr {
		return model.RawReading{}, ErrNoReading
	}
	return s.raw, nil
}

func (s *OSCSource) Read(ctx context.Context) (model.Reading, error) {
	raw, err := s.ReadRaw(ctx)
	if err != nil {
		return model.Reading{}, err
	}
	return Convert(raw, AccelLSBPerG8, GyroLSBPerDeg500), nil
}

func (s *OSCSource) Close() error {
	return s.conn.Close()
}
