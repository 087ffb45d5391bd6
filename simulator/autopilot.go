// Package simulator provides an in-process stand-in for the vehicle: a
// fake autopilot on the telemetry link and a fake relay board on the relay
// link. Used by the console's testmode and by integration tests, so the
// whole control path can be exercised without hardware.
package simulator

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/deeprov/rovlink"
	"github.com/deeprov/rovlink/mavlite"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	heartbeatInterval = 250 * time.Millisecond
	readPollTimeout   = 100 * time.Millisecond
)

// Autopilot emits heartbeats to the console's telemetry port and honours
// arm/disarm requests by toggling the armed bit of subsequent heartbeats.
type Autopilot struct {
	conn *net.UDPConn

	mu           sync.Mutex
	armed        bool
	lastOverride *[rovlink.ChannelCount]uint16
}

// NewAutopilot dials the console's telemetry address, e.g. "127.0.0.1:14550".
func NewAutopilot(consoleAddr string) (*Autopilot, error) {
	addr, err := net.ResolveUDPAddr("udp", consoleAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to resolve console address %s", consoleAddr)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open autopilot socket")
	}
	return &Autopilot{conn: conn}, nil
}

// Run sends heartbeats and processes console commands until the context is
// cancelled.
func (a *Autopilot) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = a.conn.Close()
	}()

	go a.heartbeatLoop(ctx)
	a.readLoop(ctx)
}

func (a *Autopilot) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		mode := byte(0)
		if a.Armed() {
			mode |= rovlink.ModeArmedFlag
		}
		if _, err := a.conn.Write(mavlite.EncodeHeartbeat(mode)); err != nil {
			log.WithError(err).Debug("simulated heartbeat send failed")
		}
	}
}

func (a *Autopilot) readLoop(ctx context.Context) {
	buf := make([]byte, 512)
	for ctx.Err() == nil {
		if err := a.conn.SetReadDeadline(time.Now().Add(readPollTimeout)); err != nil {
			return
		}
		n, err := a.conn.Read(buf)
		if err != nil {
			if netErr, isNetErr := err.(net.Error); isNetErr && netErr.Timeout() {
				continue
			}
			return
		}
		a.handleFrame(buf[:n])
	}
}

func (a *Autopilot) handleFrame(data []byte) {
	typ, payload, err := mavlite.Decode(data)
	if err != nil {
		log.WithError(err).Debug("simulated autopilot discarding frame")
		return
	}

	switch typ {
	case mavlite.MsgArmControl:
		if len(payload) != 1 {
			return
		}
		a.setArmed(payload[0] == 1)
		log.WithField("armed", payload[0] == 1).Info("simulated autopilot arm state changed")
	case mavlite.MsgRCOverride:
		channels, err := mavlite.DecodeRCOverride(payload)
		if err != nil {
			log.WithError(err).Debug("simulated autopilot discarding rc override")
			return
		}
		a.mu.Lock()
		a.lastOverride = &channels
		a.mu.Unlock()
	}
}

func (a *Autopilot) setArmed(armed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.armed = armed
}

func (a *Autopilot) Armed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.armed
}

// LastOverride returns the most recent RC override received, if any.
func (a *Autopilot) LastOverride() ([rovlink.ChannelCount]uint16, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastOverride == nil {
		return [rovlink.ChannelCount]uint16{}, false
	}
	return *a.lastOverride, true
}
