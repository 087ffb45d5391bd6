package mavlite

import (
	"net"
	"time"

	"github.com/deeprov/rovlink"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// pollTimeout bounds a single receive attempt. The control loop ticks at
// tens of hertz, so a receive may stall it for at most this long.
const pollTimeout = time.Millisecond

// Link is the UDP implementation of rovlink.TelemetryLink. The console
// listens on a local port and learns the autopilot's address from the
// source of the last heartbeat, so outbound commands always go to the peer
// that is actually alive.
type Link struct {
	conn *net.UDPConn
	peer *net.UDPAddr
	buf  [512]byte
}

var _ rovlink.TelemetryLink = (*Link)(nil)

// Listen opens the telemetry socket on the given local UDP port. Port 0
// picks an ephemeral port.
func Listen(port int) (*Link, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to listen on udp port %d", port)
	}
	log.WithField("addr", conn.LocalAddr()).Info("telemetry link listening")
	return &Link{conn: conn}, nil
}

// LocalAddr returns the bound telemetry address.
func (l *Link) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// RecvHeartbeat polls the socket for one datagram. Non-heartbeat and
// malformed frames are discarded. Returns ok=false when nothing useful
// arrived within the poll window.
func (l *Link) RecvHeartbeat() (mode byte, ok bool) {
	if err := l.conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		log.WithError(err).Error("unable to set telemetry read deadline")
		return 0, false
	}
	n, addr, err := l.conn.ReadFromUDP(l.buf[:])
	if err != nil {
		if netErr, isNetErr := err.(net.Error); !isNetErr || !netErr.Timeout() {
			log.WithError(err).Warn("telemetry receive failed")
		}
		return 0, false
	}

	typ, payload, err := Decode(l.buf[:n])
	if err != nil {
		log.WithError(err).Debug("discarding malformed telemetry frame")
		return 0, false
	}
	if typ != MsgHeartbeat || len(payload) != 1 {
		return 0, false
	}

	l.peer = addr
	return payload[0], true
}

func (l *Link) SendArm() error {
	return l.send(EncodeArmControl(true))
}

func (l *Link) SendDisarm() error {
	return l.send(EncodeArmControl(false))
}

func (l *Link) SendRCOverride(channels [rovlink.ChannelCount]uint16) error {
	return l.send(EncodeRCOverride(channels))
}

func (l *Link) Close() error {
	return l.conn.Close()
}

func (l *Link) send(frame []byte) error {
	if l.peer == nil {
		return errors.New("no autopilot heartbeat seen yet")
	}
	if _, err := l.conn.WriteToUDP(frame, l.peer); err != nil {
		return errors.Wrap(err, "telemetry send failed")
	}
	return nil
}
