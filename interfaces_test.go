package rovlink

import (
	"fmt"
	"time"
)

// recorder keeps a combined ordering of operations across both stub
// transports so tests can assert sequencing, e.g. relays off before the
// disarm request.
type recorder struct {
	ops []string
}

func (r *recorder) add(op string) {
	r.ops = append(r.ops, op)
}

type linkStub struct {
	rec     *recorder
	pending []byte // queued heartbeat mode bytes

	armCalls    int
	disarmCalls int
	closeCalls  int
	overrides   [][ChannelCount]uint16
	sendErr     error
}

func (l *linkStub) pushHeartbeat(mode byte) {
	l.pending = append(l.pending, mode)
}

func (l *linkStub) RecvHeartbeat() (byte, bool) {
	if len(l.pending) == 0 {
		return 0, false
	}
	mode := l.pending[0]
	l.pending = l.pending[1:]
	return mode, true
}

func (l *linkStub) SendArm() error {
	l.armCalls++
	l.rec.add("arm")
	return l.sendErr
}

func (l *linkStub) SendDisarm() error {
	l.disarmCalls++
	l.rec.add("disarm")
	return l.sendErr
}

func (l *linkStub) SendRCOverride(channels [ChannelCount]uint16) error {
	l.overrides = append(l.overrides, channels)
	l.rec.add("override")
	return l.sendErr
}

func (l *linkStub) Close() error {
	l.closeCalls++
	return nil
}

type relayCmd struct {
	pin uint8
	on  bool
}

type relayStub struct {
	rec *recorder

	connectCalls int
	closeCalls   int
	cmds         []relayCmd
	sendErr      error
}

func (r *relayStub) Connect() {
	r.connectCalls++
}

func (r *relayStub) Send(pin uint8, on bool) error {
	r.rec.add(fmt.Sprintf("relay %d %v", pin, on))
	if r.sendErr != nil {
		return r.sendErr
	}
	r.cmds = append(r.cmds, relayCmd{pin: pin, on: on})
	return nil
}

func (r *relayStub) Close() error {
	r.closeCalls++
	return nil
}

type eventCounts struct {
	connected    int
	disconnected int
	armed        int
	disarmed     int
}

func newTestVehicle() (*VehicleControl, *linkStub, *relayStub, *eventCounts) {
	rec := &recorder{}
	link := &linkStub{rec: rec}
	relay := &relayStub{rec: rec}
	events := &eventCounts{}
	v := NewVehicleControl(link, relay, Callbacks{
		Connected:    func() { events.connected++ },
		Disconnected: func() { events.disconnected++ },
		Armed:        func() { events.armed++ },
		Disarmed:     func() { events.disarmed++ },
	})
	return v, link, relay, events
}

// stubClock replaces timeNow with a manually advanced clock.
func stubClock() (*time.Time, func()) {
	origNow := timeNow
	current := time.Unix(1000, 0)
	timeNow = func() time.Time { return current }
	return &current, func() { timeNow = origNow }
}

// connectAndArm drives the vehicle into the Connected-Armed state via a
// single armed heartbeat.
func connectAndArm(v *VehicleControl, link *linkStub) {
	link.pushHeartbeat(ModeArmedFlag)
	v.Update()
}
