package rovlink

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// heartbeatTimeout is how long without a heartbeat before the link is
// declared lost.
const heartbeatTimeout = 2 * time.Second

// ModeArmedFlag is the bit in the heartbeat mode byte that reports arming.
const ModeArmedFlag byte = 0x80

// to allow testing
var timeNow = time.Now

// Update advances the connection state machine by one tick: a single
// non-blocking receive attempt followed by the timeout check. The caller
// drives it from its control loop; commands issued between ticks see the
// state as of the last Update.
//
// Losing the link forces armed to false so later actuation calls no-op.
// Thrusters are not actively re-zeroed here: with the link gone an RC
// override would not be delivered anyway.
func (v *VehicleControl) Update() {
	mode, ok := v.link.RecvHeartbeat()
	if ok {
		v.lastMsgTime = timeNow()
		if !v.connected {
			v.connected = true
			log.Info("vehicle connected")
			fire(v.cb.Connected)
		}
		v.setArmed(mode&ModeArmedFlag == ModeArmedFlag)
		return
	}

	if v.connected && timeNow().Sub(v.lastMsgTime) > heartbeatTimeout {
		v.connected = false
		log.Warn("vehicle connection lost")
		fire(v.cb.Disconnected)
		v.setArmed(false)
	}
}

func (v *VehicleControl) setArmed(armed bool) {
	if armed == v.armed {
		return
	}
	v.armed = armed
	if armed {
		log.Info("vehicle armed")
		fire(v.cb.Armed)
	} else {
		log.Info("vehicle disarmed")
		fire(v.cb.Disarmed)
	}
}

func fire(f func()) {
	if f != nil {
		f()
	}
}
