package rovlink

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Callbacks notify the owning application of connection and arming
// transitions. Each fires at most once per actual change. Nil entries are
// skipped, so a headless driver can subscribe to nothing.
type Callbacks struct {
	Connected    func()
	Disconnected func()
	Armed        func()
	Disarmed     func()
}

// VehicleControl owns the telemetry link, the relay transport and the
// connection/arming state. It is single-threaded by contract: Update and
// the command methods must be called from one control loop.
type VehicleControl struct {
	link  TelemetryLink
	relay RelayTransport
	cb    Callbacks

	connected   bool
	armed       bool
	lastMsgTime time.Time
}

// NewVehicleControl wires a control instance to its two transports.
func NewVehicleControl(link TelemetryLink, relay RelayTransport, cb Callbacks) *VehicleControl {
	return &VehicleControl{
		link:  link,
		relay: relay,
		cb:    cb,
	}
}

func (v *VehicleControl) IsConnected() bool {
	return v.connected
}

func (v *VehicleControl) IsArmed() bool {
	return v.armed
}

// Arm requests arming from the autopilot and starts the relay board
// connection attempt. The armed flag only changes once a heartbeat
// confirms it.
func (v *VehicleControl) Arm() {
	if err := v.link.SendArm(); err != nil {
		log.WithError(err).Error("unable to send arm request")
	} else {
		log.Info("arm command sent")
	}
	v.relay.Connect()
}

// Disarm drives every relay off before the disarm request goes out, so no
// relay can stay energized even if the disarm message itself is lost.
func (v *VehicleControl) Disarm() {
	v.TurnOffRelays()
	if err := v.link.SendDisarm(); err != nil {
		log.WithError(err).Error("unable to send disarm request")
	} else {
		log.Info("disarm command sent")
	}
}

// SetRelay switches an auxiliary actuator. Turning a relay on requires the
// vehicle to be connected and armed; turning one off is always permitted so
// fail-safe shutdown works in any state. Transport errors are logged and
// swallowed: a failed send never changes the arming or connection state.
func (v *VehicleControl) SetRelay(r Relay, on bool) {
	if on && !(v.connected && v.armed) {
		return
	}

	log.WithField("relay", r).WithField("state", on).Debug("setting relay")

	if err := v.relay.Send(r.Pin(), on); err != nil {
		log.WithError(err).WithField("relay", r).Error("unable to send relay command")
	}
}

// TurnOffRelays switches every relay off.
func (v *VehicleControl) TurnOffRelays() {
	for _, r := range AllRelays() {
		v.SetRelay(r, false)
	}
}

// Close releases both transports. Safe to call in any state.
func (v *VehicleControl) Close() error {
	err := v.link.Close()
	if relayErr := v.relay.Close(); err == nil {
		err = relayErr
	}
	return err
}
