package rovlink

// Relay identifies a discrete auxiliary actuator switched over the relay
// link.
type Relay int

const (
	RelayMagnet Relay = iota
	RelayPVCFront
	RelayPVCBack
	RelayClawFront
	RelayClawBack
	RelayLights
)

// relayPins binds each relay to the hardware pin driven by the relay board.
var relayPins = map[Relay]uint8{
	RelayMagnet:    0,
	RelayPVCFront:  1,
	RelayPVCBack:   2,
	RelayClawBack:  3,
	RelayClawFront: 4,
	RelayLights:    5,
}

// Pin returns the hardware pin number for the relay.
func (r Relay) Pin() uint8 {
	return relayPins[r]
}

func (r Relay) String() string {
	switch r {
	case RelayMagnet:
		return "magnet"
	case RelayPVCFront:
		return "pvc-front"
	case RelayPVCBack:
		return "pvc-back"
	case RelayClawFront:
		return "claw-front"
	case RelayClawBack:
		return "claw-back"
	case RelayLights:
		return "lights"
	}
	return "unknown"
}

// AllRelays returns every relay in a fixed order so that shutdown sweeps
// are deterministic.
func AllRelays() []Relay {
	return []Relay{
		RelayMagnet,
		RelayPVCFront,
		RelayPVCBack,
		RelayClawFront,
		RelayClawBack,
		RelayLights,
	}
}
