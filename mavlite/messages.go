package mavlite

import (
	"encoding/binary"

	"github.com/deeprov/rovlink"
	"github.com/pkg/errors"
)

// EncodeHeartbeat builds a heartbeat frame carrying the autopilot mode
// byte. Bit rovlink.ModeArmedFlag reports arming.
func EncodeHeartbeat(mode byte) []byte {
	data, _ := Encode(MsgHeartbeat, []byte{mode})
	return data
}

// EncodeArmControl builds an arm (true) or disarm (false) request.
func EncodeArmControl(arm bool) []byte {
	state := byte(0)
	if arm {
		state = 1
	}
	data, _ := Encode(MsgArmControl, []byte{state})
	return data
}

// EncodeRCOverride builds an override frame of 18 little-endian uint16
// channel values in microseconds, rovlink.PWMIgnore meaning "leave this
// channel unchanged".
func EncodeRCOverride(channels [rovlink.ChannelCount]uint16) []byte {
	payload := make([]byte, rovlink.ChannelCount*2)
	for i, pwm := range channels {
		binary.LittleEndian.PutUint16(payload[i*2:], pwm)
	}
	data, _ := Encode(MsgRCOverride, payload)
	return data
}

// DecodeRCOverride unpacks an override payload.
func DecodeRCOverride(payload []byte) ([rovlink.ChannelCount]uint16, error) {
	channels := [rovlink.ChannelCount]uint16{}
	if len(payload) != rovlink.ChannelCount*2 {
		return channels, errors.Errorf("rc override payload must be %d bytes, not %d", rovlink.ChannelCount*2, len(payload))
	}
	for i := range channels {
		channels[i] = binary.LittleEndian.Uint16(payload[i*2:])
	}
	return channels, nil
}
