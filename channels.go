package rovlink

import (
	"math"

	"github.com/pkg/errors"
)

// PWM limits accepted by the autopilot, in microseconds.
const (
	PWMMin     = 1100
	PWMNeutral = 1500
	PWMMax     = 1900

	// PWMIgnore in an override slot leaves that channel's current
	// command untouched.
	PWMIgnore uint16 = 65535

	// ChannelCount is the fixed number of slots in an RC override packet.
	ChannelCount = 18

	axisScale = 400
)

// ControlChannel identifies a joystick-style control axis.
type ControlChannel int

const (
	ChannelPitch ControlChannel = iota
	ChannelRoll
	ChannelThrottle // translation on the Z axis
	ChannelYaw
	ChannelForward
	ChannelLateral
	ChannelPanCamera
	ChannelTiltCamera
	ChannelLights1
	ChannelLights2
	ChannelVideoSwitch
)

// channelIDs binds each axis to its autopilot RC channel number. IDs are
// assigned by the vehicle's channel map, not by declaration order.
var channelIDs = map[ControlChannel]int{
	ChannelPitch:       1,
	ChannelRoll:        2,
	ChannelThrottle:    3,
	ChannelYaw:         4,
	ChannelForward:     5,
	ChannelLateral:     6,
	ChannelPanCamera:   7,
	ChannelTiltCamera:  8,
	ChannelLights1:     9,
	ChannelLights2:     10,
	ChannelVideoSwitch: 11,
}

// ID returns the RC channel number for the axis, or 0 if the axis is
// unknown. 0 is outside the valid channel range so it fails validation
// downstream rather than silently landing on another channel.
func (c ControlChannel) ID() int {
	return channelIDs[c]
}

func (c ControlChannel) String() string {
	switch c {
	case ChannelPitch:
		return "pitch"
	case ChannelRoll:
		return "roll"
	case ChannelThrottle:
		return "throttle"
	case ChannelYaw:
		return "yaw"
	case ChannelForward:
		return "forward"
	case ChannelLateral:
		return "lateral"
	case ChannelPanCamera:
		return "pan-camera"
	case ChannelTiltCamera:
		return "tilt-camera"
	case ChannelLights1:
		return "lights-1"
	case ChannelLights2:
		return "lights-2"
	case ChannelVideoSwitch:
		return "video-switch"
	}
	return "unknown"
}

// MapAxis converts a normalized axis value in [-1, 1] to a PWM command.
// -1 maps to PWMMin, 0 to PWMNeutral and 1 to PWMMax. The result is
// clamped to the PWM range in case of float rounding surprises.
func MapAxis(value float64) (uint16, error) {
	if !(value >= -1 && value <= 1) {
		return 0, errors.Errorf("axis values must be between -1 and 1, not %v", value)
	}
	pwm := int(math.Round(value*axisScale + PWMNeutral))
	if pwm < PWMMin {
		pwm = PWMMin
	} else if pwm > PWMMax {
		pwm = PWMMax
	}
	return uint16(pwm), nil
}
