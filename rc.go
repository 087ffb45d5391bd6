package rovlink

import (
	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// SetRCInputPWMs sends one RC override packet with the given channel-id to
// PWM assignments. Every unspecified slot carries the ignore sentinel.
//
// Validation always runs, even while disconnected, and a bad entry fails
// the whole call before anything is transmitted. A valid call made while
// not connected and armed is silently dropped: gating is a safety default,
// not an error.
func (v *VehicleControl) SetRCInputPWMs(pwms map[int]uint16) error {
	channels := [ChannelCount]uint16{}
	for i := range channels {
		channels[i] = PWMIgnore
	}

	for id, pwm := range pwms {
		if id < 1 || id > ChannelCount {
			return errors.Errorf("channel id does not exist: %d", id)
		}
		if pwm < PWMMin || pwm > PWMMax {
			return errors.Errorf("pwm values must be between %d and %d, not %d", PWMMin, PWMMax, pwm)
		}
		channels[id-1] = pwm
	}

	if !v.connected || !v.armed {
		return nil
	}

	if err := v.link.SendRCOverride(channels); err != nil {
		log.WithError(err).Error("unable to send rc override")
	}
	return nil
}

// SetRCInputs sets control axes using normalized values between -1 (full
// reverse) and 1 (full forward). Any out-of-range value aborts the whole
// call; no partial packet is ever sent.
func (v *VehicleControl) SetRCInputs(values map[ControlChannel]float64) error {
	pwms := make(map[int]uint16, len(values))
	for channel, val := range values {
		pwm, err := MapAxis(val)
		if err != nil {
			return errors.Wrapf(err, "axis %v", channel)
		}
		pwms[channel.ID()] = pwm
	}
	return v.SetRCInputPWMs(pwms)
}

// StopThrusters commands every motion axis to neutral. Used by fail-safe
// paths; the zero inputs cannot fail validation.
func (v *VehicleControl) StopThrusters() {
	_ = v.SetRCInputs(map[ControlChannel]float64{
		ChannelForward:  0,
		ChannelLateral:  0,
		ChannelThrottle: 0,
		ChannelYaw:      0,
		ChannelPitch:    0,
		ChannelRoll:     0,
	})
	log.Debug("thrusters stopped")
}
