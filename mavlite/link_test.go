package mavlite

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/deeprov/rovlink"
	"github.com/stretchr/testify/assert"
)

func dialAutopilot(t *testing.T, link *Link) net.Conn {
	port := link.LocalAddr().(*net.UDPAddr).Port
	conn, err := net.Dial("udp", fmt.Sprintf("127.0.0.1:%d", port))
	assert.NoError(t, err)
	return conn
}

// recvHeartbeat polls until a heartbeat arrives; UDP delivery on loopback
// is fast but not synchronous.
func recvHeartbeat(t *testing.T, link *Link) byte {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if mode, ok := link.RecvHeartbeat(); ok {
			return mode
		}
	}
	t.Fatal("no heartbeat received")
	return 0
}

func TestRecvHeartbeat(t *testing.T) {
	link, err := Listen(0)
	assert.NoError(t, err)
	defer link.Close()

	// nothing queued: poll returns immediately with ok=false
	_, ok := link.RecvHeartbeat()
	assert.False(t, ok)

	autopilot := dialAutopilot(t, link)
	defer autopilot.Close()

	_, err = autopilot.Write(EncodeHeartbeat(0x80))
	assert.NoError(t, err)
	assert.Equal(t, byte(0x80), recvHeartbeat(t, link))
}

func TestRecvHeartbeatIgnoresGarbage(t *testing.T) {
	link, err := Listen(0)
	assert.NoError(t, err)
	defer link.Close()

	autopilot := dialAutopilot(t, link)
	defer autopilot.Close()

	_, err = autopilot.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	assert.NoError(t, err)
	_, err = autopilot.Write(EncodeArmControl(true))
	assert.NoError(t, err)
	_, err = autopilot.Write(EncodeHeartbeat(0x01))
	assert.NoError(t, err)

	// only the heartbeat surfaces
	assert.Equal(t, byte(0x01), recvHeartbeat(t, link))
}

func TestSendRequiresPeer(t *testing.T) {
	link, err := Listen(0)
	assert.NoError(t, err)
	defer link.Close()

	assert.Error(t, link.SendArm())
	assert.Error(t, link.SendDisarm())
	assert.Error(t, link.SendRCOverride([rovlink.ChannelCount]uint16{}))
}

func TestSendsReachHeartbeatPeer(t *testing.T) {
	link, err := Listen(0)
	assert.NoError(t, err)
	defer link.Close()

	autopilot := dialAutopilot(t, link)
	defer autopilot.Close()

	_, err = autopilot.Write(EncodeHeartbeat(0x00))
	assert.NoError(t, err)
	recvHeartbeat(t, link)

	assert.NoError(t, link.SendArm())

	buf := make([]byte, 512)
	assert.NoError(t, autopilot.SetReadDeadline(time.Now().Add(3*time.Second)))
	n, err := autopilot.Read(buf)
	assert.NoError(t, err)

	typ, payload, err := Decode(buf[:n])
	assert.NoError(t, err)
	assert.Equal(t, MsgArmControl, typ)
	assert.Equal(t, []byte{1}, payload)

	channels := [rovlink.ChannelCount]uint16{}
	for i := range channels {
		channels[i] = rovlink.PWMIgnore
	}
	channels[2] = 1500
	assert.NoError(t, link.SendRCOverride(channels))

	n, err = autopilot.Read(buf)
	assert.NoError(t, err)
	typ, payload, err = Decode(buf[:n])
	assert.NoError(t, err)
	assert.Equal(t, MsgRCOverride, typ)

	got, err := DecodeRCOverride(payload)
	assert.NoError(t, err)
	assert.Equal(t, channels, got)
}
