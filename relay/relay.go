// Package relay talks to the vehicle's relay board over its own TCP
// connection, independent of the telemetry link. Each command is two
// bytes: hardware pin and desired state.
package relay

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/deeprov/rovlink"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const dialTimeout = 5 * time.Second

// Client implements rovlink.RelayTransport. Connect starts a background
// dial so arming never blocks on the relay board; a connect failure only
// becomes visible when a send fails. A failed send drops the connection
// and there is no automatic reconnect: the next Arm dials again.
type Client struct {
	addr string

	mu      sync.Mutex
	conn    net.Conn
	dialing bool
}

var _ rovlink.RelayTransport = (*Client)(nil)

func New(host string, port int) *Client {
	return &Client{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
	}
}

// Connect starts a connection attempt unless one is already established or
// in flight. Returns immediately.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil || c.dialing {
		return
	}
	c.dialing = true
	go c.dial()
}

func (c *Client) dial() {
	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialing = false
	if err != nil {
		log.WithError(err).WithField("addr", c.addr).Warn("relay board connection failed")
		return
	}
	c.conn = conn
	log.WithField("addr", c.addr).Info("relay board connected")
}

// Send writes one [pin, state] command.
func (c *Client) Send(pin uint8, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New("relay board not connected")
	}

	state := byte(0)
	if on {
		state = 1
	}
	if _, err := c.conn.Write([]byte{pin, state}); err != nil {
		_ = c.conn.Close()
		c.conn = nil
		return errors.Wrap(err, "relay send failed")
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
