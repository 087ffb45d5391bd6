package simulator

import (
	"context"
	"io"
	"net"
	"sync"

	log "github.com/sirupsen/logrus"
)

// RelayCommand is one 2-byte command as received by the relay board.
type RelayCommand struct {
	Pin uint8
	On  bool
}

// RelayBox is a fake relay board: a TCP listener that records every 2-byte
// command it receives.
type RelayBox struct {
	ln net.Listener

	mu   sync.Mutex
	cmds []RelayCommand
}

// NewRelayBox listens on the given TCP address, e.g. "127.0.0.1:0".
func NewRelayBox(addr string) (*RelayBox, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &RelayBox{ln: ln}, nil
}

// Addr returns the listen address, useful with an ephemeral port.
func (b *RelayBox) Addr() *net.TCPAddr {
	return b.ln.Addr().(*net.TCPAddr)
}

// Run accepts console connections until the context is cancelled.
func (b *RelayBox) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = b.ln.Close()
	}()

	for {
		conn, err := b.ln.Accept()
		if err != nil {
			return
		}
		go b.serve(conn)
	}
}

func (b *RelayBox) serve(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		cmd := RelayCommand{Pin: buf[0], On: buf[1] == 1}
		log.WithField("pin", cmd.Pin).WithField("on", cmd.On).Info("simulated relay switched")

		b.mu.Lock()
		b.cmds = append(b.cmds, cmd)
		b.mu.Unlock()
	}
}

// Commands returns a copy of every command received so far.
func (b *RelayBox) Commands() []RelayCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RelayCommand(nil), b.cmds...)
}
