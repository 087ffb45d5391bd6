package rovlink

// TelemetryLink is the datagram link to the autopilot. Implementations must
// not block: RecvHeartbeat polls and returns immediately, sends are
// fire-and-forget. The mavlite package provides the UDP implementation; any
// other autopilot protocol can be swapped in behind this interface.
type TelemetryLink interface {
	// RecvHeartbeat attempts one receive. ok is false when no heartbeat
	// was available. mode carries the autopilot's base mode byte.
	RecvHeartbeat() (mode byte, ok bool)
	SendArm() error
	SendDisarm() error
	SendRCOverride(channels [ChannelCount]uint16) error
	Close() error
}

// RelayTransport is the independent byte link to the relay board.
type RelayTransport interface {
	// Connect starts a connection attempt without blocking the caller.
	// Failures are not surfaced here; a later Send reports them.
	Connect()
	Send(pin uint8, on bool) error
	Close() error
}
