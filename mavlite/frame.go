// Package mavlite implements the compact framed datagram protocol spoken
// between the operator console and the autopilot: a heartbeat carrying the
// mode byte, arm/disarm control, and RC channel overrides. The framing is
// deliberately minimal; swapping a full autopilot protocol underneath only
// requires another implementation of rovlink.TelemetryLink.
package mavlite

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/pkg/errors"
)

// Layout: Magic(1) | PayloadLen(1) | Type(1) | Payload(0-64) | CRC32(4)
// CRC32 (IEEE, little endian) covers PayloadLen, Type and Payload.

const (
	frameMagic byte = 0xFE

	headerSize     = 3
	crcSize        = 4
	maxPayloadSize = 64

	MsgHeartbeat  byte = 0x00
	MsgArmControl byte = 0x01
	MsgRCOverride byte = 0x02
)

// Encode frames a message type and payload.
func Encode(typ byte, payload []byte) ([]byte, error) {
	if len(payload) > maxPayloadSize {
		return nil, errors.Errorf("payload too large: %d bytes", len(payload))
	}
	data := make([]byte, headerSize+len(payload)+crcSize)
	data[0] = frameMagic
	data[1] = byte(len(payload))
	data[2] = typ
	copy(data[headerSize:], payload)

	crc := crc32.ChecksumIEEE(data[1 : headerSize+len(payload)])
	binary.LittleEndian.PutUint32(data[headerSize+len(payload):], crc)
	return data, nil
}

// Decode validates framing and CRC and returns the message type and
// payload. The payload aliases data; callers that keep it must copy.
func Decode(data []byte) (typ byte, payload []byte, err error) {
	if len(data) < headerSize+crcSize {
		return 0, nil, errors.Errorf("frame too short: %d bytes", len(data))
	}
	if data[0] != frameMagic {
		return 0, nil, errors.Errorf("bad frame magic: %#x", data[0])
	}
	payloadLen := int(data[1])
	if payloadLen > maxPayloadSize {
		return 0, nil, errors.Errorf("payload length too large: %d", payloadLen)
	}
	if len(data) != headerSize+payloadLen+crcSize {
		return 0, nil, errors.Errorf("frame length %d does not match payload length %d", len(data), payloadLen)
	}

	crcPos := headerSize + payloadLen
	wantCRC := binary.LittleEndian.Uint32(data[crcPos:])
	if crc := crc32.ChecksumIEEE(data[1:crcPos]); crc != wantCRC {
		return 0, nil, errors.Errorf("crc mismatch: %#x != %#x", crc, wantCRC)
	}

	return data[2], data[headerSize:crcPos], nil
}
