package network

import (
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/insomniacslk/dhcp/dhcpv6"
	"github.com/insomniacslk/dhcp/iana"
)

// DUID types (RFC 3315 section 9.1, RFC 6355).
const (
	DUIDTypeLLT  = 1
	DUIDTypeEN   = 2
	DUIDTypeLL   = 3
	DUIDTypeUUID = 4
)

const (
	// DUIDMaxDataLen is the longest DUID body, type code excluded.
	DUIDMaxDataLen = 128
	// DUIDTimeEpoch is 2000-01-01T00:00:00Z in Unix seconds, the origin of
	// DUID-LLT timestamps.
	DUIDTimeEpoch = 946684800
)

// NewDUIDLL returns a link-layer DUID for an ethernet address.
func NewDUIDLL(hw net.HardwareAddr) (dhcpv6.DUID, error) {
	if len(hw) == 0 {
		return nil, fmt.Errorf("DUID-LL needs a hardware address")
	}
	return &dhcpv6.DUIDLL{
		HWType:        iana.HWTypeEthernet,
		LinkLayerAddr: hw,
	}, nil
}

// NewDUIDLLT returns a link-layer plus time DUID generated at now.
func NewDUIDLLT(hw net.HardwareAddr, now time.Time) (dhcpv6.DUID, error) {
	if len(hw) == 0 {
		return nil, fmt.Errorf("DUID-LLT needs a hardware address")
	}
	return &dhcpv6.DUIDLLT{
		HWType:        iana.HWTypeEthernet,
		Time:          uint32(now.Unix() - DUIDTimeEpoch),
		LinkLayerAddr: hw,
	}, nil
}

// NewDUIDUUID returns a UUID based DUID.
func NewDUIDUUID(id uuid.UUID) dhcpv6.DUID {
	return &dhcpv6.DUIDUUID{UUID: [16]byte(id)}
}

// ParseDUID decodes a DUID from its wire form.
func ParseDUID(b []byte) (dhcpv6.DUID, error) {
	if len(b) < 2 || len(b) > 2+DUIDMaxDataLen {
		return nil, fmt.Errorf("invalid DUID length %d", len(b))
	}
	return dhcpv6.DUIDFromBytes(b)
}
