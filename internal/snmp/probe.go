// Package snmp identifies a target switch before a configuration is pushed
// to it.
package snmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

const (
	OIDSysDescr = ".1.3.6.1.2.1.1.1.0"
	OIDSysName  = ".1.3.6.1.2.1.1.5.0"

	DefaultPort    = 161
	DefaultTimeout = 5 * time.Second
)

// SystemInfo holds the MIB-2 system group values read from a device
type SystemInfo struct {
	Description string
	Name        string
}

type getter interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
}

// Probe reads sysDescr.0 and sysName.0 from target using SNMP v2c
func Probe(ctx context.Context, target, community string, port int, timeout time.Duration) (SystemInfo, error) {
	if port == 0 {
		port = DefaultPort
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	g := &gosnmp.GoSNMP{
		Target:    target,
		Port:      uint16(port),
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   1,
		Context:   ctx,
	}
	if err := g.Connect(); err != nil {
		return SystemInfo{}, fmt.Errorf("failed to connect to switch %s via SNMP: %v", target, err)
	}
	defer g.Conn.Close()

	info, err := query(g)
	if err != nil {
		return SystemInfo{}, fmt.Errorf("SNMP probe of %s: %w", target, err)
	}
	return info, nil
}

func query(g getter) (SystemInfo, error) {
	result, err := g.Get([]string{OIDSysDescr, OIDSysName})
	if err != nil {
		return SystemInfo{}, fmt.Errorf("failed to query system group: %v", err)
	}
	return systemInfoFromPDUs(result.Variables)
}

func systemInfoFromPDUs(pdus []gosnmp.SnmpPDU) (SystemInfo, error) {
	var info SystemInfo
	found := false
	for _, pdu := range pdus {
		value, ok := octetString(pdu)
		if !ok {
			continue
		}
		switch normalizeOID(pdu.Name) {
		case OIDSysDescr:
			info.Description = value
			found = true
		case OIDSysName:
			info.Name = value
		}
	}
	if !found {
		return SystemInfo{}, fmt.Errorf("sysDescr not returned by device")
	}
	return info, nil
}

func octetString(pdu gosnmp.SnmpPDU) (string, bool) {
	if pdu.Type != gosnmp.OctetString {
		return "", false
	}
	switch v := pdu.Value.(type) {
	case []byte:
		return strings.TrimSpace(string(v)), true
	case string:
		return strings.TrimSpace(v), true
	}
	return "", false
}

func normalizeOID(oid string) string {
	if !strings.HasPrefix(oid, ".") {
		return "." + oid
	}
	return oid
}
