package utils

import (
	"fmt"
	"net"
	"time"
)

// PingHostPort checks TCP reachability of a host:port pair. Used by the
// healthcheck binary to distinguish "database down" from "database up but
// refusing our credentials".
func PingHostPort(host, port string, timeout time.Duration) error {
	address := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}
