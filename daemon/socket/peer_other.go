//go:build !linux

package socket

import "net"

func peerUIDOf(conn net.Conn) (uint32, error) {
	return uidNobody, errNoPeer
}
