package socket

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

var getUcred = unix.GetsockoptUcred

// peerUIDOf reads SO_PEERCRED from a unix socket connection.
func peerUIDOf(conn net.Conn) (uint32, error) {
	ucon, ok := conn.(*net.UnixConn)
	if !ok {
		return uidNobody, errNoPeer
	}
	raw, err := ucon.SyscallConn()
	if err != nil {
		return uidNobody, fmt.Errorf("failed to access socket: %w", err)
	}

	var ucred *unix.Ucred
	var credErr error
	if err := raw.Control(func(fd uintptr) {
		ucred, credErr = getUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return uidNobody, fmt.Errorf("failed to access socket: %w", err)
	}
	if credErr != nil {
		return uidNobody, fmt.Errorf("failed to read peer credentials: %w", credErr)
	}
	return ucred.Uid, nil
}
