package socket

import (
	"errors"
	"net"
)

// uidNobody stands for a peer whose credentials could not be read.
const uidNobody = uint32(1<<32 - 1)

var errNoPeer = errors.New("connection carries no peer credentials")

// peerUID reports the uid of the process at the other end of conn.
var peerUID = peerUIDOf

// callerUID is peerUID that falls back to uidNobody, so a caller that
// cannot be identified is never treated as privileged.
func callerUID(conn net.Conn) (uint32, error) {
	uid, err := peerUID(conn)
	if err != nil {
		return uidNobody, err
	}
	return uid, nil
}
