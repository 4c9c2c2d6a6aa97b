package providers

import (
	"math"
	"strconv"
	"strings"
)

// FormatGroup renders g as a group(5) line.
func FormatGroup(g *Group) string {
	return strings.Join([]string{
		g.Name,
		g.Passwd,
		strconv.FormatUint(uint64(g.GID), 10),
		strings.Join(g.Members, ","),
	}, ":")
}

// FormatUser renders u as a passwd(5) line.
func FormatUser(u *User) string {
	return strings.Join([]string{
		u.Name,
		u.Passwd,
		strconv.FormatUint(uint64(u.UID), 10),
		strconv.FormatUint(uint64(u.GID), 10),
		u.Gecos,
		u.Dir,
		u.Shell,
	}, ":")
}

// FormatShadow renders s as a shadow(5) line. Fields left at their
// defaults are written empty.
func FormatShadow(s *Shadow) string {
	parts := []string{s.Name, s.Passwd}
	for _, n := range shadowNumbers(s) {
		if *n.dst == -1 {
			parts = append(parts, "")
		} else {
			parts = append(parts, strconv.FormatInt(*n.dst, 10))
		}
	}
	if s.Reserved == math.MaxUint64 {
		parts = append(parts, "")
	} else {
		parts = append(parts, strconv.FormatUint(s.Reserved, 10))
	}
	return strings.Join(parts, ":")
}
