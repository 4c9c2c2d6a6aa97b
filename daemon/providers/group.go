package providers

import (
	"strings"

	"github.com/xenago/libnss-shim/daemon/config"
)

var groupCodec = codec[Group]{
	database:   config.DatabaseGroup,
	separators: 3,
	width:      4,
	fromEntry:  groupFromEntry,
	fromLine:   groupFromLine,
}

func groupFromEntry(f fields) (*Group, error) {
	passwd, err := f.str("passwd")
	if err != nil {
		return nil, err
	}
	gid, present, err := f.uint32("gid")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, tryAgain("group %s has no gid", f.name)
	}
	members, err := f.strings("members")
	if err != nil {
		return nil, err
	}
	return &Group{Name: f.name, Passwd: passwd, GID: gid, Members: members}, nil
}

// groupFromLine decodes name:passwd:gid:member1,member2
func groupFromLine(parts []string) (*Group, error) {
	gid, err := parseFlatUint32(config.DatabaseGroup, "gid", parts[2])
	if err != nil {
		return nil, err
	}
	members := []string{}
	if m := parts[3]; m != "" {
		members = strings.Split(m, ",")
	}
	return &Group{Name: parts[0], Passwd: parts[1], GID: gid, Members: members}, nil
}

func groupName(g *Group) string { return g.Name }
func groupGID(g *Group) uint32  { return g.GID }
