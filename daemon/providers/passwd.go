package providers

import (
	"github.com/xenago/libnss-shim/daemon/config"
)

var passwdCodec = codec[User]{
	database:   config.DatabasePasswd,
	separators: 6,
	width:      7,
	fromEntry:  userFromEntry,
	fromLine:   userFromLine,
}

func userFromEntry(f fields) (*User, error) {
	u := &User{Name: f.name}
	var err error
	if u.Passwd, err = f.str("passwd"); err != nil {
		return nil, err
	}

	var present bool
	if u.UID, present, err = f.uint32("uid"); err != nil {
		return nil, err
	} else if !present {
		return nil, tryAgain("user %s has no uid", f.name)
	}
	if u.GID, present, err = f.uint32("gid"); err != nil {
		return nil, err
	} else if !present {
		return nil, tryAgain("user %s has no gid", f.name)
	}

	if u.Gecos, err = f.str("gecos"); err != nil {
		return nil, err
	}
	if u.Dir, err = f.str("dir"); err != nil {
		return nil, err
	}
	if u.Shell, err = f.str("shell"); err != nil {
		return nil, err
	}
	return u, nil
}

// userFromLine decodes name:passwd:uid:gid:gecos:dir:shell
func userFromLine(parts []string) (*User, error) {
	uid, err := parseFlatUint32(config.DatabasePasswd, "uid", parts[2])
	if err != nil {
		return nil, err
	}
	gid, err := parseFlatUint32(config.DatabasePasswd, "gid", parts[3])
	if err != nil {
		return nil, err
	}
	return &User{
		Name:   parts[0],
		Passwd: parts[1],
		UID:    uid,
		GID:    gid,
		Gecos:  parts[4],
		Dir:    parts[5],
		Shell:  parts[6],
	}, nil
}

func userName(u *User) string { return u.Name }
func userUID(u *User) uint32  { return u.UID }
