package providers

import (
	"context"
	"math"
)

// User represents a passwd entry
type User struct {
	Name   string `json:"name"`
	Passwd string `json:"passwd"`
	UID    uint32 `json:"uid"`
	GID    uint32 `json:"gid"`
	Gecos  string `json:"gecos"`
	Dir    string `json:"dir"`
	Shell  string `json:"shell"`
}

// Group represents a group entry
type Group struct {
	Name    string   `json:"name"`
	Passwd  string   `json:"passwd"`
	GID     uint32   `json:"gid"`
	Members []string `json:"members"`
}

// Shadow represents a shadow entry. Numeric fields the backend did not
// supply hold -1, Reserved holds math.MaxUint64.
type Shadow struct {
	Name         string `json:"name"`
	Passwd       string `json:"passwd"`
	LastChange   int64  `json:"last_change"`
	MinDays      int64  `json:"change_min_days"`
	MaxDays      int64  `json:"change_max_days"`
	WarnDays     int64  `json:"change_warn_days"`
	InactiveDays int64  `json:"change_inactive_days"`
	ExpireDate   int64  `json:"expire_date"`
	Reserved     uint64 `json:"reserved"`
}

// NewShadow returns a shadow entry for name with every optional field at
// its default.
func NewShadow(name string) *Shadow {
	return &Shadow{
		Name:         name,
		LastChange:   -1,
		MinDays:      -1,
		MaxDays:      -1,
		WarnDays:     -1,
		InactiveDays: -1,
		ExpireDate:   -1,
		Reserved:     math.MaxUint64,
	}
}

// DataProvider defines the lookups an NSS caller can make. Every non-nil
// error is an *Error carrying the status to report.
type DataProvider interface {
	ListGroups(ctx context.Context) ([]*Group, error)
	GetGroupByGID(ctx context.Context, gid uint32) (*Group, error)
	GetGroup(ctx context.Context, groupname string) (*Group, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetUserByUID(ctx context.Context, uid uint32) (*User, error)
	GetUser(ctx context.Context, username string) (*User, error)
	ListShadows(ctx context.Context) ([]*Shadow, error)
	GetShadow(ctx context.Context, username string) (*Shadow, error)
}
