package socket

import "github.com/xenago/libnss-shim/daemon/providers"

// Operations understood by the daemon
const (
	OpGetPwnam  = "getpwnam"
	OpGetPwuid  = "getpwuid"
	OpGetPwall  = "getpwall"
	OpGetGrnam  = "getgrnam"
	OpGetGrgid  = "getgrgid"
	OpGetGrall  = "getgrall"
	OpGetSpnam  = "getspnam"
	OpGetSpall  = "getspall"
	OpCheckLive = "checklive"
)

// Request represents an incoming socket request
type Request struct {
	Op        string `json:"op"`
	Username  string `json:"username,omitempty"`
	Groupname string `json:"groupname,omitempty"`
	UID       uint32 `json:"uid,omitempty"`
	GID       uint32 `json:"gid,omitempty"`
}

// Result carries the lookup status shared by every response
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// UserResponse represents a passwd lookup response
type UserResponse struct {
	Result
	User  *providers.User   `json:"user,omitempty"`
	Users []*providers.User `json:"users,omitempty"`
}

// GroupResponse represents a group lookup response
type GroupResponse struct {
	Result
	Group  *providers.Group   `json:"group,omitempty"`
	Groups []*providers.Group `json:"groups,omitempty"`
}

// ShadowResponse represents a shadow lookup response
type ShadowResponse struct {
	Result
	Shadow  *providers.Shadow   `json:"shadow,omitempty"`
	Shadows []*providers.Shadow `json:"shadows,omitempty"`
}

// LiveResponse represents a liveness response
type LiveResponse struct {
	Result
	ConfigPath string `json:"config_path,omitempty"`
}

// Err returns the failure carried by r as a *providers.Error, or nil on
// success.
func (r Result) Err() error {
	status, err := providers.ParseStatus(r.Status)
	if err != nil {
		return &providers.Error{Status: providers.StatusUnavailable, Err: err}
	}
	if status == providers.StatusSuccess {
		return nil
	}
	return &providers.Error{Status: status, Err: errorString(r.Error)}
}

type errorString string

func (e errorString) Error() string { return string(e) }

func resultOf(err error) Result {
	status := providers.StatusOf(err)
	r := Result{Status: status.String()}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
