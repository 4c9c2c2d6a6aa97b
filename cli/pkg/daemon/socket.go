package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/xenago/libnss-shim/daemon/providers"
	"github.com/xenago/libnss-shim/daemon/socket"
)

// SocketClient queries the shim daemon over its unix socket. It satisfies
// providers.DataProvider, so callers can use it in place of an in-process
// provider.
type SocketClient struct {
	socketPath string
	timeout    time.Duration
}

var _ providers.DataProvider = (*SocketClient)(nil)

// NewSocketClient creates a new socket client
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SetTimeout sets the connection timeout
func (c *SocketClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// roundTrip sends req and decodes the reply into resp. A daemon that
// cannot be reached is reported as Unavailable.
func (c *SocketClient) roundTrip(ctx context.Context, req *socket.Request, resp interface{}) error {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return &providers.Error{
			Status: providers.StatusUnavailable,
			Err:    fmt.Errorf("failed to connect to daemon socket: %w", err),
		}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return &providers.Error{
			Status: providers.StatusUnavailable,
			Err:    fmt.Errorf("failed to send request: %w", err),
		}
	}

	if err := json.NewDecoder(conn).Decode(resp); err != nil {
		return &providers.Error{
			Status: providers.StatusTryAgain,
			Err:    fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// CheckLive asks the daemon whether it is serving.
func (c *SocketClient) CheckLive(ctx context.Context) (*socket.LiveResponse, error) {
	var resp socket.LiveResponse
	if err := c.roundTrip(ctx, &socket.Request{Op: socket.OpCheckLive}, &resp); err != nil {
		return nil, err
	}
	return &resp, resp.Err()
}

func (c *SocketClient) users(ctx context.Context, req *socket.Request) (*socket.UserResponse, error) {
	var resp socket.UserResponse
	if err := c.roundTrip(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, resp.Err()
}

func (c *SocketClient) groups(ctx context.Context, req *socket.Request) (*socket.GroupResponse, error) {
	var resp socket.GroupResponse
	if err := c.roundTrip(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, resp.Err()
}

func (c *SocketClient) shadows(ctx context.Context, req *socket.Request) (*socket.ShadowResponse, error) {
	var resp socket.ShadowResponse
	if err := c.roundTrip(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, resp.Err()
}

func (c *SocketClient) ListGroups(ctx context.Context) ([]*providers.Group, error) {
	resp, err := c.groups(ctx, &socket.Request{Op: socket.OpGetGrall})
	if err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

func (c *SocketClient) GetGroupByGID(ctx context.Context, gid uint32) (*providers.Group, error) {
	resp, err := c.groups(ctx, &socket.Request{Op: socket.OpGetGrgid, GID: gid})
	if err != nil {
		return nil, err
	}
	return resp.Group, nil
}

func (c *SocketClient) GetGroup(ctx context.Context, groupname string) (*providers.Group, error) {
	resp, err := c.groups(ctx, &socket.Request{Op: socket.OpGetGrnam, Groupname: groupname})
	if err != nil {
		return nil, err
	}
	return resp.Group, nil
}

func (c *SocketClient) ListUsers(ctx context.Context) ([]*providers.User, error) {
	resp, err := c.users(ctx, &socket.Request{Op: socket.OpGetPwall})
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *SocketClient) GetUserByUID(ctx context.Context, uid uint32) (*providers.User, error) {
	resp, err := c.users(ctx, &socket.Request{Op: socket.OpGetPwuid, UID: uid})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *SocketClient) GetUser(ctx context.Context, username string) (*providers.User, error) {
	resp, err := c.users(ctx, &socket.Request{Op: socket.OpGetPwnam, Username: username})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *SocketClient) ListShadows(ctx context.Context) ([]*providers.Shadow, error) {
	resp, err := c.shadows(ctx, &socket.Request{Op: socket.OpGetSpall})
	if err != nil {
		return nil, err
	}
	return resp.Shadows, nil
}

func (c *SocketClient) GetShadow(ctx context.Context, username string) (*providers.Shadow, error) {
	resp, err := c.shadows(ctx, &socket.Request{Op: socket.OpGetSpnam, Username: username})
	if err != nil {
		return nil, err
	}
	return resp.Shadow, nil
}
