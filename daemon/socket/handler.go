package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/xenago/libnss-shim/daemon/logging"
	"github.com/xenago/libnss-shim/daemon/providers"
)

// Handler handles socket connections and requests. It holds nothing but
// the provider, so connections can be served concurrently.
type Handler struct {
	provider   providers.DataProvider
	configPath string
	logger     *logging.Logger
}

func NewHandler(provider providers.DataProvider, configPath string) *Handler {
	return &Handler{
		provider:   provider,
		configPath: configPath,
		logger:     logging.NewLogger("socket"),
	}
}

// HandleConnection serves the single request read from conn.
func (h *Handler) HandleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var req Request
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("Error decoding request: %v", err)
		return
	}

	uid, err := callerUID(conn)
	if err != nil {
		h.logger.Debug("Unable to identify caller, treating it as unprivileged: %v", err)
	}
	h.logger.Trace("Received request from uid %d: %+v", uid, req)

	if err := encoder.Encode(h.Serve(ctx, &req, uid)); err != nil {
		h.logger.Warn("Failed to write %s response: %v", req.Op, err)
	}
}

// Serve answers req on behalf of the caller uid and returns the response
// to encode. Shadow entries hold password hashes and the backend runs with
// the daemon's privileges, so only root may look them up.
func (h *Handler) Serve(ctx context.Context, req *Request, uid uint32) interface{} {
	if h.provider == nil && req.Op != OpCheckLive {
		h.logger.Error("Data provider not initialized")
		return Result{Status: providers.StatusUnavailable.String(), Error: "service temporarily unavailable"}
	}

	if (req.Op == OpGetSpnam || req.Op == OpGetSpall) && uid != 0 {
		h.logger.Warn("Refusing %s for uid %d", req.Op, uid)
		return ShadowResponse{Result: Result{
			Status: providers.StatusUnavailable.String(),
			Error:  "shadow lookups require root",
		}}
	}

	switch req.Op {
	case OpGetPwnam:
		user, err := h.provider.GetUser(ctx, req.Username)
		h.logResult(req, err)
		return UserResponse{Result: resultOf(err), User: user}
	case OpGetPwuid:
		user, err := h.provider.GetUserByUID(ctx, req.UID)
		h.logResult(req, err)
		return UserResponse{Result: resultOf(err), User: user}
	case OpGetPwall:
		users, err := h.provider.ListUsers(ctx)
		h.logResult(req, err)
		return UserResponse{Result: resultOf(err), Users: users}
	case OpGetGrnam:
		group, err := h.provider.GetGroup(ctx, req.Groupname)
		h.logResult(req, err)
		return GroupResponse{Result: resultOf(err), Group: group}
	case OpGetGrgid:
		group, err := h.provider.GetGroupByGID(ctx, req.GID)
		h.logResult(req, err)
		return GroupResponse{Result: resultOf(err), Group: group}
	case OpGetGrall:
		groups, err := h.provider.ListGroups(ctx)
		h.logResult(req, err)
		return GroupResponse{Result: resultOf(err), Groups: groups}
	case OpGetSpnam:
		shadow, err := h.provider.GetShadow(ctx, req.Username)
		h.logResult(req, err)
		return ShadowResponse{Result: resultOf(err), Shadow: shadow}
	case OpGetSpall:
		shadows, err := h.provider.ListShadows(ctx)
		h.logResult(req, err)
		return ShadowResponse{Result: resultOf(err), Shadows: shadows}
	case OpCheckLive:
		return LiveResponse{Result: resultOf(nil), ConfigPath: h.configPath}
	default:
		h.logger.Warn("Unknown operation: %s", req.Op)
		return Result{
			Status: providers.StatusUnavailable.String(),
			Error:  fmt.Sprintf("unknown operation: %s", req.Op),
		}
	}
}

func (h *Handler) logResult(req *Request, err error) {
	if err != nil {
		h.logger.Debug("%s request failed: %v", req.Op, err)
		return
	}
	h.logger.Info("%s request succeeded", req.Op)
}
