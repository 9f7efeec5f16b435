package network

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrBroadcastRejected indicates the node rejected the broadcast transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrNoRPCURL indicates no RPC endpoint was configured for the network.
	ErrNoRPCURL = errors.New("network: rpc url not configured")
)

// Node error codes worth retrying: the node is still starting, or the
// inputs are not yet visible to it.
const (
	codeInWarmup      = -28
	codeMissingInputs = -25
)

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("network: rpc error %d: %s", e.Code, e.Message)
}

// Temporary reports whether the same call may succeed later.
func (e *RPCError) Temporary() bool {
	return e.Code == codeInWarmup || e.Code == codeMissingInputs
}

// Temporary reports whether err is worth retrying: transport failures and
// node errors marked temporary.
func Temporary(err error) bool {
	if errors.Is(err, ErrConnectionFailed) {
		return true
	}
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Temporary()
}
