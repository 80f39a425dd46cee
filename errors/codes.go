package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeAborted marks a call that was cancelled or timed out.
	ErrCodeAborted ErrorCode = "ABORTED"
	// ErrCodeNetwork marks a call that was sent but never got a response.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeSetup marks a call that could not be built or decoded.
	ErrCodeSetup ErrorCode = "SETUP_ERROR"
	// ErrCodeNoRefreshToken marks a refresh attempted without a stored refresh token.
	ErrCodeNoRefreshToken ErrorCode = "NO_REFRESH_TOKEN"
)

// Kind is the classification of a ClientError.
type Kind int

const (
	KindAborted Kind = iota + 1
	KindServer
	KindNetwork
	KindSetup
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindSetup:
		return "setup"
	default:
		return "unknown"
	}
}
