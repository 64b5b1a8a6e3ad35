package bootstrap

import "context"

// AuditLog captures an action worth keeping an operator-visible trace of,
// such as deleting a decided offer letter.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
