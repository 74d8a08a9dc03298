package audit

import "strings"

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// ParseFullMethod derives an audit action and resource from a gRPC full
// method (e.g. /ticketvault.auth.v1.AuthService/RevokeAllSessions).
// Action is a verb (get, list, create, login, logout, refresh, revoke, ...)
// and resource comes from the service name (AuthService -> auth).
func ParseFullMethod(fullMethod string) ActionResource {
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: strings.ToLower(method), Resource: "unknown"}
	}
	return ActionResource{
		Action:   methodToAction(method),
		Resource: serviceToResource(beforeSlash[dot+1:]),
	}
}

func serviceToResource(serviceName string) string {
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

func methodToAction(method string) string {
	switch {
	case strings.HasPrefix(method, "Get") && method != "Get":
		return "get"
	case strings.HasPrefix(method, "List"):
		return "list"
	case strings.HasPrefix(method, "Create"):
		return "create"
	case strings.HasPrefix(method, "Update"):
		return "update"
	case strings.HasPrefix(method, "Delete"):
		return "delete"
	case strings.HasPrefix(method, "Register"):
		return "register"
	case strings.HasPrefix(method, "Login"):
		return "login"
	case strings.HasPrefix(method, "Logout"):
		return "logout"
	case strings.HasPrefix(method, "Refresh"):
		return "refresh"
	case strings.HasPrefix(method, "Revoke"):
		return "revoke"
	default:
		return strings.ToLower(method)
	}
}
