package eventmap

import (
	"log/slog"
	"strings"

	"educenter.io/educenter-server/common/types"
)

// eventRegistry maps domain event identifiers to notification types. The
// mapping is intentionally partial: events without an entry produce no
// notification at all.
var eventRegistry = map[types.EventIdentifier]types.NotificationType{
	"center.created":         types.NotificationCenterCreated,
	"center.updated":         types.NotificationCenterUpdated,
	"center.deleted":         types.NotificationCenterDeleted,
	"branch.created":         types.NotificationBranchCreated,
	"branch.updated":         types.NotificationBranchUpdated,
	"branch.deleted":         types.NotificationBranchDeleted,
	"access.granted":         types.NotificationAccessGranted,
	"access.revoked":         types.NotificationAccessRevoked,
	"staff.invited":          types.NotificationStaffInvited,
	"auth.otp_requested":     types.NotificationOTP,
	"auth.password_changed":  types.NotificationPasswordChanged,
	"system.maintenance_due": types.NotificationSystemMaintenance,
}

// MapEvent resolves an event identifier to its notification type. The second
// return is false when no notification is desired for the event.
func MapEvent(eventID types.EventIdentifier) (types.NotificationType, bool) {
	nt, ok := eventRegistry[eventID]
	return nt, ok
}

// MappedEvents returns every event identifier with a mapping, for the
// consistency validator.
func MappedEvents() []types.EventIdentifier {
	out := make([]types.EventIdentifier, 0, len(eventRegistry))
	for id := range eventRegistry {
		out = append(out, id)
	}
	return out
}

// UnmappedSeverity picks the log level for an event that has no mapping.
// New event types land faster than mappings are curated, and a silently
// dropped security or destructive event must not read as info-level noise.
func UnmappedSeverity(eventID types.EventIdentifier) slog.Level {
	name := strings.ToUpper(string(eventID))
	switch {
	case containsAny(name, "SYSTEM", "CRITICAL", "FAILURE"):
		return slog.LevelError
	case containsAny(name, "AUTH", "SECURITY", "PASSWORD", "OTP"):
		return slog.LevelWarn
	case containsAny(name, "DELETE", "REMOVE"):
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
