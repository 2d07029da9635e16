package dispatcher

import (
	"github.com/spf13/cast"
	"educenter.io/educenter-server/common/types"
)

// RecipientEnvelope is the recipient-addressing slice of an event payload.
// Producers are on independent release schedules, so every field is
// extracted defensively and missing data degrades to an empty value.
type RecipientEnvelope struct {
	Emails       []string
	PhoneNumbers []string
	UserUUIDs    []string
	Profile      types.ProfileType
	Locale       string
	CenterID     string
}

func ExtractEnvelope(params map[string]any) RecipientEnvelope {
	return RecipientEnvelope{
		Emails:       extractStrings(params, "emails", "email", "recipientEmails"),
		PhoneNumbers: extractStrings(params, "phoneNumbers", "phoneNumber", "phone"),
		UserUUIDs:    extractStrings(params, "userUuids", "userUuid", "userIds", "userId"),
		Profile:      types.ProfileType(extractString(params, "profile", "recipientProfile")),
		Locale:       extractString(params, "locale", "language"),
		CenterID:     extractString(params, "centerId", "center_id"),
	}
}

// extractStrings returns the first key holding a usable string or string
// list. Scalar values become a one-element slice; unusable shapes are
// ignored rather than propagated as errors.
func extractStrings(params map[string]any, keys ...string) []string {
	for _, key := range keys {
		v, ok := params[key]
		if !ok || v == nil {
			continue
		}
		if s, err := cast.ToStringE(v); err == nil && s != "" {
			return []string{s}
		}
		if list, err := cast.ToStringSliceE(v); err == nil && len(list) > 0 {
			out := make([]string, 0, len(list))
			for _, s := range list {
				if s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func extractString(params map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := params[key]
		if !ok || v == nil {
			continue
		}
		if s, err := cast.ToStringE(v); err == nil && s != "" {
			return s
		}
	}
	return ""
}
