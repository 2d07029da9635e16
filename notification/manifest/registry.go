package manifest

import (
	"fmt"
	"strings"

	"educenter.io/educenter-server/common/types"
)

// GetManifest returns the manifest registered for the given type. A missing
// manifest can only happen when a new catalog value is added without a
// registry entry; Validate catches that at startup, never at dispatch time.
func GetManifest(t types.NotificationType) (Manifest, bool) {
	m, ok := registry[t]
	return m, ok
}

// Validate checks the registry against the full notification catalog and the
// manifest invariants. All violations are collected before returning so
// operators see the complete list in one pass.
func Validate() error {
	var violations []string

	for _, t := range types.AllNotificationTypes() {
		m, ok := registry[t]
		if !ok {
			violations = append(violations, fmt.Sprintf("notification type %s has no manifest", t))
			continue
		}
		violations = append(violations, validateManifest(m)...)
	}

	for t := range registry {
		if !isCatalogType(t) {
			violations = append(violations, fmt.Sprintf("manifest registered for unknown notification type %s", t))
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("manifest registry validation failed:\n%s", strings.Join(violations, "\n"))
	}
	return nil
}

func validateManifest(m Manifest) []string {
	var violations []string

	if m.Priority < 1 || m.Priority > 10 {
		violations = append(violations, fmt.Sprintf("%s: priority %d out of range 1-10", m.Type, m.Priority))
	}
	if m.TemplateBase == "" {
		violations = append(violations, fmt.Sprintf("%s: template base is empty", m.Type))
	}
	if len(m.Audiences) == 0 {
		violations = append(violations, fmt.Sprintf("%s: no audiences declared", m.Type))
	}

	required := make(map[string]bool, len(m.RequiredVariables))
	for _, v := range m.RequiredVariables {
		required[v] = true
	}

	for audienceID, audience := range m.Audiences {
		for channel, cfg := range audience.Channels {
			if channel == types.ChannelEmail && cfg.Subject == "" {
				violations = append(violations, fmt.Sprintf("%s/%s: email config has no subject", m.Type, audienceID))
			}
			if channel != types.ChannelEmail && cfg.Subject != "" {
				violations = append(violations, fmt.Sprintf("%s/%s/%s: subject is only valid for email", m.Type, audienceID, channel))
			}
			if channel == types.ChannelWhatsApp && cfg.Template == "" {
				violations = append(violations, fmt.Sprintf("%s/%s: whatsapp config has no approved template name", m.Type, audienceID))
			}
			// channel-level requirements must stay within the manifest union
			for _, v := range cfg.RequiredVariables {
				if !required[v] {
					violations = append(violations, fmt.Sprintf("%s/%s/%s: variable %q not in manifest required variables", m.Type, audienceID, channel, v))
				}
			}
		}
	}
	return violations
}

func isCatalogType(t types.NotificationType) bool {
	for _, known := range types.AllNotificationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// RegisteredTypes lists every type present in the registry.
func RegisteredTypes() []types.NotificationType {
	out := make([]types.NotificationType, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	return out
}
