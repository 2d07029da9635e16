package varcheck

import (
	"fmt"
	"log/slog"
	"strings"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/eventmap"
	"educenter.io/educenter-server/notification/manifest"
	"educenter.io/educenter-server/notification/resolver"
)

// TemplateChecker is the template store lookup used to verify that declared
// templates are actually backed by files.
type TemplateChecker interface {
	Exists(channel types.NotificationChannel, templatePath string) bool
}

// CheckConsistency verifies, for every event mapping, that the mapped
// notification type has a registry manifest and that every audience/channel
// it declares has a backing template. All violations are collected before
// deciding pass/fail: operators need the full list, not the first hit.
//
// In strict mode (CI, production) any violation is fatal. In dev mode every
// violation is logged as a warning and startup continues, so incomplete
// translations do not block local development.
func CheckConsistency(checker TemplateChecker, strict bool) error {
	violations := collectViolations(checker)
	if len(violations) == 0 {
		return nil
	}
	if strict {
		return fmt.Errorf("notification consistency check failed with %d violation(s):\n%s",
			len(violations), strings.Join(violations, "\n"))
	}
	for _, v := range violations {
		slog.Warn("notification consistency violation", "violation", v)
	}
	return nil
}

func collectViolations(checker TemplateChecker) []string {
	var violations []string

	if err := manifest.Validate(); err != nil {
		violations = append(violations, err.Error())
	}

	for _, eventID := range eventmap.MappedEvents() {
		nt, _ := eventmap.MapEvent(eventID)
		m, ok := manifest.GetManifest(nt)
		if !ok {
			violations = append(violations, fmt.Sprintf("event %s maps to %s which has no manifest", eventID, nt))
			continue
		}

		for audienceID, audience := range m.Audiences {
			for channel := range audience.Channels {
				if channel == types.ChannelWhatsApp {
					// whatsapp uses pre-approved external templates; the
					// registry already enforces a non-empty template name
					continue
				}
				cfg, ok := resolver.ResolveChannelConfig(m, audienceID, channel)
				if !ok {
					continue
				}
				if !checker.Exists(channel, cfg.Template) {
					violations = append(violations, fmt.Sprintf("%s/%s/%s: template %s not found in template store",
						nt, audienceID, channel, cfg.Template))
				}
			}
		}
	}
	return violations
}
