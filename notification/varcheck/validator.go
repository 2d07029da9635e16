package varcheck

import (
	"fmt"
	"log/slog"
	"sort"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/manifest"
)

// VariableResult reports the outcome of one audience/channel variable check.
type VariableResult struct {
	Valid   bool
	Missing []string
}

// ValidateVariables checks that templateData carries every variable the
// targeted audience/channel requires. The required set is the channel
// override when one is declared, otherwise the manifest-level union; the
// registry guarantees the override is a subset of the union.
func ValidateVariables(m manifest.Manifest, audienceID types.AudienceID, channel types.NotificationChannel, templateData map[string]any) VariableResult {
	required := m.RequiredVariables
	if audience, ok := m.Audiences[audienceID]; ok {
		if cfg, ok := audience.Channels[channel]; ok && len(cfg.RequiredVariables) > 0 {
			required = cfg.RequiredVariables
		}
	}

	var missing []string
	for _, name := range required {
		if v, ok := templateData[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return VariableResult{Valid: len(missing) == 0, Missing: missing}
}

// UnionRequiredVariables computes the variables needed across the audiences
// one dispatch actually targets, so missing-variable detection runs once per
// dispatch rather than once per channel.
func UnionRequiredVariables(m manifest.Manifest, audienceIDs []types.AudienceID) []string {
	seen := make(map[string]bool)
	var union []string
	add := func(names []string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				union = append(union, name)
			}
		}
	}
	for _, audienceID := range audienceIDs {
		audience, ok := m.Audiences[audienceID]
		if !ok {
			continue
		}
		for _, cfg := range audience.Channels {
			if len(cfg.RequiredVariables) > 0 {
				add(cfg.RequiredVariables)
			} else {
				add(m.RequiredVariables)
			}
		}
	}
	sort.Strings(union)
	return union
}

// VariableGate applies the strict/dev policy to a validation result. Strict
// mode turns missing variables into an error that aborts the dispatch; dev
// mode logs a warning and reports the audience/channel as skippable, leaving
// sibling audiences unaffected.
type VariableGate struct {
	Strict bool
}

// Check returns skip=true when the audience/channel should be silently
// skipped (dev mode with missing variables). The error is non-nil only in
// strict mode.
func (g VariableGate) Check(m manifest.Manifest, audienceID types.AudienceID, channel types.NotificationChannel, templateData map[string]any) (skip bool, err error) {
	result := ValidateVariables(m, audienceID, channel, templateData)
	if result.Valid {
		return false, nil
	}
	if g.Strict {
		return false, fmt.Errorf("notification %s audience %s channel %s missing required variables %v", m.Type, audienceID, channel, result.Missing)
	}
	slog.Warn("missing required template variables, skipping audience/channel",
		"notification_type", m.Type,
		"audience", audienceID,
		"channel", channel,
		"missing", result.Missing)
	return true, nil
}
