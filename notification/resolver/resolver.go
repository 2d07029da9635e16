package resolver

import (
	"fmt"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/manifest"
)

// DefaultLocale is the process-wide last resort of locale resolution.
// Overridable through config at wiring time.
const DefaultLocale = "en-US"

// channel folder and extension conventions for template paths derived from
// a manifest's TemplateBase. The only implicit default in resolution.
var channelTemplateConventions = map[types.NotificationChannel]struct {
	folder    string
	extension string
}{
	types.ChannelEmail:    {"email", ".hbs"},
	types.ChannelSMS:      {"sms", ".txt"},
	types.ChannelWhatsApp: {"whatsapp", ".txt"},
	types.ChannelInApp:    {"in-app", ".json"},
	types.ChannelPush:     {"push", ".txt"},
}

// ResolvedChannelConfig is the effective delivery configuration for one
// audience/channel, with template path derivation and locale fallback applied.
type ResolvedChannelConfig struct {
	Template          string
	Subject           string
	Locale            string
	RequiredVariables []string
}

// LocaleChecker reports whether a locale-specific template variant exists.
// Implemented by the template store.
type LocaleChecker interface {
	HasLocale(channel types.NotificationChannel, template string, locale string) bool
}

// ResolveChannelConfig returns the effective channel configuration, or false
// when the audience or channel is absent from the manifest. Absence is
// intentional suppression, not an error.
func ResolveChannelConfig(m manifest.Manifest, audienceID types.AudienceID, channel types.NotificationChannel) (ResolvedChannelConfig, bool) {
	audience, ok := m.Audiences[audienceID]
	if !ok {
		return ResolvedChannelConfig{}, false
	}
	cfg, ok := audience.Channels[channel]
	if !ok {
		return ResolvedChannelConfig{}, false
	}

	resolved := ResolvedChannelConfig{
		Template:          cfg.Template,
		Subject:           cfg.Subject,
		Locale:            cfg.DefaultLocale,
		RequiredVariables: cfg.RequiredVariables,
	}
	if resolved.Template == "" {
		resolved.Template = TemplatePath(channel, m.TemplateBase)
	}
	if resolved.Locale == "" {
		resolved.Locale = DefaultLocale
	}
	return resolved, true
}

// ResolveLocale applies the locale fallback chain: requested, channel
// default, process default. The result records whether a fallback occurred.
func ResolveLocale(checker LocaleChecker, channel types.NotificationChannel, template string, requested string, channelDefault string) (locale string, usedFallback bool) {
	if requested != "" && checker.HasLocale(channel, template, requested) {
		return requested, false
	}
	if channelDefault != "" && checker.HasLocale(channel, template, channelDefault) {
		return channelDefault, true
	}
	return DefaultLocale, true
}

// ResolveChannels expands an audience's declared channels for one recipient
// profile. Profile-scoped audiences never drop the recipient entirely: an
// unknown profile resolves to in-app.
func ResolveChannels(audience manifest.AudienceManifest, profile types.ProfileType) []types.NotificationChannel {
	if audience.Selection != nil {
		return audience.Selection.Resolve(profile)
	}
	channels := make([]types.NotificationChannel, 0, len(audience.Channels))
	for _, ch := range types.AllNotificationChannels() {
		if _, ok := audience.Channels[ch]; ok {
			channels = append(channels, ch)
		}
	}
	return channels
}

// TemplatePath derives the conventional template path for a channel from a
// template base, e.g. "email/otp.hbs".
func TemplatePath(channel types.NotificationChannel, base string) string {
	conv, ok := channelTemplateConventions[channel]
	if !ok {
		return base
	}
	return fmt.Sprintf("%s/%s%s", conv.folder, base, conv.extension)
}
