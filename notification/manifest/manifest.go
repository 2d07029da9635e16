package manifest

import (
	"sort"

	"educenter.io/educenter-server/common/types"
)

// Manifest is the declarative delivery contract for one notification type.
// Manifests are static data, assembled once at process start and never
// mutated afterwards.
type Manifest struct {
	Type          types.NotificationType
	Group         types.NotificationGroup
	Priority      types.NotificationPriority
	RequiresAudit bool
	// TemplateBase is the root path from which per-channel template paths
	// are derived when an audience's channel config does not name one.
	TemplateBase string
	// RequiredVariables is the union of every variable any audience/channel
	// combination consumes. WhatsApp parameter order follows this slice, so
	// reordering it is a behavior change for approved external templates.
	RequiredVariables []string
	Audiences         map[types.AudienceID]AudienceManifest
}

// AudienceIDs returns the manifest's audience ids in stable order.
func (m Manifest) AudienceIDs() []types.AudienceID {
	ids := make([]types.AudienceID, 0, len(m.Audiences))
	for id := range m.Audiences {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AudienceManifest describes what one named audience receives. A channel
// absent from Channels means that audience does not receive that channel.
type AudienceManifest struct {
	Channels map[types.NotificationChannel]ChannelManifest
	// Selection restricts channels per recipient profile. Nil means every
	// recipient of this audience gets all declared channels.
	Selection *ChannelSelection
}

// ChannelManifest holds one audience/channel delivery configuration.
// For WhatsApp, Template names the pre-approved external template rather
// than a file in the template store.
type ChannelManifest struct {
	Template          string
	Subject           string
	RequiredVariables []string
	DefaultLocale     string
}

// ChannelSelection is either a fixed channel list or a per-profile map.
type ChannelSelection struct {
	fixed     []types.NotificationChannel
	byProfile map[types.ProfileType][]types.NotificationChannel
}

func FixedChannels(channels ...types.NotificationChannel) *ChannelSelection {
	return &ChannelSelection{fixed: channels}
}

func ChannelsByProfile(m map[types.ProfileType][]types.NotificationChannel) *ChannelSelection {
	return &ChannelSelection{byProfile: m}
}

// Resolve returns the channels a recipient with the given profile receives.
// A profile missing from a by-profile selection falls back to in-app so the
// notification is never dropped entirely.
func (s *ChannelSelection) Resolve(profile types.ProfileType) []types.NotificationChannel {
	if s == nil {
		return nil
	}
	if s.byProfile == nil {
		return s.fixed
	}
	if channels, ok := s.byProfile[profile]; ok && len(channels) > 0 {
		return channels
	}
	return []types.NotificationChannel{types.ChannelInApp}
}

// IsByProfile reports whether resolution depends on the recipient profile.
func (s *ChannelSelection) IsByProfile() bool {
	return s != nil && s.byProfile != nil
}
