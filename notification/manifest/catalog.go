package manifest

import (
	"educenter.io/educenter-server/common/types"
)

// registry maps every notification type to its manifest. The unit tests
// enumerate types.AllNotificationTypes() against this map, and Validate runs
// at startup, so an entry missing here fails before any dispatch.
var registry = map[types.NotificationType]Manifest{
	types.NotificationCenterCreated: {
		Type:              types.NotificationCenterCreated,
		Group:             types.GroupManagement,
		Priority:          types.PriorityNormal,
		TemplateBase:      "center-created",
		RequiredVariables: []string{"centerName", "actorName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "Your center has been created"},
					types.ChannelInApp: {},
				},
			},
			types.AudienceAdmin: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationCenterUpdated: {
		Type:              types.NotificationCenterUpdated,
		Group:             types.GroupManagement,
		Priority:          types.PriorityLow,
		TemplateBase:      "center-updated",
		RequiredVariables: []string{"centerName", "actorName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationCenterDeleted: {
		Type:              types.NotificationCenterDeleted,
		Group:             types.GroupManagement,
		Priority:          types.PriorityHigh,
		RequiresAudit:     true,
		TemplateBase:      "center-deleted",
		RequiredVariables: []string{"centerName", "actorName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "Your center has been deleted"},
					types.ChannelInApp: {},
				},
			},
			types.AudienceStaff: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
					types.ChannelPush:  {},
				},
			},
		},
	},
	types.NotificationBranchCreated: {
		Type:              types.NotificationBranchCreated,
		Group:             types.GroupManagement,
		Priority:          types.PriorityNormal,
		TemplateBase:      "branch-created",
		RequiredVariables: []string{"centerName", "branchName", "actorName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "A new branch was added to your center"},
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationBranchUpdated: {
		Type:              types.NotificationBranchUpdated,
		Group:             types.GroupManagement,
		Priority:          types.PriorityLow,
		TemplateBase:      "branch-updated",
		RequiredVariables: []string{"centerName", "branchName", "actorName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationBranchDeleted: {
		Type:              types.NotificationBranchDeleted,
		Group:             types.GroupManagement,
		Priority:          types.PriorityHigh,
		RequiresAudit:     true,
		TemplateBase:      "branch-deleted",
		RequiredVariables: []string{"centerName", "branchName", "actorName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "A branch was removed from your center"},
					types.ChannelInApp: {},
				},
			},
			types.AudienceStaff: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
				},
				Selection: ChannelsByProfile(map[types.ProfileType][]types.NotificationChannel{
					types.ProfileStaff:   {types.ChannelInApp},
					types.ProfileTeacher: {types.ChannelInApp},
				}),
			},
		},
	},
	types.NotificationAccessGranted: {
		Type:              types.NotificationAccessGranted,
		Group:             types.GroupSecurity,
		Priority:          types.PriorityNormal,
		RequiresAudit:     true,
		TemplateBase:      "access-granted",
		RequiredVariables: []string{"branchName", "role", "granteeName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceTarget: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "You have been granted branch access"},
					types.ChannelInApp: {},
					types.ChannelPush:  {},
				},
			},
			types.AudienceOwners: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationAccessRevoked: {
		Type:              types.NotificationAccessRevoked,
		Group:             types.GroupSecurity,
		Priority:          types.PriorityHigh,
		RequiresAudit:     true,
		TemplateBase:      "access-revoked",
		RequiredVariables: []string{"branchName", "granteeName"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceTarget: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "Your branch access has been revoked"},
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationStaffInvited: {
		Type:              types.NotificationStaffInvited,
		Group:             types.GroupManagement,
		Priority:          types.PriorityNormal,
		TemplateBase:      "staff-invited",
		RequiredVariables: []string{"centerName", "inviterName", "inviteURL"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceTarget: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "You have been invited to join a center"},
					types.ChannelSMS:   {},
				},
			},
		},
	},
	types.NotificationOTP: {
		Type:              types.NotificationOTP,
		Group:             types.GroupSecurity,
		Priority:          types.PriorityCritical,
		RequiresAudit:     true,
		TemplateBase:      "otp",
		RequiredVariables: []string{"otpCode", "expiresIn"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceTarget: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail:    {Subject: "Your verification code"},
					types.ChannelSMS:      {},
					types.ChannelWhatsApp: {Template: "educenter_otp_v2"},
				},
			},
		},
	},
	types.NotificationPasswordChanged: {
		Type:              types.NotificationPasswordChanged,
		Group:             types.GroupSecurity,
		Priority:          types.PriorityHigh,
		RequiresAudit:     true,
		TemplateBase:      "password-changed",
		RequiredVariables: []string{"userName", "changedAt"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceTarget: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelEmail: {Subject: "Your password was changed"},
					types.ChannelInApp: {},
				},
			},
		},
	},
	types.NotificationSystemMaintenance: {
		Type:              types.NotificationSystemMaintenance,
		Group:             types.GroupSystem,
		Priority:          types.PriorityHigh,
		TemplateBase:      "system-maintenance",
		RequiredVariables: []string{"startTime", "duration"},
		Audiences: map[types.AudienceID]AudienceManifest{
			types.AudienceDefault: {
				Channels: map[types.NotificationChannel]ChannelManifest{
					types.ChannelInApp: {},
					types.ChannelPush:  {},
				},
				Selection: ChannelsByProfile(map[types.ProfileType][]types.NotificationChannel{
					types.ProfileOwner: {types.ChannelInApp, types.ChannelPush},
					types.ProfileAdmin: {types.ChannelInApp, types.ChannelPush},
					types.ProfileStaff: {types.ChannelInApp},
				}),
			},
		},
	},
}
