package types

import "time"

// NotificationType identifies one kind of notification in the catalog. The
// value is stored with delivery history, so renaming an existing constant is
// a breaking change.
type NotificationType string

const (
	NotificationCenterCreated     NotificationType = "CENTER_CREATED"
	NotificationCenterUpdated     NotificationType = "CENTER_UPDATED"
	NotificationCenterDeleted     NotificationType = "CENTER_DELETED"
	NotificationBranchCreated     NotificationType = "BRANCH_CREATED"
	NotificationBranchUpdated     NotificationType = "BRANCH_UPDATED"
	NotificationBranchDeleted     NotificationType = "BRANCH_DELETED"
	NotificationAccessGranted     NotificationType = "ACCESS_GRANTED"
	NotificationAccessRevoked     NotificationType = "ACCESS_REVOKED"
	NotificationStaffInvited      NotificationType = "STAFF_INVITED"
	NotificationOTP               NotificationType = "OTP"
	NotificationPasswordChanged   NotificationType = "PASSWORD_CHANGED"
	NotificationSystemMaintenance NotificationType = "SYSTEM_MAINTENANCE"
)

// AllNotificationTypes returns every catalog value. The manifest registry
// validates itself against this list, so a new constant must be added here
// in the same change.
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationCenterCreated,
		NotificationCenterUpdated,
		NotificationCenterDeleted,
		NotificationBranchCreated,
		NotificationBranchUpdated,
		NotificationBranchDeleted,
		NotificationAccessGranted,
		NotificationAccessRevoked,
		NotificationStaffInvited,
		NotificationOTP,
		NotificationPasswordChanged,
		NotificationSystemMaintenance,
	}
}

type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelSMS      NotificationChannel = "sms"
	ChannelWhatsApp NotificationChannel = "whatsapp"
	ChannelInApp    NotificationChannel = "in-app"
	ChannelPush     NotificationChannel = "push"
)

func AllNotificationChannels() []NotificationChannel {
	return []NotificationChannel{ChannelEmail, ChannelSMS, ChannelWhatsApp, ChannelInApp, ChannelPush}
}

// NotificationGroup is a coarse category used for filtering and display,
// never for delivery decisions.
type NotificationGroup string

const (
	GroupSecurity   NotificationGroup = "security"
	GroupManagement NotificationGroup = "management"
	GroupSystem     NotificationGroup = "system"
)

// NotificationPriority ranges 1-10, higher is more urgent. Priorities at or
// above HighPriorityThreshold are published to the high priority stream.
type NotificationPriority int

const (
	PriorityLow              NotificationPriority = 1
	PriorityNormal           NotificationPriority = 4
	PriorityHigh             NotificationPriority = 7
	PriorityCritical         NotificationPriority = 10
	HighPriorityThreshold    NotificationPriority = PriorityHigh
	DefaultMessagingPriority NotificationPriority = PriorityNormal
)

// AudienceID names a recipient role within one dispatch. Free-form string;
// the constants below cover the roles the catalog uses today.
type AudienceID string

const (
	AudienceTarget   AudienceID = "TARGET"
	AudienceOwners   AudienceID = "OWNERS"
	AudienceStaff    AudienceID = "STAFF"
	AudienceTeachers AudienceID = "TEACHERS"
	AudienceParents  AudienceID = "PARENTS"
	AudienceStudents AudienceID = "STUDENTS"
	AudienceAdmin    AudienceID = "ADMIN"
	AudienceDefault  AudienceID = "DEFAULT"
)

// ProfileType is the recipient's profile kind, used by profile-scoped
// channel selections.
type ProfileType string

const (
	ProfileOwner   ProfileType = "owner"
	ProfileStaff   ProfileType = "staff"
	ProfileTeacher ProfileType = "teacher"
	ProfileParent  ProfileType = "parent"
	ProfileStudent ProfileType = "student"
	ProfileAdmin   ProfileType = "admin"
)

// RenderedNotification is the template store's output for one
// audience/channel combination. String channels fill Subject/Title/Content;
// structured channels (in-app, push) fill Fields with the decoded template
// object instead.
type RenderedNotification struct {
	Type    NotificationType    `json:"type"`
	Channel NotificationChannel `json:"channel"`
	Subject string              `json:"subject,omitempty"`
	Title   string              `json:"title,omitempty"`
	Content string              `json:"content,omitempty"`
	Fields  map[string]any      `json:"fields,omitempty"`
}

// NotificationPayload is the channel-discriminated unit handed to a sender.
type NotificationPayload interface {
	PayloadChannel() NotificationChannel
}

type EmailPayload struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTML     string   `json:"html"`
	Content  string   `json:"content"`
	Template string   `json:"template"`
}

func (EmailPayload) PayloadChannel() NotificationChannel { return ChannelEmail }

type SMSPayload struct {
	PhoneNumbers []string `json:"phone_numbers"`
	Content      string   `json:"content"`
	Template     string   `json:"template"`
}

func (SMSPayload) PayloadChannel() NotificationChannel { return ChannelSMS }

// WhatsAppParameter is one positional parameter of a pre-approved WhatsApp
// template. Order matters: parameters are matched to placeholders by index.
type WhatsAppParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type WhatsAppPayload struct {
	PhoneNumbers       []string            `json:"phone_numbers"`
	TemplateName       string              `json:"template_name"`
	TemplateParameters []WhatsAppParameter `json:"template_parameters"`
}

func (WhatsAppPayload) PayloadChannel() NotificationChannel { return ChannelWhatsApp }

type InAppPayload struct {
	UserUUIDs []string       `json:"user_uuids"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

func (InAppPayload) PayloadChannel() NotificationChannel { return ChannelInApp }

type PushPayload struct {
	UserUUIDs []string       `json:"user_uuids"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

func (PushPayload) PayloadChannel() NotificationChannel { return ChannelPush }

type NotificationsRequest struct {
	NotificationType string `json:"notification_type" form:"notification_type"`
	TitleKeyword     string `json:"title_keyword" form:"title_keyword"`
	Page             int    `json:"page" form:"page"`
	PageSize         int    `json:"page_size" form:"page_size"`
	UnreadOnly       bool   `json:"unread_only" form:"unread_only"`
}

type Notifications struct {
	ID               int64            `json:"id"`
	MsgUUID          string           `json:"msg_uuid"`
	NotificationType NotificationType `json:"notification_type"`
	Title            string           `json:"title"`
	Summary          string           `json:"summary"`
	Content          string           `json:"content"`
	ActionURL        string           `json:"action_url"`
	Priority         int              `json:"priority"`
	IsRead           bool             `json:"is_read"`
	CreatedAt        time.Time        `json:"created_at"`
}

type BatchNotificationOperationReq struct {
	MsgUUIDs []string `json:"msg_uuids"`
	MarkAll  bool     `json:"mark_all"`
}

// NewNotifications is the poll endpoint response: messages the client has
// not been shown yet, plus a hint for when to poll again.
type NewNotifications struct {
	NextPollTime time.Time       `json:"next_poll_time"`
	Data         []Notifications `json:"data"`
}

type UpdateNotificationSettingReq struct {
	SubNotificationType           []string `json:"sub_notification_type"`
	IsEmailNotificationEnabled    bool     `json:"is_email_notification_enabled"`
	EmailAddress                  string   `json:"email_address"`
	IsSMSNotificationEnabled      bool     `json:"is_sms_notification_enabled"`
	PhoneNumber                   string   `json:"phone_number"`
	IsWhatsAppNotificationEnabled bool     `json:"is_whatsapp_notification_enabled"`
	IsDoNotDisturbEnabled         bool     `json:"is_do_not_disturb_enabled"`
	MessageTTLSeconds             int64    `json:"message_ttl_seconds"`
}

type NotificationSettingResp struct {
	UserUUID                      string   `json:"user_uuid"`
	SubNotificationType           []string `json:"sub_notification_type"`
	IsEmailNotificationEnabled    bool     `json:"is_email_notification_enabled"`
	EmailAddress                  string   `json:"email_address"`
	IsSMSNotificationEnabled      bool     `json:"is_sms_notification_enabled"`
	PhoneNumber                   string   `json:"phone_number"`
	IsWhatsAppNotificationEnabled bool     `json:"is_whatsapp_notification_enabled"`
	IsDoNotDisturbEnabled         bool     `json:"is_do_not_disturb_enabled"`
	MessageTTLSeconds             int64    `json:"message_ttl_seconds"`
}
