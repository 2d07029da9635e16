package payload

import (
	"encoding/json"
	"fmt"
	"reflect"

	"educenter.io/educenter-server/common/types"
	"educenter.io/educenter-server/notification/manifest"
	"educenter.io/educenter-server/notification/resolver"
)

// Envelope carries the recipient addressing a dispatch has already resolved.
// Which field the builder reads depends on the channel.
type Envelope struct {
	Emails       []string
	PhoneNumbers []string
	UserUUIDs    []string
}

// Build transforms one audience/channel dispatch into its channel payload.
// Pure: identical inputs produce structurally identical output, no clocks,
// no randomness, no I/O. A nil return means the payload cannot be built and
// the caller counts it as a failed build; Build never panics on bad input.
func Build(
	channel types.NotificationChannel,
	envelope Envelope,
	rendered types.RenderedNotification,
	templateData map[string]any,
	m manifest.Manifest,
	channelConfig resolver.ResolvedChannelConfig,
) types.NotificationPayload {
	switch channel {
	case types.ChannelEmail:
		// an email without a subject is never sent
		if rendered.Subject == "" {
			return nil
		}
		return types.EmailPayload{
			To:       envelope.Emails,
			Subject:  rendered.Subject,
			HTML:     rendered.Content,
			Content:  rendered.Content,
			Template: channelConfig.Template,
		}
	case types.ChannelSMS:
		return types.SMSPayload{
			PhoneNumbers: envelope.PhoneNumbers,
			Content:      rendered.Content,
			Template:     channelConfig.Template,
		}
	case types.ChannelWhatsApp:
		// WhatsApp ignores rendered content entirely: the pre-approved
		// template is referenced by name and filled with positional
		// parameters. Parameter order must match the manifest's declared
		// variable order, which in turn matches the approved template's
		// placeholder order.
		params := make([]types.WhatsAppParameter, 0, len(m.RequiredVariables))
		for _, name := range m.RequiredVariables {
			params = append(params, types.WhatsAppParameter{
				Type: "text",
				Text: coerceToString(templateData[name]),
			})
		}
		return types.WhatsAppPayload{
			PhoneNumbers:       envelope.PhoneNumbers,
			TemplateName:       channelConfig.Template,
			TemplateParameters: params,
		}
	case types.ChannelInApp:
		title, message, data := deriveContent(rendered, templateData)
		return types.InAppPayload{
			UserUUIDs: envelope.UserUUIDs,
			Title:     title,
			Message:   message,
			Data:      data,
		}
	case types.ChannelPush:
		title, message, data := deriveContent(rendered, templateData)
		return types.PushPayload{
			UserUUIDs: envelope.UserUUIDs,
			Title:     title,
			Message:   message,
			Data:      data,
		}
	default:
		return nil
	}
}

// deriveContent picks a title and message for structured channels: the
// content's own title, then the template data title, then a literal
// "Notification". The message comes from the content's message or content
// field; everything else in the content is carried as data.
func deriveContent(rendered types.RenderedNotification, templateData map[string]any) (title, message string, data map[string]any) {
	if v, ok := rendered.Fields["title"].(string); ok && v != "" {
		title = v
	} else if v, ok := templateData["title"].(string); ok && v != "" {
		title = v
	} else {
		title = "Notification"
	}

	if v, ok := rendered.Fields["message"].(string); ok && v != "" {
		message = v
	} else if v, ok := rendered.Fields["content"].(string); ok && v != "" {
		message = v
	} else {
		message = rendered.Content
	}

	for k, v := range rendered.Fields {
		if k == "title" || k == "message" || k == "content" {
			continue
		}
		if data == nil {
			data = make(map[string]any)
		}
		data[k] = v
	}
	return title, message, data
}

// coerceToString renders a template variable as WhatsApp parameter text:
// strings pass through, nil becomes empty, composites are JSON encoded and
// remaining primitives are formatted with fmt.
func coerceToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			b, err := json.Marshal(val)
			if err != nil {
				return fmt.Sprint(val)
			}
			return string(b)
		default:
			return fmt.Sprint(val)
		}
	}
}
