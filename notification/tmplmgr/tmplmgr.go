package tmplmgr

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"educenter.io/educenter-server/common/types"
)

//go:embed templates templates/_default
var Templates embed.FS

// subjectSeparator splits a string template's output into subject/title and
// body. Output without the separator is all body.
const subjectSeparator = "---"

// TemplateManager renders notification templates from the embedded store.
// Template paths follow the channel folder convention (email/<base>.hbs,
// sms/<base>.txt, in-app/<base>.json, push/<base>.txt) with the locale
// inserted before the extension, e.g. email/otp.en-US.hbs.
type TemplateManager struct {
	cache sync.Map
}

type cachedTemplate struct {
	template          *template.Template
	isDefaultTemplate bool
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		cache: sync.Map{},
	}
}

// Render executes the template for one channel/locale and returns the
// rendered notification. Structured channels (in-app, push) decode the
// output as JSON into Fields; string channels split subject and content on
// the separator line.
func (t *TemplateManager) Render(notificationType types.NotificationType, channel types.NotificationChannel, templatePath string, locale string, data map[string]any) (types.RenderedNotification, error) {
	rendered := types.RenderedNotification{
		Type:    notificationType,
		Channel: channel,
	}

	tmpl, err := t.lookup(channel, templatePath, locale)
	if err != nil {
		return rendered, err
	}

	var buf bytes.Buffer
	if err := tmpl.template.Execute(&buf, data); err != nil {
		return rendered, fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	if isStructuredChannel(channel) {
		fields := make(map[string]any)
		if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
			return rendered, fmt.Errorf("template %s did not produce valid JSON: %w", templatePath, err)
		}
		rendered.Fields = fields
		return rendered, nil
	}

	subject, content := parseTemplateOutput(buf.String())
	rendered.Subject = subject
	rendered.Title = subject
	rendered.Content = content
	return rendered, nil
}

// Exists reports whether a template is backed by an embedded file, either at
// the exact path or as a default-locale variant. Used by the consistency
// validator at startup.
func (t *TemplateManager) Exists(channel types.NotificationChannel, templatePath string) bool {
	if t.fileExists(templatePath) {
		return true
	}
	return t.fileExists(localeVariant(templatePath, "en-US"))
}

// HasLocale reports whether a locale-specific variant of the template
// exists. Implements the resolver's locale fallback check.
func (t *TemplateManager) HasLocale(channel types.NotificationChannel, templatePath string, locale string) bool {
	return t.fileExists(localeVariant(templatePath, locale))
}

func (t *TemplateManager) lookup(channel types.NotificationChannel, templatePath string, locale string) (cachedTemplate, error) {
	candidates := []string{localeVariant(templatePath, locale), templatePath}

	for _, candidate := range candidates {
		if cached, found := t.cache.Load(candidate); found {
			if tmpl, ok := cached.(cachedTemplate); ok {
				return tmpl, nil
			}
		}
		if !t.fileExists(candidate) {
			continue
		}
		tmpls, err := fs.Sub(Templates, "templates")
		if err != nil {
			return cachedTemplate{}, fmt.Errorf("failed to load templates: %w", err)
		}
		tmpl, err := template.ParseFS(tmpls, candidate)
		if err != nil {
			return cachedTemplate{}, fmt.Errorf("failed to parse template %s: %w", candidate, err)
		}
		cached := cachedTemplate{template: tmpl}
		t.cache.Store(candidate, cached)
		return cached, nil
	}

	slog.Info("template file not found, using default template", "path", templatePath, "locale", locale)
	return t.loadDefaultTemplate(channel, templatePath)
}

func (t *TemplateManager) loadDefaultTemplate(channel types.NotificationChannel, templatePath string) (cachedTemplate, error) {
	defaultTmplPath := fmt.Sprintf("_default/%s%s", string(channel), extension(templatePath))

	if cached, found := t.cache.Load(defaultTmplPath); found {
		if tmpl, ok := cached.(cachedTemplate); ok {
			return tmpl, nil
		}
	}

	tmpls, err := fs.Sub(Templates, "templates")
	if err != nil {
		return cachedTemplate{}, fmt.Errorf("failed to load templates: %w", err)
	}
	if _, err := tmpls.Open(defaultTmplPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cachedTemplate{}, fmt.Errorf("default template file not found: %s", defaultTmplPath)
		}
		return cachedTemplate{}, fmt.Errorf("failed to open default template file %s: %w", defaultTmplPath, err)
	}
	tmpl, err := template.ParseFS(tmpls, defaultTmplPath)
	if err != nil {
		return cachedTemplate{}, fmt.Errorf("failed to parse default template %s: %w", defaultTmplPath, err)
	}
	cached := cachedTemplate{template: tmpl, isDefaultTemplate: true}
	t.cache.Store(defaultTmplPath, cached)
	return cached, nil
}

func (t *TemplateManager) fileExists(path string) bool {
	tmpls, err := fs.Sub(Templates, "templates")
	if err != nil {
		return false
	}
	f, err := tmpls.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// parseTemplateOutput splits rendered output into subject and content on the
// first separator occurrence. No separator means the whole output is content.
func parseTemplateOutput(output string) (subject, content string) {
	before, after, found := strings.Cut(output, subjectSeparator)
	if !found {
		return "", strings.TrimSpace(output)
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// localeVariant inserts the locale before the file extension:
// email/otp.hbs + en-US -> email/otp.en-US.hbs.
func localeVariant(templatePath string, locale string) string {
	if locale == "" {
		return templatePath
	}
	ext := extension(templatePath)
	if ext == "" {
		return templatePath + "." + locale
	}
	return strings.TrimSuffix(templatePath, ext) + "." + locale + ext
}

func extension(templatePath string) string {
	idx := strings.LastIndex(templatePath, ".")
	if idx < 0 {
		return ""
	}
	return templatePath[idx:]
}

func isStructuredChannel(channel types.NotificationChannel) bool {
	return channel == types.ChannelInApp || channel == types.ChannelPush
}
