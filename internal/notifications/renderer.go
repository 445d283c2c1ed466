package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/status"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const statusChangeTemplate = "status_change"

// Renderer renders notifications from templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer creates a new renderer and loads all templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title":       titleCase,
		"label":       status.Label,
		"formatTime":  formatTime,
		"statusEmoji": statusEmoji,
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
	}

	for _, name := range []string{statusChangeTemplate} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)

		content, err := templatesFS.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", filename, err)
		}

		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return r, nil
}

// Render renders a status change. Returns subject, body and accent color.
func (r *Renderer) Render(payload ChangePayload) (subject, body, color string, err error) {
	tmpl, ok := r.templates[statusChangeTemplate]
	if !ok {
		return "", "", "", fmt.Errorf("template not found: %s", statusChangeTemplate)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload); err != nil {
		return "", "", "", fmt.Errorf("execute template %s: %w", statusChangeTemplate, err)
	}

	return renderSubject(payload), strings.TrimSpace(buf.String()), statusColor(payload.NewStatus), nil
}

func renderSubject(payload ChangePayload) string {
	var prefix string
	switch payload.Kind {
	case ChangeKindDegraded:
		prefix = "Degraded"
	case ChangeKindRecovered:
		prefix = "Recovered"
	case ChangeKindMaintenance:
		prefix = "Maintenance"
	default:
		prefix = titleCase(string(ChangeKindChanged))
	}
	return fmt.Sprintf("[%s] %s: %s", prefix, payload.ServiceName, status.Label(payload.NewStatus))
}

// Template functions

var titleCaser = cases.Title(language.English)

func titleCase(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

func statusEmoji(s string) string {
	switch domain.ServiceStatus(s) {
	case domain.ServiceStatusOperational:
		return "✅"
	case domain.ServiceStatusDegraded:
		return "🟡"
	case domain.ServiceStatusPartialOutage:
		return "🟠"
	case domain.ServiceStatusMajorOutage:
		return "🔴"
	case domain.ServiceStatusMaintenance:
		return "🔧"
	default:
		return "📋"
	}
}

func statusColor(s string) string {
	switch domain.ServiceStatus(s) {
	case domain.ServiceStatusOperational:
		return "#2eb886"
	case domain.ServiceStatusDegraded:
		return "#f2c744"
	case domain.ServiceStatusPartialOutage:
		return "#f08c00"
	case domain.ServiceStatusMajorOutage:
		return "#d0021b"
	case domain.ServiceStatusMaintenance:
		return "#4a90d9"
	default:
		return ""
	}
}
