package notifications

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// Template is one message layout loaded from YAML.
type Template struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type TemplateManager struct {
	templates map[Kind]Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[Kind]Template)}
	if err := tm.load(); err != nil {
		return nil, fmt.Errorf("failed to load notification templates: %w", err)
	}
	return tm, nil
}

// Render fills {{.Field}} placeholders. Unknown placeholders are left as-is.
func (tm *TemplateManager) Render(n Notification) (subject, body string, err error) {
	tpl, ok := tm.templates[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("template not found for kind: %s", n.Kind)
	}
	pairs := make([]string, 0, len(n.Fields)*2)
	for key, value := range n.Fields {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	replacer := strings.NewReplacer(pairs...)
	return replacer.Replace(tpl.Subject), replacer.Replace(tpl.Body), nil
}

func (tm *TemplateManager) Kinds() []Kind {
	kinds := make([]Kind, 0, len(tm.templates))
	for kind := range tm.templates {
		kinds = append(kinds, kind)
	}
	return kinds
}

func (tm *TemplateManager) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tpl Template
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if tpl.Subject == "" || tpl.Body == "" {
			return fmt.Errorf("template %s needs both subject and body", entry.Name())
		}

		tm.templates[Kind(strings.TrimSuffix(entry.Name(), ".yaml"))] = tpl
	}

	return nil
}
