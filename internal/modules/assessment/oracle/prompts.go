package oracle

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`

	userTmpl *template.Template
}

type promptSet struct {
	Question promptPair `yaml:"question"`
	Grade    promptPair `yaml:"grade"`
}

func loadPrompts(raw []byte) (*promptSet, error) {
	var ps promptSet
	if err := yaml.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	for name, p := range map[string]*promptPair{"question": &ps.Question, "grade": &ps.Grade} {
		if strings.TrimSpace(p.System) == "" || strings.TrimSpace(p.User) == "" {
			return nil, fmt.Errorf("prompt %q incomplete", name)
		}
		t, err := template.New(name).Option("missingkey=zero").Parse(p.User)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", name, err)
		}
		p.userTmpl = t
	}
	return &ps, nil
}

func (p *promptPair) render(data any) (system string, user string, err error) {
	var b strings.Builder
	if err := p.userTmpl.Execute(&b, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(p.System), strings.TrimSpace(b.String()), nil
}
