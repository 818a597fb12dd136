// Package content holds the portfolio's static copy, loaded from an
// embedded YAML file.
package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var portfolioYAML []byte

// Sections the page renders, in order. Nav items must point at one of them.
var Sections = []string{"hero", "about", "skills", "projects", "experience", "contact"}

type Profile struct {
	Name     string   `yaml:"name"`
	Brand    string   `yaml:"brand"`
	Role     string   `yaml:"role"`
	Tagline  string   `yaml:"tagline"`
	Location string   `yaml:"location"`
	Resume   string   `yaml:"resume"`
	About    []string `yaml:"about"`
	Quote    string   `yaml:"quote"`
}

type NavItem struct {
	Name    string `yaml:"name"`
	Section string `yaml:"section"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
	Color string `yaml:"color"`
}

type SkillCategory struct {
	Title  string  `yaml:"title"`
	Skills []Skill `yaml:"skills"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	GitHub      string   `yaml:"github"`
	Demo        string   `yaml:"demo"`
}

type Job struct {
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Location     string   `yaml:"location"`
	Duration     string   `yaml:"duration"`
	Type         string   `yaml:"type"`
	Description  string   `yaml:"description"`
	Achievements []string `yaml:"achievements"`
	Tech         []string `yaml:"tech"`
}

type ContactInfo struct {
	Title       string `yaml:"title"`
	Value       string `yaml:"value"`
	Description string `yaml:"description"`
}

type Portfolio struct {
	Profile    Profile         `yaml:"profile"`
	Typewriter []string        `yaml:"typewriter"`
	Nav        []NavItem       `yaml:"nav"`
	Socials    []Link          `yaml:"socials"`
	Highlights []string        `yaml:"highlights"`
	Focus      []string        `yaml:"focus"`
	Skills     []SkillCategory `yaml:"skills"`
	Projects   []Project       `yaml:"projects"`
	Experience []Job           `yaml:"experience"`
	Contact    []ContactInfo   `yaml:"contact"`
	Services   []string        `yaml:"services"`
	TechStack  []string        `yaml:"tech_stack"`
}

// Load parses the embedded portfolio.
func Load() (*Portfolio, error) {
	return Parse(portfolioYAML)
}

// Parse decodes and validates a portfolio document.
func Parse(b []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Portfolio) validate() error {
	var errs []error
	if p.Profile.Name == "" {
		errs = append(errs, errors.New("profile.name is required"))
	}
	if len(p.Typewriter) == 0 {
		errs = append(errs, errors.New("typewriter script is empty"))
	}
	known := make(map[string]bool, len(Sections))
	for _, s := range Sections {
		known[s] = true
	}
	for _, n := range p.Nav {
		if !known[n.Section] {
			errs = append(errs, fmt.Errorf("nav item %q points at unknown section %q", n.Name, n.Section))
		}
	}
	for _, c := range p.Skills {
		for _, s := range c.Skills {
			if s.Level < 0 || s.Level > 100 {
				errs = append(errs, fmt.Errorf("skill %q level %d out of range", s.Name, s.Level))
			}
		}
	}
	return errors.Join(errs...)
}
