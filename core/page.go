package core

import (
	"fmt"
	"strings"
)

type Variant string

const (
	VariantFeatures  Variant = "features"
	VariantTechStack Variant = "tech-stack"
	VariantDiagram   Variant = "diagram"

	DefaultVariant = VariantFeatures
)

// Link is a logo image wrapped in an external anchor.
type Link struct {
	Href  string `json:"href"`
	Logo  string `json:"logo"`
	Class string `json:"class"`
	Alt   string `json:"alt"`
}

type Image struct {
	Src   string `json:"src"`
	Class string `json:"class,omitempty"`
	Alt   string `json:"alt"`
}

// Page is the fixed content of one variant.
type Page struct {
	Variant     Variant  `json:"variant"`
	Logos       []Link   `json:"logos"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	ListHeading string   `json:"listHeading"`
	Items       []string `json:"items"`
	Diagram     *Image   `json:"diagram,omitempty"`
}

var (
	pipelineFeatures = []string{
		"AWS Infra is provisioned via Terraform",
		"CI/CD pipeline is managed by Jenkins",
		"Application is served by Nginx",
		"Automated builds and deployments on push",
	}

	techStack = []string{
		"Vite",
		"React",
		"TypeScript",
		"Jenkins",
		"AWS",
		"Terraform",
		"Nginx",
	}
)

func Variants() []Variant {
	return []Variant{VariantFeatures, VariantTechStack, VariantDiagram}
}

func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultVariant, nil
	}
	for _, v := range Variants() {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// PageFor returns a fresh copy of the page content for v. Callers may
// mutate the result freely.
func PageFor(v Variant) (Page, error) {
	p := Page{
		Variant: v,
		Logos: []Link{
			{Href: "https://vite.dev", Logo: "/static/vite.svg", Class: "logo", Alt: "Vite logo"},
			{Href: "https://react.dev", Logo: "/static/react.svg", Class: "logo react", Alt: "React logo"},
		},
		Title:  "Vite + React",
		Author: "By Emmanuel Romero",
	}

	switch v {
	case VariantFeatures:
		p.ListHeading = "Pipeline features"
		p.Items = append([]string(nil), pipelineFeatures...)
	case VariantTechStack:
		p.ListHeading = "Tech stack"
		p.Items = append([]string(nil), techStack...)
	case VariantDiagram:
		p.ListHeading = "Tech stack"
		p.Items = append([]string(nil), techStack...)
		p.Diagram = &Image{
			Src:   "/static/jenkins-pipeline.svg",
			Class: "pipeline-diagram",
			Alt:   "Jenkins Pipeline Diagram",
		}
	default:
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}

	return p, nil
}
