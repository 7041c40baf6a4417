// Package practices holds the curated checklist of modern software delivery
// practices that every iteration report carries.
package practices

// Section groups related practices under a discipline heading.
type Section struct {
	Name  string
	Items []string
}

var catalogue = []Section{
	{
		Name: "architecture",
		Items: []string{
			"Document architecture decisions through Architecture Decision Records (ADRs).",
			"Design for scalability and resilience using modular components and clear interfaces.",
			"Prioritize security and privacy from the architecture phase onward.",
		},
	},
	{
		Name: "development",
		Items: []string{
			"Adopt trunk-based development with short-lived feature branches.",
			"Mandate peer code reviews before merging any change.",
			"Automate builds, dependency scanning, and static analysis.",
			"Favor clean code principles, SOLID design, and idiomatic language constructs.",
		},
	},
	{
		Name: "testing",
		Items: []string{
			"Automate unit, integration, and end-to-end tests with clear ownership.",
			"Maintain high coverage on critical paths and verify non-functional requirements.",
			"Incorporate test data management and observability-driven validation.",
		},
	},
	{
		Name: "process",
		Items: []string{
			"Use sprint reviews, retrospectives, and daily stand-ups to inspect and adapt.",
			"Track work through transparent Kanban or sprint boards with clear Definition of Done.",
			"Integrate continuous deployment practices with feature flags and staged rollouts.",
		},
	},
}

// Sections returns a copy of the catalogue in its fixed order.
func Sections() []Section {
	out := make([]Section, len(catalogue))
	for i, section := range catalogue {
		out[i] = Section{Name: section.Name, Items: append([]string{}, section.Items...)}
	}
	return out
}

// Lookup returns the practices of one section.
func Lookup(name string) ([]string, bool) {
	for _, section := range catalogue {
		if section.Name == name {
			return append([]string{}, section.Items...), true
		}
	}
	return nil, false
}

// All flattens every section in catalogue order.
func All() []string {
	var out []string
	for _, section := range catalogue {
		out = append(out, section.Items...)
	}
	return out
}
