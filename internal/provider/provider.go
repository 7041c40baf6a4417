// Package provider models which language-model backend a role is assigned to.
//
// Descriptors are configuration metadata only. Nothing in this module sends
// a request to the described provider.
package provider

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DeploymentLocal = "local"
	DeploymentCloud = "cloud"

	Ollama = "ollama"
	OpenAI = "openai"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Descriptor is the canonical provider assignment of a role.
type Descriptor struct {
	Provider   string `json:"provider"        yaml:"provider"        validate:"required"`
	Deployment string `json:"deployment"      yaml:"deployment"      validate:"required"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
}

// New builds a descriptor, defaulting the deployment by provider name.
func New(name, model string) Descriptor {
	return Descriptor{Provider: name, Deployment: defaultDeployment(name), Model: model}
}

// Validate reports whether the descriptor names a provider and deployment.
func (d Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

// Describe renders a short human summary such as "openai (cloud, model=gpt-4o)".
func (d Descriptor) Describe() string {
	if d.Model != "" {
		return fmt.Sprintf("%s (%s, model=%s)", d.Provider, d.Deployment, d.Model)
	}
	return fmt.Sprintf("%s (%s)", d.Provider, d.Deployment)
}

// IsLocal reports whether the provider runs on the local machine.
func (d Descriptor) IsLocal() bool {
	return d.Deployment == DeploymentLocal
}

func defaultDeployment(name string) string {
	if strings.EqualFold(name, Ollama) {
		return DeploymentLocal
	}
	return DeploymentCloud
}
