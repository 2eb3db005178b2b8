// Package models contains data types and constants for the Gemini API.
package models

// Endpoints for the Gemini API
const (
	EndpointBase       = "https://generativelanguage.googleapis.com"
	APIVersion         = "v1beta"
	GenerateMethod     = "generateContent"
	HeaderAPIKey       = "x-goog-api-key"
	DefaultUserAgent   = "geminichat/0.1"
	ContentTypeJSON    = "application/json"
	FinishReasonStop   = "STOP"
	FinishReasonSafety = "SAFETY"
)

// Model represents an available Gemini model
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		Description: "Fast, general purpose",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		Description: "Most capable, slower",
	}

	Model20Flash = Model{
		Name:        "gemini-2.0-flash",
		Description: "Previous generation, fast",
	}

	Model20FlashLite = Model{
		Name:        "gemini-2.0-flash-lite",
		Description: "Lowest latency",
	}

	// DefaultModel is the recommended default
	DefaultModel = Model25Flash
)

// AllModels returns a list of all available models
func AllModels() []Model {
	return []Model{Model25Flash, Model25Pro, Model20Flash, Model20FlashLite}
}

// ModelNames returns the names of all available models
func ModelNames() []string {
	all := AllModels()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name
	}
	return names
}

// ModelFromName returns a Model by its name.
// Unknown names that look like a Gemini model id are passed through so newer
// models work without a release; anything else falls back to DefaultModel.
func ModelFromName(name string) Model {
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	if len(name) > len("gemini-") && name[:len("gemini-")] == "gemini-" {
		return Model{Name: name}
	}
	return DefaultModel
}

// GenerateURL returns the generateContent URL for a model under base
func GenerateURL(base string, model Model) string {
	if base == "" {
		base = EndpointBase
	}
	return base + "/" + APIVersion + "/models/" + model.Name + ":" + GenerateMethod
}

// DefaultHeaders returns the default headers for Gemini requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentTypeJSON,
		"Accept":       ContentTypeJSON,
		"User-Agent":   DefaultUserAgent,
	}
}
