package tools

import (
	"fmt"
	"regexp"
)

// toolNamePattern is the set of names MCP hosts accept for tools.
var toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// validateTool checks one factory-built tool before it is registered.
// reserved is the bootstrap name, which dispatch intercepts and a real tool
// could never be reached under.
func validateTool(t Tool, reserved string) error {
	if t == nil {
		return fmt.Errorf("factory returned a nil tool")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if !toolNamePattern.MatchString(name) {
		return fmt.Errorf("tool %q has invalid name (allowed: letters, digits, _ and -, max 64)", name)
	}
	if name == reserved {
		return fmt.Errorf("tool %q shadows the configuration tool", name)
	}
	if typ := t.InputSchema().Type; typ != "object" {
		return fmt.Errorf("tool %q has input schema of type %q (must be object)", name, typ)
	}
	return nil
}
