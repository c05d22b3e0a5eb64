package module

import dom "linkmill/internal/services/registry/domain"

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Ports holds the ports exposed by the registry module
type Ports struct {
	Registry dom.RegistryPort
}
