package module

import "launchdeck/internal/services/api/launches/domain"

// Ports are what launches exposes to other modules and the CLI
type Ports struct {
	Service domain.ServicePort
	Seeder  domain.Seeder
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
