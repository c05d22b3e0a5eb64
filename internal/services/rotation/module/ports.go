package module

import dom "linkmill/internal/services/rotation/domain"

// Ports holds the ports exposed by the rotation module
type Ports struct {
	Rotator dom.RotatorPort
}
