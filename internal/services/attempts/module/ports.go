package module

import dom "linkmill/internal/services/attempts/domain"

// Ports holds the ports exposed by the attempts module
type Ports struct {
	Tracker dom.TrackerPort
}
