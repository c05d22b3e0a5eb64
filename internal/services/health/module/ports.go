package module

import dom "linkmill/internal/services/health/domain"

// Ports holds the ports exposed by the health module
type Ports struct {
	Store dom.StorePort
}
