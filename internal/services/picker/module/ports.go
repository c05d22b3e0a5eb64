package module

import dom "linkmill/internal/services/picker/domain"

// Ports holds the ports exposed by the picker module
type Ports struct {
	Selector dom.SelectorPort
}
