package module

import attemptsdom "linkmill/internal/services/attempts/domain"

// Ports holds the ports exposed by the triage module
type Ports struct {
	Triage attemptsdom.FailureTriager
}
