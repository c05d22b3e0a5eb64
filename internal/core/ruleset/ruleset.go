// Package ruleset loads and validates the embedded mitigation rule pack.
// Rules are ordered; the first active match decides the mitigation for a
// completed attempt, which keeps every audit record single-cause
package ruleset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed rules.json
var embedded []byte

// Condition names the situation a rule tests for
type Condition string

// Known conditions
const (
	CondConsecutiveFailures Condition = "consecutive_failures"
	CondTimeoutThreshold    Condition = "timeout_threshold"
	CondSuccessRate         Condition = "success_rate"
	CondErrorPattern        Condition = "error_pattern"
)

// Action names the mitigation a matched rule applies
type Action string

// Known actions
const (
	ActionBlacklist        Action = "blacklist"
	ActionTemporaryDisable Action = "temporary_disable"
	ActionMarkUnreliable   Action = "mark_unreliable"
)

// Rule is one ordered mitigation rule
type Rule struct {
	ID        string    `json:"id"`
	Condition Condition `json:"condition"`
	// Threshold is a count for consecutive_failures, milliseconds for
	// timeout_threshold, and a percentage for success_rate
	Threshold    int    `json:"threshold"`
	MinSample    int    `json:"min_sample"`
	DisableHours int    `json:"disable_hours"`
	Action       Action `json:"action"`
	Active       bool   `json:"active"`
}

// Pack is the loaded, validated rule pack
type Pack struct {
	Version          int      `json:"version"`
	TerminalPatterns []string `json:"terminal_patterns"`
	Rules            []Rule   `json:"rules"`
}

// Facts are the point-in-time inputs a rule is evaluated against
type Facts struct {
	Timeout             bool
	ErrorMessage        string
	ResponseTimeMS      int
	ConsecutiveFailures int
	RollingSuccess      int
	RollingTotal        int
}

// Load parses and validates the embedded rules.json
func Load() (*Pack, error) {
	return parse(embedded)
}

func parse(src []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(src, &p); err != nil {
		return nil, fmt.Errorf("ruleset: parse rules.json: %w", err)
	}
	if len(p.Rules) == 0 {
		return nil, fmt.Errorf("ruleset: no rules")
	}

	seen := make(map[string]struct{}, len(p.Rules))
	for i, r := range p.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("ruleset: rule %d has empty id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("ruleset: duplicate rule id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		switch r.Condition {
		case CondConsecutiveFailures, CondTimeoutThreshold, CondSuccessRate:
			if r.Threshold <= 0 {
				return nil, fmt.Errorf("ruleset: rule %q needs a positive threshold", r.ID)
			}
		case CondErrorPattern:
			if len(p.TerminalPatterns) == 0 {
				return nil, fmt.Errorf("ruleset: rule %q needs terminal_patterns", r.ID)
			}
		default:
			return nil, fmt.Errorf("ruleset: rule %q has unknown condition %q", r.ID, r.Condition)
		}

		switch r.Action {
		case ActionBlacklist, ActionMarkUnreliable:
		case ActionTemporaryDisable:
			if r.DisableHours <= 0 {
				return nil, fmt.Errorf("ruleset: rule %q needs positive disable_hours", r.ID)
			}
		default:
			return nil, fmt.Errorf("ruleset: rule %q has unknown action %q", r.ID, r.Action)
		}

		if r.Condition == CondSuccessRate && r.MinSample <= 0 {
			return nil, fmt.Errorf("ruleset: rule %q needs a positive min_sample", r.ID)
		}
	}
	return &p, nil
}

// Matches reports whether the rule's condition holds for the given facts.
// Inactive rules never match
func (r Rule) Matches(p *Pack, f Facts) bool {
	if !r.Active {
		return false
	}
	switch r.Condition {
	case CondConsecutiveFailures:
		return f.ConsecutiveFailures >= r.Threshold
	case CondTimeoutThreshold:
		return f.Timeout && f.ResponseTimeMS >= r.Threshold
	case CondSuccessRate:
		if f.RollingTotal < r.MinSample {
			return false
		}
		pct := f.RollingSuccess * 100 / f.RollingTotal
		return pct < r.Threshold
	case CondErrorPattern:
		return p.MatchesTerminal(f.ErrorMessage)
	default:
		return false
	}
}

// FirstMatch walks the ordered rules and returns the first active match
func (p *Pack) FirstMatch(f Facts) (Rule, bool) {
	for _, r := range p.Rules {
		if r.Matches(p, f) {
			return r, true
		}
	}
	return Rule{}, false
}

// MatchesTerminal reports whether msg contains any terminal-error substring,
// case-insensitively
func (p *Pack) MatchesTerminal(msg string) bool {
	if msg == "" {
		return false
	}
	m := strings.ToLower(msg)
	for _, pat := range p.TerminalPatterns {
		if strings.Contains(m, strings.ToLower(pat)) {
			return true
		}
	}
	return false
}
