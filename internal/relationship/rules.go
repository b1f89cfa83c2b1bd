package relationship

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/storyloom/loom/internal/core/ecs"
)

// Precondition decides whether a social rule applies to a new relationship.
// Evaluated once, at creation time only; later state changes never re-run it.
type Precondition func(w *ecs.World, subject, target ecs.EntityID) bool

// SocialRule pairs a creation-time precondition with the modifiers it
// attaches when the precondition holds.
type SocialRule struct {
	Name         string
	Precondition Precondition
	Modifiers    []*Modifier
}

// RuleBook is the instance-owned social rule registry. The active subset is
// recomputed from scratch by SetActivePatterns; the default pattern matches
// every registered rule.
type RuleBook struct {
	rules    map[string]*SocialRule
	patterns []*regexp.Regexp
	active   []*SocialRule
}

func NewRuleBook() *RuleBook {
	b := &RuleBook{
		rules:    make(map[string]*SocialRule),
		patterns: []*regexp.Regexp{regexp.MustCompile(`.*`)},
	}
	return b
}

// Register adds a rule and refreshes the active set. Re-registering a name
// replaces the previous rule.
func (b *RuleBook) Register(rule *SocialRule) {
	b.rules[rule.Name] = rule
	b.refresh()
}

// SetActivePatterns replaces the name filters and fully recomputes the
// active list from the registry. An invalid pattern leaves the current
// active set untouched.
func (b *RuleBook) SetActivePatterns(patterns []string) error {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("social rule pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	b.patterns = compiled
	b.refresh()
	return nil
}

func (b *RuleBook) refresh() {
	names := make([]string, 0, len(b.rules))
	for name := range b.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	b.active = b.active[:0]
	for _, name := range names {
		for _, re := range b.patterns {
			if re.MatchString(name) {
				b.active = append(b.active, b.rules[name])
				break
			}
		}
	}
}

// Active returns the rules passing the current name filters, in name order.
func (b *RuleBook) Active() []*SocialRule {
	out := make([]*SocialRule, len(b.active))
	copy(out, b.active)
	return out
}

func (b *RuleBook) Len() int { return len(b.rules) }
