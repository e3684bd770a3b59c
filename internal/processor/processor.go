// Package processor classifies transactions by attaching tags.
//
// A Processor inspects one transaction and proposes at most one tag. Processors run as an
// ordered Chain; a processor that looks at tags set by another names it in After, and the
// chain refuses an order that would break that.
package processor

import (
	"fmt"
	"regexp"

	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

type Processor interface {
	Name() string
	// After lists the processors that must run earlier in the same chain.
	After() []string
	// Match returns the tag to attach, if any. It must not modify tx.
	Match(tx *transaction.Transaction) (tag.Spec, bool)
}

// RuleConfig describes a description-matching Rule.
type RuleConfig struct {
	Name string
	Tag  tag.Spec
	// Needles are regular expressions; a description matches when it contains one of them.
	Needles []string
	// Requires is a tag the transaction must already carry.
	Requires string
	After    []string
}

// Rule tags transactions whose description matches any of its needles, case-insensitively.
type Rule struct {
	name     string
	spec     tag.Spec
	requires string
	after    []string
	patterns []*regexp.Regexp
}

func NewRule(cfg RuleConfig) (*Rule, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("new rule: empty name")
	}

	if cfg.Tag.Name == "" {
		return nil, fmt.Errorf("rule %s: empty tag name", cfg.Name)
	}

	if len(cfg.Needles) == 0 {
		return nil, fmt.Errorf("rule %s: no needles", cfg.Name)
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.Needles))

	for _, needle := range cfg.Needles {
		re, err := regexp.Compile(`(?i)^.*(?:` + needle + `).*$`)
		if err != nil {
			return nil, fmt.Errorf("rule %s: needle %q: %w", cfg.Name, needle, err)
		}

		patterns = append(patterns, re)
	}

	return &Rule{
		name:     cfg.Name,
		spec:     cfg.Tag,
		requires: cfg.Requires,
		after:    append([]string(nil), cfg.After...),
		patterns: patterns,
	}, nil
}

// MustRule is NewRule for rules known at compile time.
func MustRule(cfg RuleConfig) *Rule {
	r, err := NewRule(cfg)
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Rule) Name() string { return r.name }

func (r *Rule) After() []string { return r.after }

func (r *Rule) Match(tx *transaction.Transaction) (tag.Spec, bool) {
	if r.requires != "" && !tx.HasTag(r.requires) {
		return tag.Spec{}, false
	}

	for _, re := range r.patterns {
		if re.MatchString(tx.Description) {
			return r.spec, true
		}
	}

	return tag.Spec{}, false
}
