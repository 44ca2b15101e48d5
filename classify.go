package cloak

import (
	"regexp"
	"strings"
)

// Rule is a named shape predicate for URL path segments.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Mask hides matching segments in signals. Nil masks every character.
	Mask Masker
}

// Names of the default rules.
const (
	RuleIDCard    = "id_card"
	RuleMobile    = "mobile"
	RuleNumericID = "numeric_id"
)

// NewRule compiles expr anchored to the whole segment. It panics if expr
// does not compile, like regexp.MustCompile.
func NewRule(name, expr string, mask Masker) Rule {
	return Rule{Name: name, Pattern: anchor(expr), Mask: mask}
}

// DefaultRules returns the default rule set in evaluation order:
// identity numbers, mobile numbers, then purely numeric identifiers.
func DefaultRules() []Rule {
	return []Rule{
		NewRule(RuleIDCard, `\d{15}|\d{17}[0-9X]`, IDCardMasker()),
		NewRule(RuleMobile, `1[34578]\d{9}`, MobileMasker()),
		NewRule(RuleNumericID, `\d+`, NumericMasker()),
	}
}

// Classifier decides whether a URL path segment carries sensitive data.
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a Classifier over rules, or over DefaultRules when
// none are given. Every pattern is re-anchored so a rule only matches an
// entire segment.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	c := &Classifier{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if r.Pattern == nil {
			continue
		}
		r.Pattern = anchor(r.Pattern.String())
		c.rules = append(c.rules, r)
	}
	return c
}

// Rules returns a copy of the rule set.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Match returns the first rule matching the whole segment.
func (c *Classifier) Match(segment string) (Rule, bool) {
	if segment == "" {
		return Rule{}, false
	}
	for _, r := range c.rules {
		if r.Pattern.MatchString(segment) {
			return r, true
		}
	}
	return Rule{}, false
}

// IsSensitiveSegment reports whether any rule matches the whole segment.
func (c *Classifier) IsSensitiveSegment(segment string) bool {
	_, ok := c.Match(segment)
	return ok
}

// Redact masks every sensitive path segment of rawURL and hides its query
// string. The result is meant for signals only.
func (c *Classifier) Redact(rawURL string) string {
	path, query, hasQuery := strings.Cut(rawURL, "?")
	origin, path := splitOrigin(path)

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		r, ok := c.Match(seg)
		if !ok {
			continue
		}
		mask := r.Mask
		if mask == nil {
			mask = FullMasker()
		}
		segments[i] = mask.Mask(seg)
	}

	redacted := origin + strings.Join(segments, "/")
	if hasQuery {
		redacted += "?"
		if query != "" {
			redacted += "***"
		}
	}
	return redacted
}

// splitOrigin separates "scheme://host" from the path of an absolute URL so
// host names and ports are never classified as segments.
func splitOrigin(rawURL string) (origin, path string) {
	i := strings.Index(rawURL, "://")
	if i < 0 {
		return "", rawURL
	}
	rest := rawURL[i+3:]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return rawURL, ""
	}
	return rawURL[:i+3+slash], rest[slash:]
}

func anchor(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)$`)
}
