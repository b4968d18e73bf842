package model

// Target names the remote branch a commit is meant to be pushed to.
// A nil Origin means the configured default upstream.
type Target struct {
	Origin *string `json:"origin" yaml:"origin"`
	Branch string  `json:"branch" yaml:"branch"`
}

// OriginOr returns the target origin, or def when none was set.
func (t Target) OriginOr(def string) string {
	if t.Origin == nil || *t.Origin == "" {
		return def
	}
	return *t.Origin
}

// Validate a push target.
func (t Target) Validate() error {
	if err := ValidateBranch(t.Branch); err != nil {
		return err
	}
	if t.Origin != nil {
		if err := ValidateOrigin(*t.Origin); err != nil {
			return err
		}
	}
	return nil
}

// Metadata is the record attached out-of-band to a single commit: the pending
// push target and the validation commands to run for that commit.
//
// The zero value is semantically equivalent to "no record": the store prunes
// records equal to the zero value instead of persisting them.
type Metadata struct {
	Push  *Target  `json:"push" yaml:"push"`
	Tests []string `json:"tests" yaml:"tests"`
}

// IsDefault reports whether the record carries no information at all.
func (m Metadata) IsDefault() bool {
	return m.Push == nil && len(m.Tests) == 0
}

// Clone returns a deep copy, so merges never alias stored state.
func (m Metadata) Clone() Metadata {
	out := Metadata{}
	if m.Push != nil {
		t := *m.Push
		if m.Push.Origin != nil {
			o := *m.Push.Origin
			t.Origin = &o
		}
		out.Push = &t
	}
	if m.Tests != nil {
		out.Tests = append([]string(nil), m.Tests...)
	}
	return out
}

// Equal compares two records field by field.
func (m Metadata) Equal(o Metadata) bool {
	switch {
	case (m.Push == nil) != (o.Push == nil):
		return false
	case m.Push != nil:
		if m.Push.Branch != o.Push.Branch {
			return false
		}
		if m.Push.OriginOr("") != o.Push.OriginOr("") {
			return false
		}
	}
	if len(m.Tests) != len(o.Tests) {
		return false
	}
	for i := range m.Tests {
		if m.Tests[i] != o.Tests[i] {
			return false
		}
	}
	return true
}

// Instruction is the parsed form of one plan entry. It is produced fresh on
// every parse and merged into stored metadata, never persisted directly.
type Instruction struct {
	ID     string
	Target *Target
	Tests  []string
}
