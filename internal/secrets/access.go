package secrets

import (
	"encoding/json"
	"fmt"
	"sort"
)

type accessKind uint8

const (
	accessNone accessKind = iota
	accessAll
	accessSelected
)

// SecretsAccess declares how much of the owning user's secret set a dependent
// resource may see: nothing, everything, or a named subset. It is a closed
// value type — the zero value is the none descriptor, and a selected set is
// never empty (removal of the last name collapses back to none).
type SecretsAccess struct {
	kind  accessKind
	names []string
}

// NoAccess returns the descriptor granting no secrets.
func NoAccess() SecretsAccess {
	return SecretsAccess{}
}

// AllAccess returns the descriptor granting every secret the user owns,
// resolved by name at the moment of use.
func AllAccess() SecretsAccess {
	return SecretsAccess{kind: accessAll}
}

// SelectedAccess returns the descriptor granting only the named secrets.
// Duplicates are dropped; selecting zero names collapses to NoAccess.
func SelectedAccess(names ...string) SecretsAccess {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	if len(unique) == 0 {
		return NoAccess()
	}
	sort.Strings(unique)
	return SecretsAccess{kind: accessSelected, names: unique}
}

// IsNone reports whether the descriptor grants no secrets at all.
func (a SecretsAccess) IsNone() bool {
	return a.kind == accessNone
}

// IsAll reports whether the descriptor grants the user's entire secret set.
func (a SecretsAccess) IsAll() bool {
	return a.kind == accessAll
}

// Names returns the selected secret names, or nil for the none and all kinds.
func (a SecretsAccess) Names() []string {
	if a.kind != accessSelected {
		return nil
	}
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Contains reports whether the named secret is visible through this descriptor.
func (a SecretsAccess) Contains(name string) bool {
	switch a.kind {
	case accessNone:
		return false
	case accessAll:
		return true
	case accessSelected:
		i := sort.SearchStrings(a.names, name)
		return i < len(a.names) && a.names[i] == name
	default:
		panic(fmt.Sprintf("unknown secrets access kind %d", a.kind))
	}
}

// WithoutSecret returns the descriptor with the named secret removed.
// None and all are unaffected; a selected set emptied by the removal
// collapses to none.
func (a SecretsAccess) WithoutSecret(name string) SecretsAccess {
	switch a.kind {
	case accessNone, accessAll:
		return a
	case accessSelected:
		remaining := make([]string, 0, len(a.names))
		for _, n := range a.names {
			if n != name {
				remaining = append(remaining, n)
			}
		}
		if len(remaining) == 0 {
			return NoAccess()
		}
		return SecretsAccess{kind: accessSelected, names: remaining}
	default:
		panic(fmt.Sprintf("unknown secrets access kind %d", a.kind))
	}
}

// Equal reports value equality; selected name order is irrelevant because the
// set is kept sorted.
func (a SecretsAccess) Equal(other SecretsAccess) bool {
	if a.kind != other.kind || len(a.names) != len(other.names) {
		return false
	}
	for i := range a.names {
		if a.names[i] != other.names[i] {
			return false
		}
	}
	return true
}

func (a SecretsAccess) String() string {
	switch a.kind {
	case accessNone:
		return "none"
	case accessAll:
		return "all"
	case accessSelected:
		return fmt.Sprintf("selected%v", a.names)
	default:
		panic(fmt.Sprintf("unknown secrets access kind %d", a.kind))
	}
}

// accessJSON is the persisted wire form of a descriptor.
type accessJSON struct {
	Kind  string   `json:"kind"`
	Names []string `json:"names,omitempty"`
}

// MarshalJSON encodes the descriptor for storage on dependent-resource rows.
func (a SecretsAccess) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case accessNone:
		return json.Marshal(accessJSON{Kind: "none"})
	case accessAll:
		return json.Marshal(accessJSON{Kind: "all"})
	case accessSelected:
		return json.Marshal(accessJSON{Kind: "selected", Names: a.names})
	default:
		return nil, fmt.Errorf("unknown secrets access kind %d", a.kind)
	}
}

// UnmarshalJSON decodes a stored descriptor. An unknown kind is an error so
// that new variants cannot pass through unhandled.
func (a *SecretsAccess) UnmarshalJSON(data []byte) error {
	var raw accessJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "", "none":
		*a = NoAccess()
	case "all":
		*a = AllAccess()
	case "selected":
		*a = SelectedAccess(raw.Names...)
	default:
		return fmt.Errorf("unknown secrets access kind %q", raw.Kind)
	}
	return nil
}
