package secrets

import (
	"encoding/json"
	"testing"
)

func TestAccessZeroValueIsNone(t *testing.T) {
	var a SecretsAccess
	if !a.IsNone() {
		t.Error("zero value should be the none descriptor")
	}
	if !a.Equal(NoAccess()) {
		t.Error("zero value should equal NoAccess()")
	}
}

func TestSelectedAccessCollapsesWhenEmpty(t *testing.T) {
	if !SelectedAccess().IsNone() {
		t.Error("selecting zero names should collapse to none")
	}
	if got := SelectedAccess("A", "A").Names(); len(got) != 1 {
		t.Errorf("duplicate names should be dropped, got %v", got)
	}
}

func TestAccessContains(t *testing.T) {
	tests := []struct {
		name   string
		access SecretsAccess
		secret string
		want   bool
	}{
		{name: "none never contains", access: NoAccess(), secret: "A", want: false},
		{name: "all always contains", access: AllAccess(), secret: "anything", want: true},
		{name: "selected member", access: SelectedAccess("A", "C"), secret: "C", want: true},
		{name: "selected non-member", access: SelectedAccess("A", "C"), secret: "B", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.access.Contains(tt.secret); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}

func TestWithoutSecret(t *testing.T) {
	tests := []struct {
		name   string
		access SecretsAccess
		remove string
		want   SecretsAccess
	}{
		{name: "none is a no-op", access: NoAccess(), remove: "A", want: NoAccess()},
		{name: "all is a no-op", access: AllAccess(), remove: "A", want: AllAccess()},
		{name: "selected drops the name", access: SelectedAccess("A", "B"), remove: "A", want: SelectedAccess("B")},
		{name: "selected keeps others", access: SelectedAccess("A", "B"), remove: "C", want: SelectedAccess("A", "B")},
		{name: "emptied selected collapses to none", access: SelectedAccess("B"), remove: "B", want: NoAccess()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.access.WithoutSecret(tt.remove)
			if !got.Equal(tt.want) {
				t.Errorf("WithoutSecret(%q) = %v, want %v", tt.remove, got, tt.want)
			}
		})
	}
}

func TestWithoutSecretIsPure(t *testing.T) {
	original := SelectedAccess("A", "B")
	_ = original.WithoutSecret("A")
	if !original.Equal(SelectedAccess("A", "B")) {
		t.Error("WithoutSecret must not mutate the receiver")
	}
}

func TestAccessEqualIgnoresNameOrder(t *testing.T) {
	if !SelectedAccess("B", "A").Equal(SelectedAccess("A", "B")) {
		t.Error("selected sets with the same names should be equal regardless of order")
	}
	if SelectedAccess("A").Equal(AllAccess()) {
		t.Error("different kinds should not be equal")
	}
}

func TestAccessJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		access SecretsAccess
	}{
		{name: "none", access: NoAccess()},
		{name: "all", access: AllAccess()},
		{name: "selected", access: SelectedAccess("A", "B")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.access)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got SecretsAccess
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", data, err)
			}
			if !got.Equal(tt.access) {
				t.Errorf("round trip: got %v, want %v", got, tt.access)
			}
		})
	}
}

func TestAccessJSONRejectsUnknownKind(t *testing.T) {
	var a SecretsAccess
	if err := json.Unmarshal([]byte(`{"kind":"wildcard"}`), &a); err == nil {
		t.Error("unknown kind should fail to unmarshal")
	}
}
