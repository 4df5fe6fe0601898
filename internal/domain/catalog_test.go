package domain

import (
	"encoding/json"
	"testing"
)

func TestLoadingStateJSON(t *testing.T) {
	states := []LoadingState{StateNotLoaded, StatePlaceholder, StateLoading, StateLoaded}

	for _, state := range states {
		t.Run(state.String(), func(t *testing.T) {
			encoded, err := json.Marshal(state)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if want := `"` + state.String() + `"`; string(encoded) != want {
				t.Errorf("Marshal() = %s, want %s", encoded, want)
			}

			var decoded LoadingState
			if err := json.Unmarshal(encoded, &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if decoded != state {
				t.Errorf("round trip = %v, want %v", decoded, state)
			}
		})
	}
}

func TestLoadingStateJSON_UnknownName(t *testing.T) {
	var state LoadingState
	if err := json.Unmarshal([]byte(`"half-loaded"`), &state); err == nil {
		t.Error("Unmarshal of an unknown name did not fail")
	}
}

func TestProductJSONRoundTrip(t *testing.T) {
	weight := 3
	original := Product{
		Handle:           "wool-sweater",
		Title:            "Wool Sweater",
		ManualSortWeight: &weight,
		LoadingState:     StateLoaded,
	}

	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Product
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Handle != original.Handle {
		t.Errorf("Handle = %q, want %q", decoded.Handle, original.Handle)
	}
	if decoded.LoadingState != StateLoaded {
		t.Errorf("LoadingState = %v, want StateLoaded", decoded.LoadingState)
	}
	if decoded.ManualSortWeight == nil || *decoded.ManualSortWeight != 3 {
		t.Errorf("ManualSortWeight = %v, want 3", decoded.ManualSortWeight)
	}
}
