package captions

import (
	"reflect"
	"testing"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

func TestDedupe(t *testing.T) {
	a := models.Cue{Start: 1000, End: 2000, Content: "A"}
	b := models.Cue{Start: 2000, End: 3000, Content: "B"}
	aOtherText := models.Cue{Start: 1000, End: 2000, Content: "A!"}

	tests := []struct {
		name string
		in   []models.Cue
		want []models.Cue
	}{
		{"empty", nil, []models.Cue{}},
		{"single", []models.Cue{a}, []models.Cue{a}},
		{"adjacent only", []models.Cue{a, a, b, a}, []models.Cue{a, b, a}},
		{"long run", []models.Cue{a, a, a, a}, []models.Cue{a}},
		{"same timing different text", []models.Cue{a, aOtherText}, []models.Cue{a, aOtherText}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedupe(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dedupe() = %+v, want %+v", got, tt.want)
			}
			if again := Dedupe(got); !reflect.DeepEqual(again, got) {
				t.Errorf("Dedupe is not idempotent: %+v -> %+v", got, again)
			}
		})
	}
}
