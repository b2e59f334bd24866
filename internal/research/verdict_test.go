package research

import (
	"testing"

	"github.com/augurlabs/AugurGo/internal/models"
)

func TestResolveVerdict(t *testing.T) {
	cases := []struct {
		name  string
		probs models.Probabilities
		want  models.Verdict
	}{
		{
			name:  "yes above threshold",
			probs: models.Probabilities{Yes: 0.70, No: 0.20, Uncertain: 0.10},
			want:  models.VerdictYes,
		},
		{
			name:  "no above threshold",
			probs: models.Probabilities{Yes: 0.10, No: 0.80, Uncertain: 0.10},
			want:  models.VerdictNo,
		},
		{
			name:  "exactly at threshold stays uncertain",
			probs: models.Probabilities{Yes: 0.65, No: 0.25, Uncertain: 0.10},
			want:  models.VerdictUncertain,
		},
		{
			name:  "split evidence",
			probs: models.Probabilities{Yes: 0.45, No: 0.45, Uncertain: 0.10},
			want:  models.VerdictUncertain,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveVerdict(tc.probs); got != tc.want {
				t.Fatalf("ResolveVerdict(%+v) = %s, want %s", tc.probs, got, tc.want)
			}
		})
	}
}
