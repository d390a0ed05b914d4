package scan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Options
		wantErr string
	}{
		{
			name: "analysis only",
			in:   `{"analysis": {"nomos": true, "monk": true}}`,
			want: Options{Analysis: Analysis{Nomos: true, Monk: true}},
		},
		{
			name: "with reuse",
			in:   `{"analysis": {"ojo": true}, "reuse": {"reuse_upload": 3, "reuse_group": "fossy"}}`,
			want: Options{Analysis: Analysis{Ojo: true}, Reuse: &Reuse{Upload: 3, Group: "fossy"}},
		},
		{
			name:    "unknown scanner",
			in:      `{"analysis": {"nmap": true}}`,
			wantErr: "invalid scan options",
		},
		{
			name:    "wrong type",
			in:      `{"analysis": {"nomos": "yes"}}`,
			wantErr: "/analysis/nomos",
		},
		{
			name:    "missing analysis",
			in:      `{}`,
			wantErr: "invalid scan options",
		},
		{
			name:    "not json",
			in:      `analysis: true`,
			wantErr: "not valid JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions([]byte(tt.in))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultOptions_ValidateAgainstSchema(t *testing.T) {
	b, err := json.Marshal(DefaultOptions().WithReuse(Baseline{UploadID: 1, Group: "fossy"}))
	require.NoError(t, err)

	_, err = ParseOptions(b)
	assert.NoError(t, err)
}

func TestLoadOptions(t *testing.T) {
	dir := fs.NewDir(t, "options", fs.WithFile("scan.json", `{"analysis": {"nomos": true}}`))
	defer dir.Remove()

	got, err := LoadOptions(dir.Join("scan.json"))
	require.NoError(t, err)
	assert.True(t, got.Analysis.Nomos)

	_, err = LoadOptions(dir.Join("missing.json"))
	assert.ErrorContains(t, err, "failed to read scan options")
}
