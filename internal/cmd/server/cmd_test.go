package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		version string
		want    bool
		wantErr bool
	}{
		{version: "1.2.0", want: true},
		{version: "1.6.1", want: true},
		{version: "2.0", want: true},
		{version: "1.0.16", want: false},
		{version: "v1.1.3", want: false},
		{version: "unknown", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := IsSupported(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
