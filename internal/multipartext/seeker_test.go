package multipartext

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiReadSeeker(t *testing.T) {
	tests := []struct {
		name    string
		parts   []string
		startAt int64
		want    string
	}{
		{
			name:    "read all from the start",
			parts:   []string{"hello", " world", "!"},
			startAt: 0,
			want:    "hello world!",
		},
		{
			name:    "read from the middle",
			parts:   []string{"hello", " world", "!"},
			startAt: 6,
			want:    "world!",
		},
		{
			name:    "empty part in between",
			parts:   []string{"hello", "", " world"},
			startAt: 0,
			want:    "hello world",
		},
		{
			name:    "start at the end",
			parts:   []string{"hello"},
			startAt: 5,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readers []io.ReadSeeker
			for _, p := range tt.parts {
				readers = append(readers, bytes.NewReader([]byte(p)))
			}
			mr, err := MultiReadSeeker(readers...)
			require.NoError(t, err)

			// Twice, since rewinding is the whole point of a ReadSeeker.
			for i := 0; i < 2; i++ {
				_, err := mr.Seek(tt.startAt, io.SeekStart)
				require.NoError(t, err)

				got, err := io.ReadAll(mr)
				require.NoError(t, err)
				assert.Equal(t, tt.want, string(got))
			}
		})
	}
}

func TestMultiReadSeeker_Seek(t *testing.T) {
	mr, err := MultiReadSeeker(bytes.NewReader([]byte("hello")), bytes.NewReader([]byte(" world")))
	require.NoError(t, err)

	size, err := mr.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)

	_, err = mr.Seek(1, io.SeekEnd)
	assert.Error(t, err)

	_, err = mr.Seek(-1, io.SeekStart)
	assert.Error(t, err)

	pos, err := mr.Seek(-5, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)
}
