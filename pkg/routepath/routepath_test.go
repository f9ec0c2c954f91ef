package routepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Result
		wantErr error
	}{
		{name: "root", input: "/", want: Result{Path: "/"}},
		{name: "empty", input: "", want: Result{Path: "/", Changed: true}},
		{name: "clean", input: "/blog/hello", want: Result{Path: "/blog/hello"}},
		{name: "trailing slash", input: "/blog/", want: Result{Path: "/blog", Changed: true}},
		{name: "double slash", input: "/blog//hello", want: Result{Path: "/blog/hello", Changed: true}},
		{name: "dot", input: "/blog/./hello", want: Result{Path: "/blog/hello", Changed: true}},
		{name: "dot dot", input: "/blog/../careers", want: Result{Path: "/careers", Changed: true}},
		{name: "relative", input: "blog", want: Result{Path: "/blog", Changed: true}},
		{name: "query kept", input: "/blog/?page=2", want: Result{Path: "/blog", Query: "page=2", Changed: true}},
		{name: "escape", input: "/blog/caf%C3%A9", want: Result{Path: "/blog/caf%C3%A9"}},
		{name: "backslash", input: `/blog\hello`, wantErr: ErrBackslash},
		{name: "nul", input: "/blog%00", wantErr: ErrNullByte},
		{name: "bad escape", input: "/blog%G1", wantErr: ErrInvalidEscape},
		{name: "short escape", input: "/blog%2", wantErr: ErrInvalidEscape},
		{name: "above root", input: "/../etc/passwd", wantErr: ErrEscapesRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocal(t *testing.T) {
	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"/", "/", false},
		{"/blog/", "/blog", false},
		{"/blog?page=2", "/blog?page=2", false},
		{"//evil.example", "", true},
		{`/\evil.example`, "", true},
		{"https://evil.example", "", true},
		{"blog", "", true},
		{"", "", true},
		{"/../x", "", true},
	}
	for _, tt := range tests {
		got, err := Local(tt.target)
		if tt.wantErr {
			assert.Error(t, err, tt.target)
			continue
		}
		require.NoError(t, err, tt.target)
		assert.Equal(t, tt.want, got, tt.target)
	}
}
