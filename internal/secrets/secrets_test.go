// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyHFToken, "  hf_abc123  \n")
				writeFile(t, dir, KeyCrossRefMailto, "user@example.com\n")
				return dir
			},
			want: map[string]string{
				KeyHFToken:        "hf_abc123",
				KeyCrossRefMailto: "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyHFToken, "valid-token")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				KeyHFToken: "valid-token",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, KeyHFToken, "hf_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				KeyHFToken: "hf_real",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, KeyHFToken, "hf_good")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "hf_good", got[KeyHFToken])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
