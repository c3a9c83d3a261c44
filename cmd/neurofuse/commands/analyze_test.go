package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestReadSamples(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      []float64
		expectErr bool
	}{
		{
			name:    "plain samples",
			content: "0.1\n-0.2\n0.3\n",
			want:    []float64{0.1, -0.2, 0.3},
		},
		{
			name:    "header line skipped",
			content: "value\n1.5\n2.5\n",
			want:    []float64{1.5, 2.5},
		},
		{
			name:    "extra columns ignored",
			content: "1.0,extra\n2.0,extra\n",
			want:    []float64{1.0, 2.0},
		},
		{
			name:      "empty file",
			content:   "",
			expectErr: true,
		},
		{
			name:      "garbage past the header",
			content:   "1.0\nnot-a-number\n",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "samples.csv", tt.content)
			got, err := readSamples(path)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("sample count = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %g, want %g", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadSamples_MissingFile(t *testing.T) {
	if _, err := readSamples("/nonexistent/samples.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
