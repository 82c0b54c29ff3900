package flagx

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "client.yaml", "-a", "http://api.local"},
			allowed: []string{"-c"},
			want:    []string{"-c", "client.yaml"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", "http://api.local"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag at end without value",
			args:    []string{"-i"},
			allowed: []string{"-i"},
			want:    []string{"-i"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-l", "debug"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "several allowed flags keep order",
			args:    []string{"-a", "http://api.local", "-d", "cache.db", "-i", "30", "--other", "x"},
			allowed: []string{"-a", "-d", "-i"},
			want:    []string{"-a", "http://api.local", "-d", "cache.db", "-i", "30"},
		},
		{
			name:    "repeated flag preserved",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c", func(t *testing.T) {
		os.Args = []string{"gcli", "-c", "/etc/gcli.yaml"}
		assert.Equal(t, "/etc/gcli.yaml", ConfigFileFlag())
	})

	t.Run("long -config", func(t *testing.T) {
		os.Args = []string{"gcli", "-config", "/etc/gcli.json"}
		assert.Equal(t, "/etc/gcli.json", ConfigFileFlag())
	})

	t.Run("double dash equals", func(t *testing.T) {
		os.Args = []string{"gcli", "--config=/tmp/x.yml", "-a", "http://api"}
		assert.Equal(t, "/tmp/x.yml", ConfigFileFlag())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"gcli", "-a", "http://api", "-i", "10"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "/b.json", configFileFlag([]string{"-c", "/a.json", "-config", "/b.json"}))
	})
}
