package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	for _, version := range []string{"0.1.0", "1.2.3-rc.1", "dev"} {
		t.Run(version, func(t *testing.T) {
			cmd := NewVersionCommand(version)
			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetArgs(nil)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, "tikey v"+version+"\nMySQL to TiDB compatibility checker\n", buf.String())
		})
	}

	cmd := NewVersionCommand("test")
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}
