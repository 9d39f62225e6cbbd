package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulateCmd_BurstyFreshLimiterFirstCallFree(t *testing.T) {
	cmd := newSimulateCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--variant", "bursty", "--rate", "5", "--calls", "3"})

	assert.NoError(t, cmd.Execute())

	lines := strings.Fields(out.String())
	assert.Equal(t, []string{"R0.00", "R0.20", "R0.20"}, lines)
}

func TestSimulateCmd_RejectsUnknownVariant(t *testing.T) {
	cmd := newSimulateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--variant", "nonsense"})

	assert.Error(t, cmd.Execute())
}
