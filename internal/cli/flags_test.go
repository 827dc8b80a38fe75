package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/zscale/internal/domain"
)

func TestEnumFlag(t *testing.T) {
	var status domain.TestExecutionStatus
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	addExecutionStatusFlag(cmd, &status)

	require.NoError(t, cmd.Flags().Set("status", "  not   EXECUTED "))
	assert.Equal(t, domain.ExecutionNotExecuted, status)

	err := cmd.Flags().Set("status", "Done")
	assert.ErrorIs(t, err, domain.ErrUnknownValue)
	assert.Equal(t, domain.ExecutionNotExecuted, status, "failed Set keeps the previous value")

	flag := cmd.Flags().Lookup("status")
	assert.Equal(t, "status", flag.Value.Type())
	assert.Contains(t, flag.Usage, `"Not Executed"`)
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps([]string{"Open | Shown", "Submit|Saved|id=1|extra"})
	require.NoError(t, err)
	assert.Equal(t, []domain.TestStep{
		{Description: "Open", ExpectedResult: "Shown"},
		{Description: "Submit", ExpectedResult: "Saved", TestData: "id=1|extra"},
	}, steps)

	_, err = parseSteps([]string{"ok|fine", "broken"})
	assert.ErrorContains(t, err, "step 2")
}

func TestCustomFieldsFlag(t *testing.T) {
	var f execFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)

	require.NoError(t, cmd.Flags().Set("custom", "Build=1.4.2,Browser=Firefox"))
	req := f.request(cmd)
	assert.Equal(t, map[string]any{"Build": "1.4.2", "Browser": "Firefox"}, req.CustomFields)

	assert.Nil(t, customFields(nil))
}
