package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskDocument(t *testing.T) *Document {
	t.Helper()
	report := Validate([]TargetSet{taskSet("a", StyleBrace)})
	require.True(t, report.OK())
	return report.Document
}

func TestFingerprintDeterministic(t *testing.T) {
	a, err := taskDocument(t).Fingerprint()
	require.NoError(t, err)
	b, err := taskDocument(t).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintChangesWithContract(t *testing.T) {
	base, err := taskDocument(t).Fingerprint()
	require.NoError(t, err)

	edited := taskDocument(t)
	edited.Resources[0].Endpoints[2].SuccessStatus = 200
	changed, err := edited.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)

	renamed := taskDocument(t)
	renamed.Resources[0].Name = "Job"
	changed, err = renamed.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestFingerprintIgnoresPathSpelling(t *testing.T) {
	// Both targets normalize to the same document, so the style a target
	// used to spell paths never reaches the fingerprint.
	colon := Validate([]TargetSet{taskSet("a", StyleColon)})
	brace := Validate([]TargetSet{taskSet("b", StyleBrace)})
	fpColon, err := colon.Document.Fingerprint()
	require.NoError(t, err)
	fpBrace, err := brace.Document.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fpColon, fpBrace)
}
