package extract

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConversations(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExtractor_Run(t *testing.T) {
	in := writeConversations(t,
		"sender,message\n"+
			"customer,How do I reset my password?\n"+
			"agent,Go to Settings > Reset Password.\n"+
			"customer,thanks!\n"+
			"customer,How do I reset my password?\n"+
			"agent,Go to Settings > Reset Password.\n"+
			"customer,Where is my invoice?\n"+
			"agent,Check the billing page.\n")

	out := filepath.Join(t.TempDir(), "derived", "faqs.csv")
	n, err := New(zap.NewNop()).Run(in, out, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records := readCSV(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"question", "answer"}, records[0])
	// the repeated pair ranks first
	assert.Equal(t, "How do I reset my password?", records[1][0])
	assert.Equal(t, "Go to Settings > Reset Password.", records[1][1])
	assert.Equal(t, "Where is my invoice?", records[2][0])
}

func TestExtractor_TopLimits(t *testing.T) {
	in := writeConversations(t,
		"sender,message\n"+
			"customer,Question one?\n"+
			"agent,Answer one.\n"+
			"customer,Question two?\n"+
			"agent,Answer two.\n")

	out := filepath.Join(t.TempDir(), "faqs.csv")
	n, err := New(zap.NewNop()).Run(in, out, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExtractor_SkipsAgentQuestionsAndStatements(t *testing.T) {
	in := writeConversations(t,
		"sender,message\n"+
			"agent,Could you share your account id?\n"+
			"customer,sure it is 1234\n"+
			"customer,my app keeps crashing\n"+
			"agent,Try reinstalling it.\n")

	out := filepath.Join(t.TempDir(), "faqs.csv")
	n, err := New(zap.NewNop()).Run(in, out, 50)
	require.NoError(t, err)
	// no customer message ends with "?"
	assert.Zero(t, n)
}

func TestExtractor_LookaheadBound(t *testing.T) {
	// the agent reply arrives too many rows later to be associated
	in := writeConversations(t,
		"sender,message\n"+
			"customer,How do I export data?\n"+
			"customer,anyone there\n"+
			"customer,still waiting\n"+
			"customer,hello\n"+
			"customer,ping\n"+
			"customer,ping again\n"+
			"agent,Use Settings > Data export.\n")

	out := filepath.Join(t.TempDir(), "faqs.csv")
	n, err := New(zap.NewNop()).Run(in, out, 50)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExtractor_NoMessageColumn(t *testing.T) {
	in := writeConversations(t, "a,b\n1,2\n")
	_, err := New(zap.NewNop()).Run(in, filepath.Join(t.TempDir(), "faqs.csv"), 50)
	assert.Error(t, err)
}
