package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/invoicekit/invoicekit/internal/adapters/inbound/cli"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// initProject runs init in a fresh directory and returns it.
func initProject(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	_, err := run(t, "", append([]string{"init", dir}, extra...)...)
	require.NoError(t, err)
	return dir
}

const invalidInvoice = `
business:
  name: ""
  payment_id: not-an-id
client:
  name: Globex
details:
  number: INV-1
  currency: INR
items:
  - name: Widget
    quantity: -1
    rate: 10
`
