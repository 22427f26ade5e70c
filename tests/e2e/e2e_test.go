package e2e_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicekit/invoicekit/internal/application"
	"github.com/invoicekit/invoicekit/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "invoicekit-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "invoicekit")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/invoicekit")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func fixturePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/invoices", name))
	return abs
}

// run executes the binary against a throwaway project directory so exports
// and history never land in testdata.
func run(t *testing.T, project string, args ...string) (string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binaryPath, append([]string{"--project", project}, args...)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	if exitCode != 0 {
		t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), exitCode
}

// --- Validate Tests ---

func TestE2E_Validate(t *testing.T) {
	out, code := run(t, t.TempDir(), "validate", fixturePath("website.yaml"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Invoice is valid.")
}

func TestE2E_ValidateInvalidExitsNonZero(t *testing.T) {
	out, code := run(t, t.TempDir(), "validate", fixturePath("invalid.yaml"), "--json")
	assert.Equal(t, 1, code)

	var report struct {
		Valid      bool                    `json:"valid"`
		Violations []domain.FieldViolation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)

	fields := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "Business.Name")
	assert.Contains(t, fields, "Business.PaymentID")
	assert.Contains(t, fields, "Items[0].Quantity")
}

// --- Totals Tests ---

func TestE2E_TotalsJSON(t *testing.T) {
	out, code := run(t, t.TempDir(), "totals", fixturePath("website.yaml"), "--json")
	require.Equal(t, 0, code)

	var got struct {
		Totals struct {
			Subtotal    float64 `json:"subtotal"`
			TaxableBase float64 `json:"taxable_base"`
			Tax         float64 `json:"tax"`
			Total       float64 `json:"total"`
		} `json:"totals"`
		FormattedTotal string `json:"formatted_total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 8000, got.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 7500, got.Totals.TaxableBase, 1e-9)
	assert.InDelta(t, 750, got.Totals.Tax, 1e-9)
	assert.InDelta(t, 8450, got.Totals.Total, 1e-9)
	assert.Equal(t, "₹8,450.00", got.FormattedTotal)
}

// --- Payment Tests ---

func TestE2E_URIUPI(t *testing.T) {
	out, code := run(t, t.TempDir(), "uri", fixturePath("website.yaml"))
	assert.Equal(t, 0, code)
	assert.Equal(t, "upi://pay?pa=navokta%40okaxis&pn=Navokta&am=8450.00&cu=INR&tn=Invoice%20INV-2024-009", strings.TrimSpace(out))
}

func TestE2E_URIPayPal(t *testing.T) {
	out, code := run(t, t.TempDir(), "uri", fixturePath("paypal.json"))
	assert.Equal(t, 0, code)
	assert.Equal(t, "https://paypal.me/jdoe/99.90USD?note=Invoice INV-1", strings.TrimSpace(out))
}

// --- Export Tests ---

func TestE2E_Export(t *testing.T) {
	project := t.TempDir()
	out, code := run(t, project, "export", fixturePath("website.yaml"), "--json")
	require.Equal(t, 0, code)

	var res application.ExportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, filepath.Join(project, "Invoice_INV-2024-009.pdf"), res.Path)
	assert.Equal(t, 1, res.Pages)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, len(data), res.Bytes)

	out, code = run(t, project, "history", "--json")
	require.Equal(t, 0, code)
	var entries []domain.ExportEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "INV-2024-009", entries[0].InvoiceNumber)
}

func TestE2E_ExportPaginates(t *testing.T) {
	project := t.TempDir()
	out, code := run(t, project, "export", fixturePath("long.yaml"), "--json")
	require.Equal(t, 0, code)

	var res application.ExportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.GreaterOrEqual(t, res.Pages, 2)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Pages, bytes.Count(data, []byte("/Type /Page\n")))
}

func TestE2E_ExportInvalidWritesNothing(t *testing.T) {
	project := t.TempDir()
	_, code := run(t, project, "export", fixturePath("invalid.yaml"))
	assert.Equal(t, 1, code)

	matches, err := filepath.Glob(filepath.Join(project, "*.pdf"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// --- Version Test ---

func TestE2E_Version(t *testing.T) {
	out, code := run(t, t.TempDir(), "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "invoicekit")
}
