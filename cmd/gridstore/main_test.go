package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/gridstore/pkg/config"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { storage.SetCollector(nil) })
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const orders = "id,item,qty,shipped\n1,pen,3,yes\n2,ink,x,no\n3,pad,300,yes\n"

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Gridstore v"+version)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", writeCSV(t, orders), "--sample", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Table orders: 3 rows, 4 columns")
	lines := strings.Split(out, "\n")
	var qty string
	for _, line := range lines {
		if strings.HasPrefix(line, "qty") {
			qty = strings.Join(strings.Fields(line), " ")
		}
	}
	assert.Equal(t, "qty number 3 1 short", qty)
}

func TestInspectWithMetrics(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gridstore.yaml")
	cfg := config.NewEngineConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "cli_test"
	require.NoError(t, config.Save(cfgPath, cfg))

	out, err := run(t, "inspect", writeCSV(t, orders), "--config", cfgPath, "--sample", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Metrics:")
	assert.Contains(t, out, "cli_test_content_errors_total|kind=number = 1")
}

func TestInspectRejectsBadDelimiter(t *testing.T) {
	_, err := run(t, "inspect", writeCSV(t, orders), "--delimiter", ";;")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	input := writeCSV(t, orders)
	out := filepath.Join(t.TempDir(), "orders.jsonl")

	_, err := run(t, "export", input, "--format", "json", "--out", out, "--sample", "1")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `{"id":1,"item":"pen","qty":3,"shipped":true}`, lines[0])
	assert.Equal(t, `{"id":2,"item":"ink","qty":null,"qty__error":"cannot parse \"x\" as number","shipped":false}`, lines[1])
}

func TestExportDefaultOutput(t *testing.T) {
	input := writeCSV(t, orders)

	_, err := run(t, "export", input, "--compression", "zstd")
	require.NoError(t, err)

	info, err := os.Stat(strings.TrimSuffix(input, ".csv") + ".arrow.zst")
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = run(t, "export", input, "--format", "xml")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridstore.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewEngineConfig(), cfg)

	_, err = run(t, "config", "init", path)
	assert.Error(t, err)
	_, err = run(t, "config", "init", path, "--force")
	assert.NoError(t, err)
}

func TestConfigShowAppliesEnvironment(t *testing.T) {
	t.Setenv("GRIDSTORE_EXPORT_FORMAT", "json")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "export: format=json compression=none")
}
