package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	safeen "github.com/behemehal/SafeEn"
)

func sfn(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	t.Logf("sfn %s\n%s", strings.Join(args, " "), stderr.String())
	return stdout.String(), err
}

func sampleDB(t *testing.T, path string) *safeen.Database {
	db := safeen.New()
	db.SetName("sample")
	require.NoError(t, db.CreateTable("users", safeen.Col("name", safeen.TString), safeen.Col("scores", safeen.ArrayOf(safeen.TInt64))))
	require.NoError(t, db.MustTable("users").InsertNative("Ada", []int64{1, 2}))
	require.NoError(t, db.Save(path))
	return db
}

func TestDump(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "a.sfn")
	sampleDB(t, fn)

	out, err := sfn(t, "", "dump", "--rows", "--stats", fn)
	require.NoError(t, err)
	assert.Contains(t, out, "users (1 rows)")
	assert.Contains(t, out, `{name="Ada", scores=[1, 2]}`)
	assert.Contains(t, out, "total: tables = 1, rows = 1")

	_, err = sfn(t, "", "dump", filepath.Join(t.TempDir(), "missing.sfn"))
	var le *safeen.LoadError
	assert.ErrorAs(t, err, &le)
}

func TestExportImportConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.sfn")
	db := sampleDB(t, src)

	js, err := sfn(t, "", "export", src)
	require.NoError(t, err)
	assert.Contains(t, js, `"type": "Array(Int64)"`)

	dst := filepath.Join(dir, "b.sfn")
	_, err = sfn(t, js, "-v", "import", "--compress", "-", dst)
	require.NoError(t, err)
	loaded, err := safeen.Load(dst)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(db))

	snap := filepath.Join(dir, "a.mp")
	mp, err := sfn(t, "", "export", "--format", "msgpack", src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(snap, []byte(mp), 0o644))
	_, err = sfn(t, "", "import", "-f", "msgpack", snap, filepath.Join(dir, "c.sfn"))
	require.NoError(t, err)

	legacy := filepath.Join(dir, "legacy.sfn")
	_, err = sfn(t, "", "convert", "--legacy", dst, legacy)
	require.NoError(t, err)
	data, err := os.ReadFile(legacy)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(data, []byte("SAFEEN")))
	loaded, err = safeen.Load(legacy)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(db))

	_, err = sfn(t, "", "convert", "--legacy", "--compress", dst, legacy)
	assert.Error(t, err)
}

func TestBolt(t *testing.T) {
	dir := t.TempDir()
	bolt := filepath.Join(dir, "images.bolt")

	_, err := sfn(t, `{"name": "n", "tables": [{"name": "t", "columns": [{"key": "k", "type": "Bool"}], "rows": [[true]]}]}`,
		"--bolt", bolt, "import", "-", "first")
	require.NoError(t, err)

	out, err := sfn(t, "", "--bolt", bolt, "dump", "-r", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "{k=true}")
}

func TestUsage(t *testing.T) {
	_, err := sfn(t, "")
	assert.Error(t, err)
	_, err = sfn(t, "", "frobnicate")
	assert.Error(t, err)
	_, err = sfn(t, "", "dump")
	assert.Error(t, err)
	_, err = sfn(t, "", "export", "--format", "xml", "x.sfn")
	assert.Error(t, err)
}
