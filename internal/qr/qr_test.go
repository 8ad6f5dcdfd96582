package qr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda-app/comanda/internal/entity"
)

func TestURL(t *testing.T) {
	g := &Generator{baseURL: "http://192.168.1.20:8080"}
	assert.Equal(t, "http://192.168.1.20:8080/?table=7", g.URL(7))
}

func TestGenerateWritesImage(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{baseURL: "http://localhost:8080", outputDir: dir}

	table := &entity.Table{ID: 3, Number: 3, Name: "Mesa 3"}
	path, url, err := g.Generate(table)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "table_3.png"), path)
	assert.Equal(t, "http://localhost:8080/?table=3", url)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateNilTable(t *testing.T) {
	g := &Generator{baseURL: "http://localhost:8080", outputDir: t.TempDir()}
	_, _, err := g.Generate(nil)
	assert.Error(t, err)
}
