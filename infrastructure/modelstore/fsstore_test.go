package modelstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/internal/forecast/arima"
)

func testArtifact(product string) *domain.ModelArtifact {
	return &domain.ModelArtifact{
		Product:        product,
		Order:          arima.Order{P: 1, D: 1, Q: 1},
		AutoSelected:   true,
		LogTransform:   true,
		LastMonth:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		SeriesChecksum: "abc123",
		TrainedAt:      time.Now().UTC(),
		Payload:        []byte("model-bytes"),
	}
}

func TestFSStore_PutGetRoundtrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	artifact := testArtifact("Produk A")
	require.NoError(t, store.Put(artifact))

	got, err := store.Get("Produk A")
	require.NoError(t, err)
	assert.Equal(t, artifact.Product, got.Product)
	assert.Equal(t, artifact.Order, got.Order)
	assert.Equal(t, artifact.SeriesChecksum, got.SeriesChecksum)
	assert.Equal(t, artifact.Payload, got.Payload)
}

func TestFSStore_KeyReplacesSpaces(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(testArtifact("Produk A")))

	_, err = os.Stat(filepath.Join(dir, "Produk_A.model"))
	assert.NoError(t, err)
}

func TestFSStore_PutOverwritesWhole(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	first := testArtifact("Produk A")
	require.NoError(t, store.Put(first))

	second := testArtifact("Produk A")
	second.Order = arima.Order{P: 2, D: 0, Q: 1}
	second.Payload = []byte("new-model-bytes")
	require.NoError(t, store.Put(second))

	got, err := store.Get("Produk A")
	require.NoError(t, err)
	assert.Equal(t, second.Order, got.Order)
	assert.Equal(t, second.Payload, got.Payload)
}

func TestFSStore_GetNotFound(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_GetCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Produk_A.model"), []byte("garbage"), 0o644))

	_, err = store.Get("Produk A")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFSStore_Delete(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(testArtifact("Produk A")))
	require.NoError(t, store.Delete("Produk A"))

	_, err = store.Get("Produk A")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete("Produk A"), ErrNotFound)
}

func TestFSStore_List(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(testArtifact("Produk A")))
	require.NoError(t, store.Put(testArtifact("Produk B")))

	// An unreadable artifact is skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.model"), []byte("garbage"), 0o644))

	infos, err := store.List()
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	products := []string{infos[0].Product, infos[1].Product}
	assert.ElementsMatch(t, []string{"Produk A", "Produk B"}, products)
	assert.Equal(t, "2024-06", infos[0].LastMonth)
}
