package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genolite/genolite/internal/raw"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("") // in-memory
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testStats() *raw.Stats {
	return &raw.Stats{
		Format:       raw.Format23AndMe,
		TotalRecords: 100,
		ValidRecords: 95,
		ChromosomeCounts: map[string]int{
			"1": 50,
			"2": 40,
			"X": 5,
		},
	}
}

func TestStore_RecordRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.RecordRun(Run{
		InputPath:  "genome.txt",
		OutputPath: "genome.vcf",
		Format:     "23andMe",
		SampleName: "SAMPLE1",
	}, testStats())
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	runs, err := s.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "genome.txt", r.InputPath)
	assert.Equal(t, "genome.vcf", r.OutputPath)
	assert.Equal(t, "23andMe", r.Format)
	assert.Equal(t, "SAMPLE1", r.SampleName)
	assert.Equal(t, 100, r.TotalRecords)
	assert.Equal(t, 95, r.ValidRecords)
	assert.False(t, r.StartedAt.IsZero())
}

func TestStore_RunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	first, err := s.RecordRun(Run{InputPath: "a.txt"}, testStats())
	require.NoError(t, err)
	second, err := s.RecordRun(Run{InputPath: "b.txt"}, testStats())
	require.NoError(t, err)

	runs, err := s.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)

	limited, err := s.Runs(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second, limited[0].ID)
}

func TestStore_ChromosomeCounts(t *testing.T) {
	s := openTestStore(t)

	id, err := s.RecordRun(Run{InputPath: "a.txt"}, testStats())
	require.NoError(t, err)

	counts, err := s.ChromosomeCounts(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 50, "2": 40, "X": 5}, counts)

	empty, err := s.ChromosomeCounts(id + 1000)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_OpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "runs.db")

	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.RecordRun(Run{InputPath: "a.txt"}, testStats())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening sees the persisted run.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Runs(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
