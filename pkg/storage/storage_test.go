package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw33tLie/pmcontacts/pkg/contacts"
)

func TestRecordAndListRuns(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "history.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	run := Run{
		StartedAt:          started,
		Input:              "contacts.csv",
		Structure:          "model.pdb",
		Session:            "out/model.pse",
		Format:             "v3",
		ROI:                "100-200",
		InitialContacts:    3,
		ValidatedContacts:  2,
		DowngradedContacts: 1,
		ValidatedPairs:     1,
		TotalPairs:         2,
		OutOfROI:           1,
	}
	ms := BuildMeasurements([]contacts.Measurement{
		{Name: "LYS105_NZ-GLU210_OE1-OE2", Resi1: 105, Atom1: "NZ", Resi2: 210, Atom2: "OE2", Status: contacts.Downgraded},
		{Name: "SER106_OG-ASP211_OD2", Resi1: 106, Atom1: "OG", Resi2: 211, Atom2: "OD2", Status: contacts.Accepted},
	})

	id, err := db.RecordRun(ctx, run, ms)
	require.NoError(t, err)
	assert.NotZero(t, id)

	later := run
	later.StartedAt = started.Add(time.Hour)
	later.ROI = ""
	id2, err := db.RecordRun(ctx, later, nil)
	require.NoError(t, err)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id2, runs[0].ID, "most recent run first")
	assert.Equal(t, "", runs[0].ROI)
	assert.Equal(t, "100-200", runs[1].ROI)
	assert.Equal(t, started, runs[1].StartedAt)
	assert.Equal(t, 2, runs[1].ValidatedContacts)
	assert.Equal(t, 1, runs[1].DowngradedContacts)

	got, err := db.ListMeasurements(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "downgraded", got[0].Status)
	assert.Equal(t, "OD2", got[1].Atom2)

	empty, err := db.ListMeasurements(ctx, id2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = db.ListMeasurements(ctx, 999)
	assert.Error(t, err)
}
