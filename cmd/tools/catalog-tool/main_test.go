package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"mergington-activities/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAddUpdateValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	var out bytes.Buffer

	require.NoError(t, run([]string{"init", "-path", path}, &out))
	assert.Error(t, run([]string{"init", "-path", path}, &out))

	require.NoError(t, run([]string{"add", "-path", path,
		"-name", "Gym Class",
		"-description", "Physical education and sports activities",
		"-schedule", "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		"-max", "30",
	}, &out))
	assert.Error(t, run([]string{"add", "-path", path,
		"-name", "Gym Class", "-description", "d", "-schedule", "s", "-max", "5",
	}, &out))

	require.NoError(t, run([]string{"update", "-path", path,
		"-name", "Chess Club", "-field", "max_participants", "-value", "16",
	}, &out))

	out.Reset()
	require.NoError(t, run([]string{"validate", "-path", path}, &out))
	assert.Contains(t, out.String(), "3 activities")

	c, err := catalog.Load(path)
	require.NoError(t, err)
	chess, ok := c.Find("Chess Club")
	require.True(t, ok)
	assert.Equal(t, 16, chess.MaxParticipants)
	gym, ok := c.Find("Gym Class")
	require.True(t, ok)
	assert.Empty(t, gym.Participants)
}

func TestAddCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")

	require.NoError(t, run([]string{"add", "-path", path,
		"-name", "Art Club", "-description", "Painting", "-schedule", "Thursdays", "-max", "15",
	}, &bytes.Buffer{}))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Activities, 1)
}

func TestUpdateErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, run([]string{"init", "-path", path}, &bytes.Buffer{}))

	assert.ErrorContains(t, run([]string{"update", "-path", path, "-name", "Nope", "-field", "schedule", "-value", "x"}, &bytes.Buffer{}), "not found")
	assert.ErrorContains(t, run([]string{"update", "-path", path, "-name", "Chess Club", "-field", "color", "-value", "x"}, &bytes.Buffer{}), "unknown field")
	assert.Error(t, run([]string{"update", "-path", path, "-name", "Chess Club", "-field", "max_participants", "-value", "0"}, &bytes.Buffer{}))
}

func TestValidateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1","activities":[{"name":""}]}`), 0o644))

	assert.ErrorContains(t, run([]string{"validate", "-path", path}, &bytes.Buffer{}), "catalog validation failed")
}

func TestListBuiltIn(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"list"}, &out))

	assert.Contains(t, out.String(), "- Chess Club [2/12]")
	assert.Contains(t, out.String(), "- Programming Class [2/20]")
}

func TestUnknownCommand(t *testing.T) {
	assert.Error(t, run([]string{"frobnicate"}, &bytes.Buffer{}))
	assert.Error(t, run(nil, &bytes.Buffer{}))
}
