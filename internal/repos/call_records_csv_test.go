package repos

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

func TestParseCallRecordsCSVByHeaderName(t *testing.T) {
	in := "Submission ID,Day,Call Time,Pick Up,Extra\n" +
		"7,sunday,2:00 PM,Yes,ignored\n" +
		"8,Monday,2:30 PM,No,\n"

	rows, err := ParseCallRecordsCSV(strings.NewReader(in))
	require.NoError(t, err)

	want := []models.CallRecord{
		{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpYes, SubmissionID: "7"},
		{Day: models.Monday, CallTime: "2:30 PM", PickUp: models.PickUpNo, SubmissionID: "8"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCallRecordsCSVRequiresSubmissionID(t *testing.T) {
	_, err := ParseCallRecordsCSV(strings.NewReader("day,call_time\nSunday,2:00 PM\n"))
	assert.ErrorContains(t, err, "submission_id")

	_, err = ParseCallRecordsCSV(strings.NewReader("day,submission_id\nSunday,\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestParseCallRecordsCSVEmptyInput(t *testing.T) {
	rows, err := ParseCallRecordsCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteThenLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	rows := []models.CallRecord{sample("1"), sample("2")}
	rows[1].Job = "needs, quoting"

	require.NoError(t, WriteCallRecordsCSVFile(path, rows))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("day,call_time,pick_up,submit_date,good_time_for_3min_talk,job,submission_id\n")))

	got, err := LoadCallRecordsCSV(path, quiet)
	require.NoError(t, err)
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}
