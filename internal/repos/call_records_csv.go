package repos

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

var callRecordsCSVHeader = []string{
	"day",
	"call_time",
	"pick_up",
	"submit_date",
	"good_time_for_3min_talk",
	"job",
	"submission_id",
}

// LoadCallRecordsCSV reads the delimited dataset at path.
func LoadCallRecordsCSV(path string, lg *log.Logger) ([]models.CallRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ParseCallRecordsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if lg != nil {
		lg.Printf("Loaded %d call records from %s", len(rows), path)
	}
	return rows, nil
}

// ParseCallRecordsCSV maps columns by header name. Header names are matched
// case-insensitively with spaces treated as underscores, so "Call Time" and
// "call_time" are the same column. Unknown columns are ignored.
func ParseCallRecordsCSV(r io.Reader) ([]models.CallRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normaliseHeader(h)] = i
	}
	if _, ok := idx["submission_id"]; !ok {
		return nil, fmt.Errorf("missing submission_id column in header %v", header)
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []models.CallRecord
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := models.CallRecord{
			Day:                 models.Day(get(rec, "day")),
			CallTime:            models.CallTime(get(rec, "call_time")),
			PickUp:              models.PickUp(get(rec, "pick_up")),
			SubmitDate:          get(rec, "submit_date"),
			GoodTimeFor3MinTalk: get(rec, "good_time_for_3min_talk"),
			Job:                 get(rec, "job"),
			SubmissionID:        get(rec, "submission_id"),
		}
		if d, ok := models.ParseDay(string(row.Day)); ok {
			row.Day = d
		}
		if row.SubmissionID == "" {
			return nil, fmt.Errorf("line %d: empty submission_id", line)
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteCallRecordsCSV writes rows with the calltracker_table column names as header.
func WriteCallRecordsCSV(w io.Writer, rows []models.CallRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(callRecordsCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			string(r.Day),
			string(r.CallTime),
			string(r.PickUp),
			r.SubmitDate,
			r.GoodTimeFor3MinTalk,
			r.Job,
			r.SubmissionID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCallRecordsCSVFile(path string, rows []models.CallRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCallRecordsCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func normaliseHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.ReplaceAll(h, " ", "_")
}
