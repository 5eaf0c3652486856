package models

import "strings"

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days is the dropdown order used by the day filter and the row composer.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DefaultDay is what the chart shows before the user picks a day.
const DefaultDay = Sunday

// ParseDay matches s against the weekday names, ignoring case and surrounding space.
func ParseDay(s string) (Day, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Days {
		if strings.EqualFold(string(d), s) {
			return d, true
		}
	}
	return "", false
}

type CallTime string

// CallTimes are the half-hour slots a call can be logged against, in chronological order.
var CallTimes = []CallTime{
	"12:00 PM", "12:30 PM", "1:00 PM", "1:30 PM",
	"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM",
	"4:00 PM", "4:30 PM", "5:00 PM", "5:30 PM",
}

// SlotIndex returns the chronological position of t, or -1 for labels outside CallTimes.
func (t CallTime) SlotIndex() int {
	for i, ct := range CallTimes {
		if ct == t {
			return i
		}
	}
	return -1
}

type PickUp string

const (
	PickUpYes PickUp = "Yes"
	PickUpNo  PickUp = "No"
)

var PickUps = []PickUp{PickUpYes, PickUpNo}

// CallRecord is one attempted call. SubmissionID is the natural key in the store.
type CallRecord struct {
	Day                 Day      `gorm:"column:day" json:"day"`
	CallTime            CallTime `gorm:"column:call_time" json:"call_time"`
	PickUp              PickUp   `gorm:"column:pick_up" json:"pick_up"`
	SubmitDate          string   `gorm:"column:submit_date" json:"submit_date"`
	GoodTimeFor3MinTalk string   `gorm:"column:good_time_for_3min_talk" json:"good_time_for_3min_talk"`
	Job                 string   `gorm:"column:job" json:"job"`
	SubmissionID        string   `gorm:"column:submission_id;primaryKey" json:"submission_id"`
}

func (CallRecord) TableName() string { return "calltracker_table" }

// SubmissionIDs returns the ids of rows in order, repeats included.
func SubmissionIDs(rows []CallRecord) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SubmissionID)
	}
	return ids
}
