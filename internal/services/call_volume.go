package services

import (
	"sort"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

const (
	// CountAxisHeadroom is added above the tallest bar.
	CountAxisHeadroom = 5
	RateAxisMax       = 100
	RateAxisTickStep  = 5
)

// SlotVolume is one bar+point on the chart.
type SlotVolume struct {
	CallTime    models.CallTime       `json:"call_time"`
	Counts      map[models.PickUp]int `json:"counts"`
	Total       int                   `json:"total_count"`
	SuccessRate float64               `json:"success_rate"`
}

// ChartSeries is the aggregated view of one day. Slots is empty when no rows
// match the day.
type ChartSeries struct {
	Day   models.Day   `json:"day"`
	Slots []SlotVolume `json:"slots"`
}

func (c ChartSeries) Empty() bool { return len(c.Slots) == 0 }

// CallTimes returns the x labels aligned with Totals and SuccessRates.
func (c ChartSeries) CallTimes() []string {
	out := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = string(s.CallTime)
	}
	return out
}

func (c ChartSeries) Totals() []float64 {
	out := make([]float64, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = float64(s.Total)
	}
	return out
}

func (c ChartSeries) SuccessRates() []float64 {
	out := make([]float64, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = s.SuccessRate
	}
	return out
}

// CountAxisMax is max(total)+5, the upper bound of the bar axis.
func (c ChartSeries) CountAxisMax() int {
	m := 0
	for _, s := range c.Slots {
		if s.Total > m {
			m = s.Total
		}
	}
	return m + CountAxisHeadroom
}

// Aggregate groups the rows for day by call time and computes the dial count
// and pickup percentage of each slot. Slots follow models.CallTimes order;
// labels outside that list come last in lexical order.
func Aggregate(rows []models.CallRecord, day models.Day) ChartSeries {
	out := ChartSeries{Day: day, Slots: []SlotVolume{}}

	bySlot := make(map[models.CallTime]map[models.PickUp]int)
	for _, r := range rows {
		if r.Day != day {
			continue
		}
		if _, ok := bySlot[r.CallTime]; !ok {
			bySlot[r.CallTime] = make(map[models.PickUp]int)
		}
		bySlot[r.CallTime][r.PickUp]++
	}
	if len(bySlot) == 0 {
		return out
	}

	slots := make([]models.CallTime, 0, len(bySlot))
	for ct := range bySlot {
		slots = append(slots, ct)
	}
	sort.Slice(slots, func(i, j int) bool { return slotLess(slots[i], slots[j]) })

	for _, ct := range slots {
		counts := bySlot[ct]
		total := 0
		for _, n := range counts {
			total += n
		}
		rate := 0.0
		if yes := counts[models.PickUpYes]; yes > 0 {
			rate = float64(yes) / float64(total) * 100
		}
		out.Slots = append(out.Slots, SlotVolume{
			CallTime:    ct,
			Counts:      counts,
			Total:       total,
			SuccessRate: rate,
		})
	}
	return out
}

func slotLess(a, b models.CallTime) bool {
	ia, ib := a.SlotIndex(), b.SlotIndex()
	switch {
	case ia >= 0 && ib >= 0:
		return ia < ib
	case ia >= 0:
		return true
	case ib >= 0:
		return false
	default:
		return a < b
	}
}
