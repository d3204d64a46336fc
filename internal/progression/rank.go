// AngelaMos | 2026
// rank.go

package progression

import (
	"fmt"
	"math"
)

type Rank string

const (
	Bronze   Rank = "Bronze"
	Silver   Rank = "Silver"
	Gold     Rank = "Gold"
	Platinum Rank = "Platinum"
	Diamond  Rank = "Diamond"
)

// PointsPerAction is awarded for every logged action.
const PointsPerAction = 10

type threshold struct {
	Rank Rank
	Min  int
}

// thresholds is ordered by Min, lowest first. Each rank covers
// [Min, next Min).
var thresholds = []threshold{
	{Bronze, 0},
	{Silver, 200},
	{Gold, 800},
	{Platinum, 2000},
	{Diamond, 5000},
}

// Ranks returns all ranks from lowest to highest.
func Ranks() []Rank {
	out := make([]Rank, len(thresholds))
	for i, t := range thresholds {
		out[i] = t.Rank
	}
	return out
}

// RankOf maps a point total to its rank. Negative totals are Bronze.
func RankOf(points int) Rank {
	return thresholds[tierIndex(points)].Rank
}

func tierIndex(points int) int {
	idx := 0
	for i, t := range thresholds {
		if points >= t.Min {
			idx = i
		}
	}
	return idx
}

func (r Rank) Valid() bool {
	return r.Index() >= 0
}

// Index is the position of r in the rank order, or -1 when r is unknown.
func (r Rank) Index() int {
	for i, t := range thresholds {
		if t.Rank == r {
			return i
		}
	}
	return -1
}

func (r Rank) String() string {
	return string(r)
}

func ParseRank(s string) (Rank, error) {
	r := Rank(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown rank %q", s)
	}
	return r, nil
}

// Progress describes where a point total sits inside its rank band.
// Next is zero at the top rank.
type Progress struct {
	Rank         Rank `json:"rank"`
	Points       int  `json:"points"`
	Floor        int  `json:"floor"`
	Next         int  `json:"next"`
	Percent      int  `json:"percent"`
	PointsToNext int  `json:"points_to_next"`
}

func ProgressOf(points int) Progress {
	if points < 0 {
		points = 0
	}

	idx := tierIndex(points)
	cur := thresholds[idx]

	p := Progress{
		Rank:   cur.Rank,
		Points: points,
		Floor:  cur.Min,
	}

	if idx == len(thresholds)-1 {
		p.Percent = 100
		return p
	}

	next := thresholds[idx+1].Min
	p.Next = next
	p.PointsToNext = next - points

	pct := int(math.Round(100 * float64(points-cur.Min) / float64(next-cur.Min)))
	p.Percent = min(max(pct, 0), 100)

	return p
}

// Promoted reports whether moving from before to after crosses into a
// higher rank.
func Promoted(before, after int) bool {
	return RankOf(after).Index() > RankOf(before).Index()
}
