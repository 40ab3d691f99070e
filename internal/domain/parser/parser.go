// Package parser converts vendor batted-ball CSV exports into validated
// SwingRecords. Malformed rows are skipped and counted, never fatal; a file
// is only rejected when it yields zero valid rows.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/swinglabs/fourb/internal/domain/model"
)

// canonical column names after header normalization.
const (
	colSwing    = "swing"
	colResult   = "result"
	colVelocity = "velocity"
	colAngle    = "angle"
	colDistance = "distance"
)

// headerAliases maps normalized vendor header cells to canonical columns.
// Unrecognized columns are ignored.
var headerAliases = map[string]string{
	"swing":         colSwing,
	"swing number":  colSwing,
	"swing #":       colSwing,
	"no":            colSwing,
	"result":        colResult,
	"outcome":       colResult,
	"pitch result":  colResult,
	"exit velocity": colVelocity,
	"exit velo":     colVelocity,
	"velocity":      colVelocity,
	"ev":            colVelocity,
	"launch angle":  colAngle,
	"angle":         colAngle,
	"la":            colAngle,
	"distance":      colDistance,
	"dist":          colDistance,
	"carry":         colDistance,
}

// resultAliases maps normalized vendor result codes to the canonical result
// plus the hit-type subcode for in-play balls.
var resultAliases = map[string]struct {
	result model.ResultCode
	batted model.BattedBallType
}{
	"miss":            {model.ResultMiss, model.BattedBallUnknown},
	"whiff":           {model.ResultMiss, model.BattedBallUnknown},
	"swinging strike": {model.ResultMiss, model.BattedBallUnknown},
	"foul":            {model.ResultFoul, model.BattedBallUnknown},
	"foul tip":        {model.ResultFoul, model.BattedBallUnknown},
	"gb":              {model.ResultInPlay, model.BattedBallGround},
	"ground ball":     {model.ResultInPlay, model.BattedBallGround},
	"ld":              {model.ResultInPlay, model.BattedBallLine},
	"line drive":      {model.ResultInPlay, model.BattedBallLine},
	"fb":              {model.ResultInPlay, model.BattedBallFly},
	"fly ball":        {model.ResultInPlay, model.BattedBallFly},
	"pu":              {model.ResultInPlay, model.BattedBallPopup},
	"pop up":          {model.ResultInPlay, model.BattedBallPopup},
	"popup":           {model.ResultInPlay, model.BattedBallPopup},
	"in play":         {model.ResultInPlay, model.BattedBallUnknown},
	"hit":             {model.ResultInPlay, model.BattedBallUnknown},
	"hr":              {model.ResultInPlay, model.BattedBallFly},
	"home run":        {model.ResultInPlay, model.BattedBallFly},
}

// Result is the outcome of parsing one vendor file.
type Result struct {
	Name    string
	Records []model.SwingRecord
	Skipped int // malformed rows dropped, surfaced as a warning
}

// Parse reads one vendor CSV export. Rows that cannot be interpreted are
// counted in Result.Skipped; unparseable numeric cells become nil fields. A
// file with zero valid rows returns ErrNoValidRecords.
func Parse(name string, r io.Reader) (Result, error) {
	res := Result{Name: name}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // vendor exports pad rows inconsistently
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return res, fmt.Errorf("%s: %w", name, ErrMissingHeader)
	}
	if err != nil {
		return res, fmt.Errorf("%s: read header: %w", name, err)
	}

	// Map column index -> canonical column, case-insensitively.
	cols := make(map[int]string, len(header))
	for i, cell := range header {
		if canonical, ok := headerAliases[normalize(cell)]; ok {
			cols[i] = canonical
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structurally broken row (bare quotes etc); skip, keep going.
			res.Skipped++
			continue
		}
		rec, ok := parseRow(cols, row, len(res.Records)+1)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if len(res.Records) == 0 {
		return res, fmt.Errorf("%s: %w", name, ErrNoValidRecords)
	}
	return res, nil
}

// MergeSorted concatenates per-file parse results and sorts the combined
// sequence by swing number ascending, so ordering is well-defined even when
// multiple files interleave recording sessions. The sort is stable to keep
// parse order as the tie-break.
func MergeSorted(results ...Result) []model.SwingRecord {
	var merged []model.SwingRecord
	for _, r := range results {
		merged = append(merged, r.Records...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SwingNumber < merged[j].SwingNumber
	})
	return merged
}

// parseRow interprets one data row. ordinal is the 1-based fallback swing
// number when the vendor omits one. Returns ok=false when the row carries no
// usable contact or result information at all.
func parseRow(cols map[int]string, row []string, ordinal int) (model.SwingRecord, bool) {
	rec := model.SwingRecord{SwingNumber: ordinal, BattedBall: model.BattedBallUnknown}

	var haveResult bool
	for i, cell := range row {
		canonical, ok := cols[i]
		if !ok || strings.TrimSpace(cell) == "" {
			continue
		}
		switch canonical {
		case colSwing:
			if n, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil && n > 0 {
				rec.SwingNumber = n
			}
		case colResult:
			if alias, ok := resultAliases[normalize(cell)]; ok {
				rec.Result = alias.result
				rec.BattedBall = alias.batted
				haveResult = true
			}
		case colVelocity:
			rec.ExitVelocity = parseFloat(cell)
		case colAngle:
			rec.LaunchAngle = parseFloat(cell)
		case colDistance:
			rec.Distance = parseFloat(cell)
		}
	}

	// A row with a measured exit velocity but an unrecognized result code is
	// still a usable in-play swing. A row with neither is noise.
	if !haveResult {
		if rec.ExitVelocity == nil {
			return model.SwingRecord{}, false
		}
		rec.Result = model.ResultInPlay
	}

	// Contactless swings contribute to miss/foul counts only.
	if rec.Result != model.ResultInPlay {
		rec.ExitVelocity = nil
		rec.LaunchAngle = nil
		rec.Distance = nil
	}
	return rec, true
}

// parseFloat treats unparseable numeric cells as nil rather than rejecting
// the row.
func parseFloat(cell string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return nil
	}
	return &v
}

// normalize lowercases and squashes separators so header and result lookups
// tolerate vendor formatting drift.
func normalize(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.ReplaceAll(cell, "_", " ")
	cell = strings.ReplaceAll(cell, "-", " ")
	return strings.Join(strings.Fields(cell), " ")
}
