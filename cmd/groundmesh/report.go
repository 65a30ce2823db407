package main

import (
	"fmt"
	"os"

	"github.com/automoto/groundmesh/shared/colliders"
	"github.com/gocarina/gocsv"
)

// BodyRecord is one row of the CSV report.
type BodyRecord struct {
	Level      string  `csv:"level"`
	Index      int     `csv:"index"`
	CenterX    float64 `csv:"center_x"`
	CenterY    float64 `csv:"center_y"`
	HalfWidth  float64 `csv:"half_width"`
	HalfHeight float64 `csv:"half_height"`
	Friction   float64 `csv:"friction"`
	Kind       string  `csv:"kind"`
	Slope      string  `csv:"slope"`
}

// bodyRecords lists every registered body in world coordinates.
func bodyRecords(report *colliders.Report, registry *colliders.Registry) []*BodyRecord {
	var records []*BodyRecord
	for _, lr := range report.Levels {
		for i, b := range registry.Bodies(lr.Level.IID) {
			w := b.Translate(lr.Level.Origin)
			records = append(records, &BodyRecord{
				Level:      lr.Level.Name,
				Index:      i,
				CenterX:    w.Center.X,
				CenterY:    w.Center.Y,
				HalfWidth:  w.HalfWidth,
				HalfHeight: w.HalfHeight,
				Friction:   w.Friction,
				Kind:       w.Kind.String(),
				Slope:      w.Slope,
			})
		}
	}
	return records
}

func writeReport(path string, report *colliders.Report, registry *colliders.Registry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(bodyRecords(report, registry), f); err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return nil
}
