package publish

import (
	"context"
)

// Network table layout the robot code reads.
const (
	TableName  = "NerdyVision"
	AngleKey   = "ANGLE_TO_TURN"
	AlignedKey = "IS_ALIGNED"
)

// TableWriter is the subset of a network table used here.
// *networktables.Table implements it.
type TableWriter interface {
	PutNumber(key string, v float64) error
	PutBoolean(key string, v bool) error
}

// Table writes the aim result to the robot's network table.
type Table struct {
	writer TableWriter
}

// NewTable creates a table sink.
func NewTable(w TableWriter) *Table {
	return &Table{writer: w}
}

// Name implements Publisher.
func (t *Table) Name() string {
	return "table"
}

// Publish writes ANGLE_TO_TURN then IS_ALIGNED. If the first write fails
// the second is not attempted.
func (t *Table) Publish(_ context.Context, f Frame) Report {
	if err := t.writer.PutNumber(AngleKey, f.Aim.AngleToTurn); err != nil {
		return failed(t.Name(), err)
	}
	if err := t.writer.PutBoolean(AlignedKey, f.Aim.Aligned); err != nil {
		return failed(t.Name(), err)
	}
	return published(t.Name())
}
