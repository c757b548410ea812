package copier

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"census-reconciler/internal/census"
	"census-reconciler/internal/mapping"
	"census-reconciler/internal/match"
	"census-reconciler/internal/sheet"
)

// Engine copies source rows into the destination sheet.
type Engine struct {
	mapping  *mapping.MappingFile
	registry *mapping.TransformRegistry
	logger   *zap.Logger
}

// New creates an engine. A nil registry means the built-in transforms and a
// nil logger discards output.
func New(mf *mapping.MappingFile, registry *mapping.TransformRegistry, logger *zap.Logger) *Engine {
	if registry == nil {
		registry = mapping.DefaultRegistry()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{mapping: mf, registry: registry, logger: logger}
}

// fieldPlan is a mapped field ready to copy.
type fieldPlan struct {
	name      string
	source    int
	targets   []int
	transform mapping.Transform
}

// augmentPlan appends "-<subtract><row>" to formulas of column.
type augmentPlan struct {
	column   int
	subtract string
}

// CopyRecords copies every source row, from the first data row up to the
// first blank key, into consecutive destination rows. It returns the number
// of rows copied.
func (e *Engine) CopyRecords(src sheet.Grid, dst sheet.Sheet, b match.Binding) (int, error) {
	keyCol, ok := b.Column(e.mapping.Source.Key)
	if !ok {
		return 0, fmt.Errorf("failed to copy %s: %w: %s", src.Name(), census.ErrKeyUnbound, e.mapping.Source.Key)
	}

	fields := e.planFields(b)
	augments := e.planAugments()

	if err := e.writeLabels(dst); err != nil {
		return 0, err
	}

	count := 0
	dstRow := e.mapping.Target.FirstRow

	for srcRow := range sheet.ScanUntilBlankKey(src, keyCol, e.mapping.Source.FirstRow) {
		for _, f := range fields {
			if err := e.copyField(src, dst, f, srcRow, dstRow); err != nil {
				return count, err
			}
		}

		for _, a := range augments {
			if err := Augment(dst, a.column, a.subtract, dstRow); err != nil {
				return count, err
			}
		}

		count++
		dstRow++
	}

	e.logger.Debug("copied roster",
		zap.String("source", src.Name()),
		zap.String("target", dst.Name()),
		zap.Int("rows", count))

	return count, nil
}

func (e *Engine) planFields(b match.Binding) []fieldPlan {
	var plans []fieldPlan

	for i := range e.mapping.Fields {
		f := &e.mapping.Fields[i]

		targets := f.TargetColumns()
		if len(targets) == 0 {
			continue
		}

		col, ok := b.Column(f.Name)
		if !ok {
			e.logger.Debug("field not bound, skipping", zap.String("field", f.Name))
			continue
		}

		fn, ok := e.registry.Get(f.Transform)
		if !ok {
			e.logger.Warn("unknown transform, skipping field",
				zap.String("field", f.Name),
				zap.String("transform", f.Transform))

			continue
		}

		plans = append(plans, fieldPlan{name: f.Name, source: col, targets: targets, transform: fn})
	}

	return plans
}

func (e *Engine) planAugments() []augmentPlan {
	var plans []augmentPlan

	for _, a := range e.mapping.Augment {
		col, err := sheet.ColumnNumber(a.Column)
		if err != nil {
			continue
		}

		plans = append(plans, augmentPlan{column: col, subtract: a.Subtract})
	}

	return plans
}

// writeLabels sets target header labels that are still empty.
func (e *Engine) writeLabels(dst sheet.Sheet) error {
	for _, cell := range slices.Sorted(maps.Keys(e.mapping.Labels)) {
		ref, err := sheet.ParseRef(cell)
		if err != nil {
			continue
		}

		if !dst.Cell(ref.Col, ref.Row).IsBlank() {
			continue
		}

		if err := dst.SetValue(ref.Col, ref.Row, sheet.Str(e.mapping.Labels[cell])); err != nil {
			return fmt.Errorf("failed to write label %s: %w", cell, err)
		}
	}

	return nil
}

func (e *Engine) copyField(src sheet.Grid, dst sheet.Sheet, f fieldPlan, srcRow, dstRow int) error {
	cell := src.Cell(f.source, srcRow)

	v, ok := apply(f.transform, cell)
	if !ok {
		if !cell.IsBlank() {
			e.logger.Debug("cell not converted, leaving target blank",
				zap.String("field", f.name),
				zap.Stringer("cell", sheet.Ref{Col: f.source, Row: srcRow}),
				zap.Stringer("value", cell.Literal))
		}

		return nil
	}

	for _, col := range f.targets {
		if err := dst.SetValue(col, dstRow, v); err != nil {
			return fmt.Errorf("failed to copy %s: %w", f.name, err)
		}
	}

	return nil
}

// apply runs a transform, treating a panic as a conversion failure.
func apply(fn mapping.Transform, c sheet.Cell) (v sheet.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = sheet.Empty, false
		}
	}()

	return fn(c)
}
