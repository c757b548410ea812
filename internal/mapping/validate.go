package mapping

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"census-reconciler/internal/diagnostic"
	"census-reconciler/internal/sheet"
)

// Validate checks a mapping file for structural problems: missing sheets,
// unknown or duplicate fields, unknown transforms, bad column letters and
// target collisions. It does not open any workbook.
func Validate(mf *MappingFile, registry *TransformRegistry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if registry == nil {
		registry = DefaultRegistry()
	}

	validateSheetSpec(res, "source", mf.Source)
	validateSheetSpec(res, "target", mf.Target)
	validateSheetSpec(res, "departed", mf.Departed.SheetSpec)

	validateFields(res, mf.Source.Sheet, mf.Fields, ActiveFields, registry, true)
	validateFields(res, mf.Departed.Sheet, mf.Departed.Fields, DepartedFields, registry, false)
	validateKey(res, mf.Source, mf.Fields)
	validateKey(res, mf.Departed.SheetSpec, mf.Departed.Fields)
	validateAugment(res, mf)
	validateCells(res, mf)

	return res
}

func validateSheetSpec(res *diagnostic.Diagnostics, role string, s SheetSpec) {
	if strings.TrimSpace(s.Sheet) == "" {
		res.AddError("sheet_missing", role+" sheet name is empty", "", "")
		return
	}

	if s.FirstRow <= s.HeaderRow {
		res.AddError("invalid_rows",
			fmt.Sprintf("%s first_row %d must follow header_row %d", role, s.FirstRow, s.HeaderRow),
			s.Sheet, "")
	}
}

func validateFields(
	res *diagnostic.Diagnostics,
	sheetName string,
	fields []FieldMapping,
	required []string,
	registry *TransformRegistry,
	withTargets bool,
) {
	seen := map[string]struct{}{}
	targets := map[string]string{}

	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			res.AddError("field_name_missing", fmt.Sprintf("field #%d has no name", i+1), sheetName, "")
			continue
		}

		if _, dup := seen[f.Name]; dup {
			res.AddError("duplicate_field", fmt.Sprintf("duplicate field %q", f.Name), sheetName, f.Name)
			continue
		}

		seen[f.Name] = struct{}{}

		if !slices.Contains(required, f.Name) {
			res.AddWarning("unknown_field", fmt.Sprintf("field %q is not a census field", f.Name), sheetName, f.Name)
		}

		if f.Source != "" && f.SourceColumn() == 0 {
			res.AddError("invalid_source_column", fmt.Sprintf("invalid source column %q", f.Source), sheetName, f.Name)
		}

		if f.Source == "" && len(f.Header) == 0 {
			res.AddError("field_unlocatable", "field has neither a source column nor a header pattern", sheetName, f.Name)
		}

		if !withTargets {
			continue
		}

		if f.Transform != "" && !registry.Has(f.Transform) {
			res.AddError("unknown_transform",
				fmt.Sprintf("unknown transform %q (known: %s)", f.Transform, strings.Join(registry.Names(), ", ")),
				sheetName, f.Name)
		}

		if f.Target.IsEmpty() {
			res.AddWarning("no_target", "field is read but never copied", sheetName, f.Name)
		}

		for _, letters := range f.Target {
			if _, err := sheet.ColumnNumber(letters); err != nil {
				res.AddError("invalid_target_column", fmt.Sprintf("invalid target column %q", letters), sheetName, f.Name)
				continue
			}

			col := strings.ToUpper(letters)
			if other, taken := targets[col]; taken {
				res.AddError("target_collision",
					fmt.Sprintf("target column %s is also written by %q", col, other), sheetName, f.Name)

				continue
			}

			targets[col] = f.Name
		}
	}

	for _, name := range required {
		if _, ok := seen[name]; !ok {
			res.AddError("field_missing", fmt.Sprintf("required field %q is not mapped", name), sheetName, name)
		}
	}
}

func validateKey(res *diagnostic.Diagnostics, s SheetSpec, fields []FieldMapping) {
	if !slices.ContainsFunc(fields, func(f FieldMapping) bool { return f.Name == s.Key }) {
		res.AddError("key_missing", fmt.Sprintf("key field %q is not mapped", s.Key), s.Sheet, s.Key)
	}
}

func validateAugment(res *diagnostic.Diagnostics, mf *MappingFile) {
	for _, a := range mf.Augment {
		for _, letters := range []string{a.Column, a.Subtract} {
			if _, err := sheet.ColumnNumber(letters); err != nil {
				res.AddError("invalid_augment_column",
					fmt.Sprintf("invalid augment column %q", letters), mf.Target.Sheet, "")
			}
		}
	}
}

func validateCells(res *diagnostic.Diagnostics, mf *MappingFile) {
	check := func(sheetName, role, cell string) {
		if cell == "" {
			return
		}

		if _, err := sheet.ParseRef(cell); err != nil {
			res.AddError("invalid_cell", fmt.Sprintf("invalid %s cell %q", role, cell), sheetName, "")
		}
	}

	for _, cell := range slices.Sorted(maps.Keys(mf.Labels)) {
		check(mf.Target.Sheet, "label", cell)
	}

	check(mf.Settings.Sheet, "start", mf.Settings.Start)
	check(mf.Settings.Sheet, "end", mf.Settings.End)
	check(mf.Settings.Sheet, "retirement age", mf.Settings.RetirementAge)
	check("", "reference date", mf.ReferenceDate.Cell)
	check(mf.Target.Sheet, "reference date target", mf.ReferenceDate.Target)
}
