// Package mapping provides the YAML schema, parsing, validation and the
// transform registry for the census field mapping.
//
// The mapping file pins the fixed layout contract between the intake roster
// and the working roster. A built-in default is embedded; a file on disk can
// override it.
//
// # Schema Overview
//
//	version: "1"
//	source:
//	  sheet: "(2-2) 재직자 명부"
//	  header_row: 1
//	  first_row: 2
//	  key: employeeId
//	target:
//	  sheet: 재직자명부
//	  first_row: 2
//	fields:
//	  - name: employeeId
//	    source: B
//	    target: [A, B]          # 1:many
//	    header: {all: [사원번호]}
//	  - name: baseSalary
//	    source: F
//	    target: F
//	    header: {all: [기준급여], none: [차]}
//	  - name: interimSettlementDate
//	    source: J
//	    target: J
//	    transform: date
//	    header:                 # alternatives
//	      - {all: [중간정산기준일]}
//	      - {all: [중간정산, 일]}
//	augment:
//	  - column: S
//	    subtract: AA
//	labels:
//	  X1: 휴직기간 차감
//
// # Header Resolution
//
// Source columns are located by header text first. Fields are resolved in
// declaration order; each binds the first unbound column whose header
// matches. A field whose header is not found falls back to its fixed
// source column.
//
// # Transform Registry
//
// Transforms are referenced by name in field mappings:
//
//   - passthrough: copy the resolved value when not empty
//   - date: normalize to a day count, write YYYYMMDD text
//   - birth_date: date plus the birth-year correction
//   - dual: computed value, else formula text, else literal value
//   - year_fraction: days / 365.25, 0 when absent
package mapping
