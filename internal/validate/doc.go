// Package validate runs the census rule battery and returns findings.
//
// Rules, each independent of the others:
//
//	LiteralFalse       boolean FALSE or "false" text anywhere in the intake workbook
//	BirthYear          normalized birth year outside [1900, 2100]
//	RetireeEstimate    employee past retirement age without a next-year estimate
//	InterimSettlement  settlement inside the evaluation window without an amount
//	SalaryDeviation    current-year estimate deviating from base salary by the threshold or more
//	CategoryEstimate   officer or contract employee without a next-year estimate
//	DepartedRoster     departed employee without severance or departure date
//
// Validate is a pure function of its input. A rule that panics for one record
// skips only that rule and record.
package validate
