/*
seed.go - One-time roster import

PURPOSE:
  On first connection, if the employees collection is empty, the fixed
  roster below is bulk-inserted exactly once. Detection is by emptiness,
  not a separate "seeded" flag; two clients connecting simultaneously
  while empty can both seed - a startup-only race we accept.

The roster mirrors a real scheduling board: named FT/PT staff with weekly
availability patterns, plus Bank pools and OPEN placeholders for vacant
positions. Bank and OPEN entries participate in scheduling, never in PTO.
*/
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SeedEmployees returns the initial roster used when the employees
// collection is empty.
func SeedEmployees() []Employee {
	return []Employee{
		{Name: "Sandoval, Marc", Type: PartTime, Availability: "Sat,Sun", Code: "EMP001", Department: "Operations", Position: "Part Time", HireDate: NewDate(2023, time.December, 1)},
		{Name: "Whitfield, Dana", Type: FullTime, Availability: "Mon,Tue,Wed,Thu,Fri", Code: "EMP002", Department: "Operations", Position: "Full Time", HireDate: NewDate(2023, time.August, 5)},
		{Name: "Okafor, Chidi", Type: PartTime, Availability: "Sat,Sun", Code: "EMP003", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.February, 20)},
		{Name: "OPEN SHIFTS (Extra)", Type: Bank, Availability: "Mon,Tue,Wed,Thu,Fri,Sat,Sun"},
		{Name: "OPEN POSITION", Type: FullTime, Availability: "Mon,Tue,Wed,Thu,Fri"},
		{Name: "OPEN SHIFTS (Coverage)", Type: Bank, Availability: "Mon,Tue,Wed,Thu,Fri,Sat,Sun"},
		{Name: "Reyes, Paloma", Type: FullTime, Availability: "Mon,Tue,Wed,Thu,Fri", Code: "EMP004", Department: "Operations", Position: "Full Time", HireDate: NewDate(2023, time.September, 1)},
		{Name: "Lindqvist, Hanna", Type: PartTime, Availability: AvailabilityVaries, Code: "EMP005", Department: "Operations", Position: "Part Time", HireDate: NewDate(2023, time.November, 10)},
		{Name: "Barrett, Simone", Type: PartTime, Availability: "Mon,Tue,Wed,Thu,Fri", Code: "EMP006", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.June, 10)},
		{Name: "Nakagawa, Rie", Type: PartTime, Availability: AvailabilityVaries, Code: "EMP007", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.March, 12)},
		{Name: "Voss, Gabriel", Type: PartTime, Availability: AvailabilityVaries, Code: "EMP008", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.July, 1)},
		{Name: "OPEN POSITION", Type: PartTime, Availability: "Sat,Sun"},
		{Name: "Calloway, Renee", Type: PartTime, Availability: "Fri,Sat", Code: "EMP009", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.January, 15)},
		{Name: "Esposito, Marco", Type: FullTime, Availability: "Mon,Tue,Wed,Thu,Fri", Code: "EMP010", Department: "Operations", Position: "Full Time", HireDate: NewDate(2023, time.July, 18)},
		{Name: "OPEN SHIFTS (Misc)", Type: Bank, Availability: "Mon,Tue,Wed,Thu,Fri,Sat,Sun"},
		{Name: "Drummond, Keisha", Type: PartTime, Availability: "Sat,Sun", Code: "EMP011", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.April, 22)},
		{Name: "Petrov, Ilya", Type: PartTime, Availability: "Sat,Sun", Code: "EMP012", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.May, 15)},
		{Name: "Marchetti, Gina", Type: PartTime, Availability: "Mon,Tue,Wed,Thu,Fri", Code: "EMP013", Department: "Operations", Position: "Part Time", HireDate: NewDate(2024, time.January, 8)},
	}
}

// EnsureSeeded bulk-inserts the seed roster iff the collection is empty.
// Returns true if a seed import happened.
func EnsureSeeded(ctx context.Context, employees EmployeeStore, log *zap.Logger) (bool, error) {
	existing, err := employees.List(ctx)
	if err != nil {
		return false, &StorageError{Op: "list", Err: err}
	}
	if len(existing) > 0 {
		return false, nil
	}

	roster := SeedEmployees()
	if err := employees.CreateBatch(ctx, roster); err != nil {
		return false, &StorageError{Op: "create", Err: err}
	}
	if log != nil {
		log.Info("seeded employee roster", zap.Int("count", len(roster)))
	}
	return true, nil
}
