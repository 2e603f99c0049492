package domain

import "strings"

// Role represents a staff role in the system
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleVolunteer Role = "VOLUNTEER"
)

// Audit actions written by the scan and registration paths.
const (
	AuditHallEntry   = "HALL_ENTRY"
	AuditHallExit    = "HALL_EXIT"
	AuditHallMove    = "HALL_MOVE"
	AuditFoodAllowed = "FOOD_ALLOWED"
	AuditFoodDenied  = "FOOD_DENIED"
	AuditRegister    = "REGISTER"
	AuditBulkImport  = "BULK_IMPORT"
)

// Programs and the years valid for each. Year validity depends on the
// program's duration, so registration checks against this table rather
// than a flat range.
var ProgramYears = map[string][]int{
	"BTECH": {1, 2, 3, 4},
	"MTECH": {1, 2},
	"BSC":   {1, 2, 3},
	"MSC":   {1, 2},
	"MBA":   {1, 2},
	"PHD":   {1, 2, 3, 4, 5, 6},
}

// Genders enumerates accepted gender values.
var Genders = map[string]bool{
	"MALE":   true,
	"FEMALE": true,
	"OTHER":  true,
}

// Sections enumerates accepted section values.
var Sections = map[string]bool{
	"A": true,
	"B": true,
	"C": true,
	"D": true,
}

// ValidProgram reports whether program is a known program code.
func ValidProgram(program string) bool {
	_, ok := ProgramYears[strings.ToUpper(program)]
	return ok
}

// ValidYear reports whether year is valid for the given program.
func ValidYear(program string, year int) bool {
	years, ok := ProgramYears[strings.ToUpper(program)]
	if !ok {
		return false
	}
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}

// NormalizePhone strips everything except digits from a phone number.
// Allowlist entries and student records both store this normalized form.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
