package services

import (
	"context"
	"errors"
	"testing"

	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/credential"
)

func newRegistrationFixture(allowedPhones ...string) (*RegistrationService, *mockStudentRepo, *mockAuditSink) {
	students := newMockStudentRepo()
	allowlist := newMockAllowlistRepo(allowedPhones...)
	audit := &mockAuditSink{}
	return NewRegistrationService(students, allowlist, audit), students, audit
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:    "Asha Rao",
		Email:   "Asha@Example.com",
		Phone:   "+91 98765-43210",
		Program: "btech",
		Year:    2,
		Gender:  "female",
		Section: "a",
	}
}

func TestRegisterAllowlistedPhone(t *testing.T) {
	svc, students, audit := newRegistrationFixture("919876543210")

	res, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !credential.Valid(res.EventID) {
		t.Errorf("event id %q is not a valid credential", res.EventID)
	}
	if res.Student.EventID != res.EventID {
		t.Errorf("student carries event id %q, result says %q", res.Student.EventID, res.EventID)
	}

	// Input normalization: phone stripped to digits, enums uppercased.
	stored, err := students.GetByEventID(context.Background(), res.EventID)
	if err != nil {
		t.Fatalf("lookup created student: %v", err)
	}
	if stored.Phone != "919876543210" {
		t.Errorf("stored phone = %q, want digits only", stored.Phone)
	}
	if stored.Program != "BTECH" || stored.Gender != "FEMALE" || stored.Section != "A" {
		t.Errorf("enums not normalized: %q %q %q", stored.Program, stored.Gender, stored.Section)
	}
	if stored.Email != "asha@example.com" {
		t.Errorf("email not lowercased: %q", stored.Email)
	}

	got := audit.actions()
	if len(got) != 1 || got[0] != domain.AuditRegister {
		t.Errorf("audit actions = %v, want [%s]", got, domain.AuditRegister)
	}
}

func TestRegisterPhoneNotOnRoster(t *testing.T) {
	svc, students, _ := newRegistrationFixture() // empty roster

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}

	if _, total, _ := students.List(context.Background(), "", 0, 10); total != 0 {
		t.Errorf("no student should be created, found %d", total)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _, _ := newRegistrationFixture("919876543210")

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	second := validRegisterInput()
	second.Email = "other@example.com"
	_, err := svc.Register(context.Background(), second)
	if !errors.Is(err, ErrPhoneAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrPhoneAlreadyRegistered", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newRegistrationFixture("919876543210", "918888888888")

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	second := validRegisterInput()
	second.Phone = "918888888888"
	_, err := svc.Register(context.Background(), second)
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newRegistrationFixture("919876543210")

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }, "name"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"unknown program", func(in *RegisterInput) { in.Program = "BARCH" }, "program"},
		{"year beyond program", func(in *RegisterInput) { in.Program = "MTECH"; in.Year = 4 }, "year"},
		{"bad gender", func(in *RegisterInput) { in.Gender = "X" }, "gender"},
		{"bad section", func(in *RegisterInput) { in.Section = "Z" }, "section"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)

			_, err := svc.Register(context.Background(), input)
			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("err = %v, want *domain.ValidationError", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}
