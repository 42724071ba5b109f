package model

import (
	"errors"
	"testing"
	"time"
)

func validCreateInput() CreateListInput {
	return CreateListInput{
		Location:  "Community hall",
		EventDate: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		Items: []ItemInput{
			{Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
		},
	}
}

func TestCreateListInputValid(t *testing.T) {
	eventDate, err := validCreateInput().Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if eventDate.IsZero() {
		t.Error("expected parsed event date")
	}
}

func TestCreateListInputCollectsAllErrors(t *testing.T) {
	in := CreateListInput{
		Location:  "ab",
		EventDate: "not-a-date",
		Items: []ItemInput{
			{Name: "", Unit: "", PerPortion: 0, TotalQuantity: -1},
		},
	}

	_, err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// location, event_date, and all four item fields.
	if len(ve.Fields) != 6 {
		t.Errorf("expected 6 field errors, got %d: %v", len(ve.Fields), ve.Fields)
	}
}

func TestCreateListInputRequiresItems(t *testing.T) {
	in := validCreateInput()
	in.Items = nil

	_, err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "items" {
		t.Errorf("expected single 'items' error, got %v", ve.Fields)
	}
}

func TestUpdateListInputMode(t *testing.T) {
	in := UpdateListInput{
		Mode: "merge",
		Items: []ItemInput{
			{Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
		},
	}

	_, err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "mode" {
		t.Errorf("expected single 'mode' error, got %v", ve.Fields)
	}

	in.Mode = ModeReset
	if _, err := in.Validate(); err != nil {
		t.Errorf("reset mode should validate, got %v", err)
	}
}

func TestUpdateListInputDuplicateItemID(t *testing.T) {
	in := UpdateListInput{
		Mode: ModeContinue,
		Items: []ItemInput{
			{ID: "i1", Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
			{ID: "i1", Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
			{Name: "Juice", Unit: "l", PerPortion: 1, TotalQuantity: 4},
		},
	}

	_, err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "items[1].id" {
		t.Errorf("expected single 'items[1].id' error, got %v", ve.Fields)
	}

	// Items without IDs are new item-kinds and may repeat.
	in.Items = []ItemInput{
		{Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
		{Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
	}
	if _, err := in.Validate(); err != nil {
		t.Errorf("ID-less duplicates should validate, got %v", err)
	}
}

func TestUpdateListInputOptionalDate(t *testing.T) {
	in := UpdateListInput{
		Mode: ModeContinue,
		Items: []ItemInput{
			{Name: "Rice", Unit: "kg", PerPortion: 2, TotalQuantity: 10},
		},
	}

	eventDate, err := in.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !eventDate.IsZero() {
		t.Error("expected zero date when event_date is omitted")
	}
}

func TestValidCPF(t *testing.T) {
	valid := []string{"12345678901", "00000000000"}
	for _, cpf := range valid {
		if !ValidCPF(cpf) {
			t.Errorf("ValidCPF(%q) = false, want true", cpf)
		}
	}

	invalid := []string{"", "1234567890", "123456789012", "123.456.789", "1234567890a"}
	for _, cpf := range invalid {
		if ValidCPF(cpf) {
			t.Errorf("ValidCPF(%q) = true, want false", cpf)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a@b"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}

	invalid := []string{"", "@example.com", "ana@", "ana example@x.com", "noat"}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}
