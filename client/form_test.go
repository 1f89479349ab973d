package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/api"
)

func TestValidateFieldsReportsEachProblem(t *testing.T) {
	fields := []fieldDef{
		{key: "name", label: "Name", required: true},
		{key: "price", label: "Price", kind: fieldNumber, required: true},
		{key: "stock", label: "Stock", kind: fieldNumber, allowUnlimited: true},
	}

	problems := validateFields(fields, map[string]string{"stock": "-1"})
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
	joined := strings.Join(problems, "; ")
	if !strings.Contains(joined, "Name is required") || !strings.Contains(joined, "Price is required") {
		t.Fatalf("problems must name the exact fields, got %q", joined)
	}

	problems = validateFields(fields, map[string]string{"name": "x", "price": "abc"})
	if len(problems) != 1 || !strings.Contains(problems[0], "Price must be a number") {
		t.Fatalf("expected number complaint, got %v", problems)
	}
}

func TestValidateFieldsSentinels(t *testing.T) {
	fields := []fieldDef{
		{key: "stock", label: "Stock", kind: fieldNumber, allowUnlimited: true},
		{key: "price", label: "Price", kind: fieldNumber},
		{key: "delta", label: "Delta", kind: fieldNumber, allowNegative: true},
	}

	if p := validateFields(fields, map[string]string{"stock": "-1"}); len(p) != 0 {
		t.Fatalf("-1 must be accepted where unlimited is allowed: %v", p)
	}
	if p := validateFields(fields, map[string]string{"stock": "unlimited"}); len(p) != 0 {
		t.Fatalf("the word unlimited must be accepted: %v", p)
	}
	if p := validateFields(fields, map[string]string{"price": "-1"}); len(p) == 0 {
		t.Fatalf("-1 must be rejected where unlimited is not allowed")
	}
	if p := validateFields(fields, map[string]string{"delta": "-50"}); len(p) != 0 {
		t.Fatalf("signed fields must accept negatives: %v", p)
	}
}

func TestSubmitBlockedOnValidationFailure(t *testing.T) {
	saves := 0
	desc := &entityDesc{
		name: "widget",
		tab:  tabShop,
		fields: []fieldDef{
			{key: "name", label: "Name", required: true},
			{key: "price", label: "Price", kind: fieldNumber, required: true},
		},
		save: func(*api.Client, snowflake.ID, int64, map[string]string) error {
			saves++
			return fmt.Errorf("should not be reached")
		},
	}

	f := newEntityForm(desc, 0, nil)
	cmd := f.submit(nil, snowflake.ID(1))
	if cmd != nil {
		t.Fatalf("submit produced a command despite invalid input")
	}
	if saves != 0 {
		t.Fatalf("save was called %d times on invalid input", saves)
	}
	if !strings.Contains(f.errText, "Name is required") || !strings.Contains(f.errText, "Price is required") {
		t.Fatalf("inline error must name the missing fields, got %q", f.errText)
	}
}

func TestFormPrefillAndHiddenID(t *testing.T) {
	desc := &entityDesc{
		name:   "widget",
		tab:    tabShop,
		fields: []fieldDef{{key: "name", label: "Name", required: true}},
	}
	f := newEntityForm(desc, 42, map[string]string{"name": "Booster"})
	if f.id != 42 {
		t.Fatalf("hidden id not set")
	}
	if got := f.values()["name"]; got != "Booster" {
		t.Fatalf("prefill lost, got %q", got)
	}

	f = newEntityForm(desc, 0, nil)
	if f.id != 0 || f.values()["name"] != "" {
		t.Fatalf("create form must start blank")
	}
}

func TestParseDaysField(t *testing.T) {
	days, err := parseDaysField("1, 2,5")
	if err != nil || len(days) != 3 || days[2] != 5 {
		t.Fatalf("got %v %v", days, err)
	}
	if _, err := parseDaysField("7"); err == nil {
		t.Fatalf("weekday 7 must be rejected")
	}
	if _, err := parseDaysField("mon"); err == nil {
		t.Fatalf("non-numeric weekday must be rejected")
	}
}
