package template

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFieldHasKeyword(t *testing.T) {
	f := Field{Name: "InvoiceNumber", Keyword: "Invoice Number"}
	if !f.HasKeyword() {
		t.Error("Expected field with keyword to report HasKeyword")
	}

	f.Keyword = ""
	if f.HasKeyword() {
		t.Error("Expected field without keyword to report !HasKeyword")
	}
}

func TestFieldHasSpatialHint(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		y    float64
		want bool
	}{
		{"both positive", 100, 200, true},
		{"zero x", 0, 200, false},
		{"zero y", 100, 0, false},
		{"both zero", 0, 0, false},
		{"negative x", -1, 200, false},
		{"negative y", 100, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Field{X: tt.x, Y: tt.y}
			if got := f.HasSpatialHint(); got != tt.want {
				t.Errorf("HasSpatialHint() with (%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestTemplateKeywords(t *testing.T) {
	tpl := Template{
		Name: "Acme Invoice",
		Fields: NewFieldMap(
			Field{Name: "InvoiceNumber", Keyword: "Invoice Number"},
			Field{Name: "Vendor", Keyword: ""},
			Field{Name: "Amount", Keyword: "Total"},
		),
	}

	want := []string{"Invoice Number", "Total"}
	if got := tpl.Keywords(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestTemplateKeywordsEmpty(t *testing.T) {
	tpl := Template{
		Name:   "Bare",
		Fields: NewFieldMap(Field{Name: "Vendor"}),
	}
	if got := tpl.Keywords(); len(got) != 0 {
		t.Errorf("Expected no keywords, got %v", got)
	}
}

func TestFieldMapPreservesInsertionOrder(t *testing.T) {
	fm := NewFieldMap(
		Field{Name: "Zebra", Keyword: "z"},
		Field{Name: "Apple", Keyword: "a"},
		Field{Name: "Mango", Keyword: "m"},
	)

	want := []string{"Zebra", "Apple", "Mango"}
	if got := fm.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestFieldMapSetReplaceKeepsPosition(t *testing.T) {
	fm := NewFieldMap(
		Field{Name: "First", Keyword: "1"},
		Field{Name: "Second", Keyword: "2"},
	)
	fm.Set("First", Field{Name: "First", Keyword: "updated"})

	want := []string{"First", "Second"}
	if got := fm.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after replace = %v, want %v", got, want)
	}

	f, ok := fm.Get("First")
	if !ok || f.Keyword != "updated" {
		t.Errorf("Get(First) = %+v, %v; want updated keyword", f, ok)
	}
}

func TestFieldMapDelete(t *testing.T) {
	fm := NewFieldMap(
		Field{Name: "A", Keyword: "a"},
		Field{Name: "B", Keyword: "b"},
		Field{Name: "C", Keyword: "c"},
	)
	fm.Delete("B")

	if fm.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fm.Len())
	}
	want := []string{"A", "C"}
	if got := fm.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after delete = %v, want %v", got, want)
	}
	if _, ok := fm.Get("B"); ok {
		t.Error("Expected deleted key to be absent")
	}

	// Deleting an absent key is a no-op
	fm.Delete("missing")
	if fm.Len() != 2 {
		t.Errorf("Len() after deleting missing key = %d, want 2", fm.Len())
	}
}

func TestTemplateJSONRoundTrip(t *testing.T) {
	original := Template{
		Name: "Acme Invoice",
		Fields: NewFieldMap(
			Field{Name: "InvoiceNumber", Keyword: "Invoice Number", X: 0, Y: 0},
			Field{Name: "InvoiceDate", Keyword: "Date"},
			Field{Name: "Amount", Keyword: "Total", X: 400, Y: 120},
		),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Template
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Name != original.Name {
		t.Errorf("Name = %q, want %q", decoded.Name, original.Name)
	}
	if !reflect.DeepEqual(decoded.Fields.Keys(), original.Fields.Keys()) {
		t.Errorf("Field order not preserved: got %v, want %v",
			decoded.Fields.Keys(), original.Fields.Keys())
	}
	if !reflect.DeepEqual(decoded.Fields.Values(), original.Fields.Values()) {
		t.Errorf("Field values changed: got %+v, want %+v",
			decoded.Fields.Values(), original.Fields.Values())
	}
}

func TestTemplateUnmarshalLegacyFormat(t *testing.T) {
	// Hand-authored template files key each field by its name
	raw := `{
		"TemplateName": "Utility Bill",
		"Fields": {
			"InvoiceNumber": {"FieldName": "InvoiceNumber", "Keyword": "Bill No", "XCoordinate": 0, "YCoordinate": 0},
			"Amount": {"FieldName": "Amount", "Keyword": "Amount Due", "XCoordinate": 320.5, "YCoordinate": 90.25}
		}
	}`

	var tpl Template
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if tpl.Name != "Utility Bill" {
		t.Errorf("Name = %q, want 'Utility Bill'", tpl.Name)
	}
	if got := tpl.Fields.Keys(); !reflect.DeepEqual(got, []string{"InvoiceNumber", "Amount"}) {
		t.Errorf("Keys() = %v, want document order", got)
	}

	amount, ok := tpl.Fields.Get("Amount")
	if !ok {
		t.Fatal("Expected Amount field to be present")
	}
	if amount.Keyword != "Amount Due" || amount.X != 320.5 || amount.Y != 90.25 {
		t.Errorf("Amount field = %+v", amount)
	}
}

func TestFieldMapUnmarshalRejectsNonObject(t *testing.T) {
	var fm FieldMap
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &fm); err == nil {
		t.Error("Expected error unmarshaling a JSON array into a FieldMap")
	}
}
