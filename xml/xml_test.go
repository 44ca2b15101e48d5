package xml

import (
	"testing"

	"github.com/zoobzio/cloak/qs"
)

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/xml")
	}
}

func TestMarshalUnmarshal_Struct(t *testing.T) {
	c := New()

	type Query struct {
		Name  string `xml:"name"`
		Value int    `xml:"value"`
	}

	original := Query{Name: "test", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored Query
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshal_Map(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "scalars sorted",
			input: qs.Map{"b": 2, "a": "x&y"},
			want:  "<payload><a>x&amp;y</a><b>2</b></payload>",
		},
		{
			name:  "sequence repeats element",
			input: map[string]any{"ids": []string{"1", "2"}},
			want:  "<payload><ids>1</ids><ids>2</ids></payload>",
		},
		{
			name:  "nested map",
			input: qs.Map{"user": map[string]string{"name": "Alice"}},
			want:  "<payload><user><name>Alice</name></user></payload>",
		},
		{
			name:  "nil value",
			input: qs.Map{"a": nil},
			want:  "<payload><a></a></payload>",
		},
		{
			name:  "pointer to map",
			input: &map[string]string{"k": "v"},
			want:  "<payload><k>v</k></payload>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Marshal(tt.input)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestMarshal_MapRoundTrip(t *testing.T) {
	c := New()

	data, err := c.Marshal(qs.Map{"mobile": "13800000000", "tags": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored struct {
		Mobile string   `xml:"mobile"`
		Tags   []string `xml:"tags"`
	}
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Mobile != "13800000000" || len(restored.Tags) != 2 || restored.Tags[1] != "b" {
		t.Errorf("round-trip failed: got %+v", restored)
	}
}

func TestMarshalNil(t *testing.T) {
	data, err := New().Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Marshal(nil) = %q, want empty", data)
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	c := New()

	inputs := []string{
		"<root><name>test</root>",
		"<root></wrong>",
		"",
	}
	for _, in := range inputs {
		var v struct {
			Name string `xml:"name"`
		}
		if err := c.Unmarshal([]byte(in), &v); err == nil {
			t.Errorf("Unmarshal(%q) should return error", in)
		}
	}
}
