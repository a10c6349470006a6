package notebook

import (
	"encoding/json"
	"testing"
)

func TestDocument_DecodeStringSource(t *testing.T) {
	raw := `{"cells":[{"cell_type":"code","source":"a=1\nprint(a)"}]}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(doc.Cells) != 1 {
		t.Fatalf("Expected 1 cell, got %d", len(doc.Cells))
	}
	if doc.Cells[0].Type != Code {
		t.Errorf("Expected code cell, got %s", doc.Cells[0].Type)
	}
	if string(doc.Cells[0].Source) != "a=1\nprint(a)" {
		t.Errorf("Unexpected source: %q", doc.Cells[0].Source)
	}
}

func TestDocument_DecodeLineArraySource(t *testing.T) {
	raw := `{"cells":[{"cell_type":"markdown","source":["# Title\n","text"]}]}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if string(doc.Cells[0].Source) != "# Title\ntext" {
		t.Errorf("Expected joined lines, got %q", doc.Cells[0].Source)
	}
}

func TestDocument_DecodeAttachments(t *testing.T) {
	raw := `{"cells":[{"cell_type":"markdown","source":"![img](attachment:a.png)",` +
		`"attachments":{"a.png":{"image/png":"ZGF0YQ=="}}}]}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Cells[0].Attachments == nil {
		t.Fatal("Expected attachments to decode")
	}
	if _, ok := doc.Cells[0].Attachments["a.png"]; !ok {
		t.Error("Expected a.png attachment key")
	}
}
