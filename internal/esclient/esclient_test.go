package esclient

import "testing"

func TestDecodeIndexedDocument(t *testing.T) {
	doc, err := decodeIndexedDocument([]byte(`{"meta":{"id":"x","rev":"1-a"},"doc":{"n":1}}`))
	if err != nil {
		t.Fatalf("decodeIndexedDocument: %v", err)
	}
	if doc.Meta.ID != "x" || doc.Meta.Rev != "1-a" {
		t.Fatalf("unexpected meta: %+v", doc.Meta)
	}
	if doc.Doc["n"] != 1.0 {
		t.Fatalf("unexpected doc: %+v", doc.Doc)
	}
}

func TestDecodeIndexedDocumentInvalidJSON(t *testing.T) {
	if _, err := decodeIndexedDocument([]byte(`not json`)); err == nil {
		t.Fatal("expected an error for invalid json")
	}
}
