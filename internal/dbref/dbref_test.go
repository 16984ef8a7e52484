package dbref

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		db        string
		wantIndex string
		wantUUID  string
	}{
		{"bare name", "mybucket", "mybucket", ""},
		{"name with uuid", "mybucket;abc123", "mybucket", "abc123"},
		{"name with routing suffix", "mybucket/master", "mybucket", ""},
		{"name with suffix and uuid", "mybucket/master;abc123", "mybucket", "abc123"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Parse(tt.db)
			if ref.Index != tt.wantIndex {
				t.Errorf("Index = %q, want %q", ref.Index, tt.wantIndex)
			}
			if ref.UUID != tt.wantUUID {
				t.Errorf("UUID = %q, want %q", ref.UUID, tt.wantUUID)
			}
		})
	}
}

func TestRefString(t *testing.T) {
	if got := (Ref{Index: "a"}).String(); got != "a" {
		t.Errorf("String() = %q, want %q", got, "a")
	}
	if got := (Ref{Index: "a", UUID: "u"}).String(); got != "a;u" {
		t.Errorf("String() = %q, want %q", got, "a;u")
	}
}
