package entities

import "testing"

func TestNewVocabulary(t *testing.T) {
	v := NewVocabulary([]string{"nausea", "rash", "nausea", "fatigue"})

	if v.Size() != 3 {
		t.Errorf("Size = %d, want 3 (duplicates collapse)", v.Size())
	}

	// Slot order follows first appearance
	want := []string{"nausea", "rash", "fatigue"}
	for i, term := range v.Terms() {
		if term != want[i] {
			t.Errorf("Terms()[%d] = %s, want %s", i, term, want[i])
		}
	}

	if v.IndexOf("rash") != 1 {
		t.Errorf("IndexOf(rash) = %d, want 1", v.IndexOf("rash"))
	}
	if v.IndexOf("tinnitus") != -1 {
		t.Errorf("IndexOf(tinnitus) = %d, want -1", v.IndexOf("tinnitus"))
	}
}

func TestVocabularyFingerprint(t *testing.T) {
	a := NewVocabulary([]string{"nausea", "rash"})
	b := NewVocabulary([]string{"nausea", "rash"})
	reordered := NewVocabulary([]string{"rash", "nausea"})

	if a.Fingerprint() == "" {
		t.Fatal("Fingerprint must not be empty")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Identical orderings must share a fingerprint")
	}

	// A reordered vocabulary is a different artifact: feature slots move
	if a.Fingerprint() == reordered.Fingerprint() {
		t.Error("Reordered vocabulary must change the fingerprint")
	}

	empty := NewVocabulary(nil)
	if empty.Fingerprint() == a.Fingerprint() {
		t.Error("Empty vocabulary must not collide with a populated one")
	}
}
