package dedup

import "testing"

func TestStrongKeysPersistAcrossPages(t *testing.T) {
	tr := New()

	if tr.Seen("https://example.ca/p/1", false) {
		t.Fatal("fresh tracker should not have seen anything")
	}
	tr.Mark("https://example.ca/p/1", false)
	tr.NextPage()

	if !tr.Seen("https://example.ca/p/1", false) {
		t.Error("strong key should survive a page boundary")
	}
	if tr.Len() != 1 {
		t.Errorf("Len = %d; want 1", tr.Len())
	}
}

func TestWeakKeysAreScopedToOnePage(t *testing.T) {
	tr := New()

	tr.Mark("title|12,99|img.jpg", true)
	if !tr.Seen("title|12,99|img.jpg", true) {
		t.Error("weak key should be seen within the same page")
	}

	tr.NextPage()
	if tr.Seen("title|12,99|img.jpg", true) {
		t.Error("weak key should not leak past a page boundary")
	}
}

func TestWeakAndStrongKeysDoNotCollide(t *testing.T) {
	tr := New()
	tr.Mark("k", true)
	if tr.Seen("k", false) {
		t.Error("weak mark must not register as a strong key")
	}
}
