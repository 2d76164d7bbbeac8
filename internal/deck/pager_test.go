package deck

import "testing"

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{12, 6, 2},
		{13, 6, 3},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPagerBoundaries(t *testing.T) {
	const total = 13
	p := NewPager()

	if p.Count(total) != 3 {
		t.Fatalf("expected 3 pages, got %d", p.Count(total))
	}
	if p.Prev() {
		t.Error("Prev from page 0 should be a no-op")
	}
	if p.Page != 0 {
		t.Errorf("page moved to %d", p.Page)
	}

	if !p.Next(total) || !p.Next(total) {
		t.Fatal("expected to reach page 2")
	}
	if p.Next(total) {
		t.Error("Next from the last page should be a no-op")
	}
	if p.Page != 2 {
		t.Errorf("expected page 2, got %d", p.Page)
	}
	if got := p.Visible(NewButtonList(numbered(total))); len(got) != 1 {
		t.Errorf("last page should hold 1 button, got %d", len(got))
	}
}

func TestPagerNextOnExactMultiple(t *testing.T) {
	p := NewPager()
	if p.Next(6) {
		t.Error("six buttons fit on one page")
	}
	if p.Next(0) {
		t.Error("an empty list has one page")
	}
}

func TestPagerClampAndLast(t *testing.T) {
	p := NewPager()
	p.Last(13)
	if p.Page != 2 {
		t.Fatalf("Last(13) = page %d, want 2", p.Page)
	}
	p.Clamp(12)
	if p.Page != 1 {
		t.Errorf("Clamp(12) = page %d, want 1", p.Page)
	}
	p.Clamp(0)
	if p.Page != 0 {
		t.Errorf("Clamp(0) = page %d, want 0", p.Page)
	}
	p.Last(0)
	if p.Page != 0 {
		t.Errorf("Last(0) = page %d, want 0", p.Page)
	}
}
