package deck

// PageSize is the number of buttons shown at once.
const PageSize = 6

// PageCount is never less than one so an empty grid still has a page to show.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Pager tracks the current page over a list whose length it is told about.
type Pager struct {
	Page int
	Size int
}

func NewPager() Pager {
	return Pager{Size: PageSize}
}

func (p *Pager) size() int {
	if p.Size <= 0 {
		return PageSize
	}
	return p.Size
}

// Start is the index of the first button on the current page.
func (p *Pager) Start() int {
	return p.Page * p.size()
}

func (p *Pager) Count(total int) int {
	return PageCount(total, p.size())
}

// Next reports whether the page changed.
func (p *Pager) Next(total int) bool {
	if (p.Page+1)*p.size() < total {
		p.Page++
		return true
	}
	return false
}

func (p *Pager) Prev() bool {
	if p.Page > 0 {
		p.Page--
		return true
	}
	return false
}

// Last moves to the page holding the final button.
func (p *Pager) Last(total int) {
	if total <= 0 {
		p.Page = 0
		return
	}
	p.Page = (total - 1) / p.size()
}

// Clamp pulls the page back into range after the list shrank.
func (p *Pager) Clamp(total int) {
	maxPage := 0
	if total > 0 {
		maxPage = (total - 1) / p.size()
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.Page < 0 {
		p.Page = 0
	}
}

// Visible returns the buttons on the current page.
func (p *Pager) Visible(list *ButtonList) []Button {
	return list.Slice(p.Start(), p.size())
}
