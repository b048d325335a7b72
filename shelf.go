package tilepack

// shelfPacker implements shelf-based rectangle packing for one page.
//
// Rectangles are laid out in horizontal shelves. Each shelf's height is set
// by the tallest item placed on it; items go left-to-right until the shelf
// runs out of width, then a new shelf opens below. The last shelf may grow
// taller while space remains beneath it. No rotation, no padding, no
// trimming: a placed rect exactly bounds the item.
type shelfPacker struct {
	width, height int
	shelves       []shelf
}

// shelf is one horizontal strip of the page.
type shelf struct {
	y      int // top edge of the shelf
	height int // tallest item placed so far
	x      int // next free x position
}

func newShelfPacker(width, height int) *shelfPacker {
	return &shelfPacker{width: width, height: height}
}

// place finds space for a w x h rectangle and claims it.
// Returns the top-left corner and true, or -1, -1, false when no space remains.
func (p *shelfPacker) place(w, h int) (x, y int, ok bool) {
	if w > p.width || h > p.height {
		return -1, -1, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+w > p.width {
			continue
		}
		if h > s.height {
			// Taller than the shelf. Only the last shelf can grow downward;
			// earlier shelves are capped by the shelf below them.
			if i == len(p.shelves)-1 && s.y+h <= p.height {
				s.height = h
				x, y = s.x, s.y
				s.x += w
				return x, y, true
			}
			continue
		}
		x, y = s.x, s.y
		s.x += w
		return x, y, true
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height
	}
	if newY+h > p.height {
		return -1, -1, false
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: w})
	return 0, newY, true
}

// canFit reports whether a w x h rectangle could be placed without claiming
// space. Mirrors the decision logic of place.
func (p *shelfPacker) canFit(w, h int) bool {
	if w > p.width || h > p.height {
		return false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+w > p.width {
			continue
		}
		if h <= s.height {
			return true
		}
		if i == len(p.shelves)-1 && s.y+h <= p.height {
			return true
		}
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height
	}
	return newY+h <= p.height
}
