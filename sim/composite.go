package sim

// A CompositeGenerator merges several generators into one stream, always
// producing the earliest pending event among its children. When two
// children tie, the one added first wins.
//
// Generate asks every child for its next time and delegates to the
// earliest. Stochastic children re-draw during that delegation, so the
// delegated event may not fire at the exact instant the scan saw; the
// merged stream is still a well-formed event stream. The scan is linear in
// the number of children, which is assumed tiny next to the event volume.
type CompositeGenerator struct {
	id       string
	children []Generator
}

// NewCompositeGenerator creates a composite over the given children.
func NewCompositeGenerator(children ...Generator) *CompositeGenerator {
	return &CompositeGenerator{
		id:       newGeneratorID("composite"),
		children: children,
	}
}

// Add appends another child generator.
func (g *CompositeGenerator) Add(child Generator) *CompositeGenerator {
	g.children = append(g.children, child)
	return g
}

// ID returns the generator identifier.
func (g *CompositeGenerator) ID() string {
	return g.id
}

// NextTime returns the earliest next time among all children.
func (g *CompositeGenerator) NextTime(now float64) (float64, bool) {
	best, ok := 0.0, false

	for _, child := range g.children {
		t, has := child.NextTime(now)
		if !has {
			continue
		}

		if !ok || t < best {
			best, ok = t, true
		}
	}

	return best, ok
}

// Generate produces the earliest pending event among all children.
func (g *CompositeGenerator) Generate(now float64) *Event {
	var selected Generator
	best := 0.0

	for _, child := range g.children {
		t, has := child.NextTime(now)
		if !has {
			continue
		}

		if selected == nil || t < best {
			selected = child
			best = t
		}
	}

	if selected == nil {
		return nil
	}

	return selected.Generate(now)
}
