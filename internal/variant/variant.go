package variant

import (
	"errors"
	"fmt"
	"strings"
)

type Name string

const (
	Thumbnail Name = "thumbnail"
	Large     Name = "large"
)

var ErrUnknownVariant = errors.New("unknown variant")

// Spec describes how a source image is bounded for one variant.
// A zero Width or Height leaves that dimension unconstrained.
type Spec struct {
	Name    Name
	Width   int
	Height  int
	Quality int
}

type Policy struct {
	specs map[Name]Spec
	// smallest first
	order []Name
}

func NewPolicy(thumbnailHeight, largeWidth, quality int) *Policy {
	return &Policy{
		specs: map[Name]Spec{
			Thumbnail: {Name: Thumbnail, Height: thumbnailHeight, Quality: quality},
			Large:     {Name: Large, Width: largeWidth, Quality: quality},
		},
		order: []Name{Thumbnail, Large},
	}
}

func (p *Policy) Resolve(name string) (Spec, error) {
	spec, ok := p.specs[Name(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w %q, available sizes are %s", ErrUnknownVariant, name, p.String())
	}

	return spec, nil
}

func (p *Policy) Names() []Name {
	names := make([]Name, len(p.order))
	copy(names, p.order)

	return names
}

// Larger returns the next variant up from name, if any.
func (p *Policy) Larger(name Name) (Name, bool) {
	for i, n := range p.order {
		if n == name && i+1 < len(p.order) {
			return p.order[i+1], true
		}
	}

	return "", false
}

func (p *Policy) String() string {
	names := make([]string, 0, len(p.order))
	for _, n := range p.order {
		names = append(names, string(n))
	}

	return strings.Join(names, ", ")
}
