package processor

import "fmt"

// Chain is an ordered list of processors in which every processor runs after the ones it
// names in After.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) (*Chain, error) {
	all := make(map[string]bool, len(processors))
	for _, p := range processors {
		if all[p.Name()] {
			return nil, fmt.Errorf("processor %s: duplicate name", p.Name())
		}

		all[p.Name()] = true
	}

	seen := make(map[string]bool, len(processors))

	for _, p := range processors {
		for _, dep := range p.After() {
			if !all[dep] {
				return nil, fmt.Errorf("processor %s: unknown dependency %s", p.Name(), dep)
			}

			if !seen[dep] {
				return nil, fmt.Errorf("processor %s: must run after %s", p.Name(), dep)
			}
		}

		seen[p.Name()] = true
	}

	return &Chain{processors: append([]Processor(nil), processors...)}, nil
}

func MustChain(processors ...Processor) *Chain {
	c, err := NewChain(processors...)
	if err != nil {
		panic(err)
	}

	return c
}

// With returns a new chain with extra appended.
func (c *Chain) With(extra ...Processor) (*Chain, error) {
	all := make([]Processor, 0, len(c.processors)+len(extra))
	all = append(all, c.processors...)
	all = append(all, extra...)

	return NewChain(all...)
}

func (c *Chain) Processors() []Processor {
	return append([]Processor(nil), c.processors...)
}

func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.processors))
	for _, p := range c.processors {
		names = append(names, p.Name())
	}

	return names
}
