package proc

// Environment is an ordered mapping of variable names to values. A nil
// Environment on a Builder means the child inherits the parent's environment
// unmodified; an empty Environment means the child starts with no variables.
type Environment struct {
	pairs []envPair
}

type envPair struct {
	name  string
	value string
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{}
}

// Set inserts or overwrites a variable. Insertion order is preserved;
// overwriting an existing name keeps its original position.
func (e *Environment) Set(name, value string) {
	for i := range e.pairs {
		if e.pairs[i].name == name {
			e.pairs[i].value = value
			return
		}
	}
	e.pairs = append(e.pairs, envPair{name: name, value: value})
}

// Len returns the number of variables.
func (e *Environment) Len() int {
	return len(e.pairs)
}

// Strings renders the environment as NAME=VALUE entries in insertion order,
// the array form consumed by array-style exec calls. The exec layer appends
// the terminating null entry itself.
func (e *Environment) Strings() []string {
	entries := make([]string, 0, len(e.pairs))
	for _, p := range e.pairs {
		entries = append(entries, p.name+"="+p.value)
	}
	return entries
}

// Block renders the environment as contiguous NUL-terminated NAME=VALUE
// segments closed by a second NUL, the block form consumed by single-call
// process creation. Both renderings derive from the same underlying pairs.
func (e *Environment) Block() []byte {
	if len(e.pairs) == 0 {
		return []byte{0, 0}
	}
	var block []byte
	for _, p := range e.pairs {
		block = append(block, p.name...)
		block = append(block, '=')
		block = append(block, p.value...)
		block = append(block, 0)
	}
	return append(block, 0)
}
