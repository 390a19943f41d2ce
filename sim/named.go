package sim

// Named describes an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// MakeNamedBase creates a new NamedBase
func MakeNamedBase(name string) NamedBase {
	if name == "" {
		panic("name cannot be empty")
	}

	return NamedBase{name: name}
}

// Name returns the name of the object.
func (b NamedBase) Name() string {
	return b.name
}
