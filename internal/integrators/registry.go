package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/astropc/internal/dynamo"
)

var constructors = map[string]func() dynamo.Integrator{
	"midpoint": func() dynamo.Integrator { return NewMidpoint() },
	"cauchy":   func() dynamo.Integrator { return NewMidpoint() },
	"heun":     func() dynamo.Integrator { return NewHeun() },
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
}

// ByName returns a fresh integrator. RK4 carries scratch buffers, so
// every run gets its own instance.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
