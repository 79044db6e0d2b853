package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"toaster/internal/ports"
	"toaster/internal/types"
)

// visit states for the dependency walk.
const (
	depUnvisited = iota
	depInProgress
	depDone
)

// TransitiveDependencies walks the dependency edges reachable from one
// layer version and returns every dependency in depth-first order,
// excluding the root itself. The edge set may contain cycles; a cycle is
// reported as an error rather than followed.
func TransitiveDependencies(catalog ports.CatalogQueryPort, root types.LayerVersionID) ([]types.LayerVersionID, error) {
	if catalog == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency walk requires a catalog port")
	}

	state := map[types.LayerVersionID]int{}
	var order []types.LayerVersionID

	var walk func(id types.LayerVersionID) error
	walk = func(id types.LayerVersionID) error {
		switch state[id] {
		case depInProgress:
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("dependency cycle involving layer version %d", id))
		case depDone:
			return nil
		}
		state[id] = depInProgress
		deps, err := catalog.DependenciesOf(id)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			if err := walk(dep); err != nil {
				return err
			}
			if dep != root {
				appendOnce(&order, dep)
			}
		}
		state[id] = depDone
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return order, nil
}

func appendOnce(order *[]types.LayerVersionID, id types.LayerVersionID) {
	for _, existing := range *order {
		if existing == id {
			return
		}
	}
	*order = append(*order, id)
}
