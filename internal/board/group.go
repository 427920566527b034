package board

import "github.com/rohits-web03/accountabilabuddy/internal/models"

type Column struct {
	State models.TodoState
	Todos []models.Todo
}

// Grouping has one column per state, in models.States order.
type Grouping []Column

// Group buckets todos by state, keeping their relative order.
func Group(todos []models.Todo) Grouping {
	g := make(Grouping, len(models.States))
	for i, s := range models.States {
		g[i] = Column{State: s, Todos: []models.Todo{}}
	}
	for _, t := range todos {
		for i := range g {
			if g[i].State == t.State {
				g[i].Todos = append(g[i].Todos, t)
				break
			}
		}
	}
	return g
}

// Column returns the todos in state.
func (g Grouping) Column(state models.TodoState) []models.Todo {
	for _, c := range g {
		if c.State == state {
			return c.Todos
		}
	}
	return nil
}
