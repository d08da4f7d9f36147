package store

import "taskPlanner/internal/models/task"

// collection - упорядоченный кэш задач пользователя: порядок вставки + индекс по id.
// Не потокобезопасна, защищается мьютексом TaskStore.
type collection struct {
	byID map[int64]int
	list []task.Task
}

func newCollection() *collection {
	return &collection{byID: make(map[int64]int)}
}

// replace: полная замена после успешного fetch
func (c *collection) replace(tasks []task.Task) {
	c.list = make([]task.Task, 0, len(tasks))
	c.byID = make(map[int64]int, len(tasks))
	for _, t := range tasks {
		c.byID[t.ID] = len(c.list)
		c.list = append(c.list, t.Clone())
	}
}

func (c *collection) add(t task.Task) {
	c.byID[t.ID] = len(c.list)
	c.list = append(c.list, t.Clone())
}

// update заменяет задачу на месте; false, если такой задачи в кэше нет
func (c *collection) update(t task.Task) bool {
	ind, ok := c.byID[t.ID]
	if !ok {
		return false
	}
	c.list[ind] = t.Clone()
	return true
}

func (c *collection) setCompleted(id int64, completed bool) bool {
	ind, ok := c.byID[id]
	if !ok {
		return false
	}
	c.list[ind].Completed = completed
	return true
}

func (c *collection) remove(id int64) bool {
	ind, ok := c.byID[id]
	if !ok {
		return false
	}
	c.list = append(c.list[:ind], c.list[ind+1:]...)
	delete(c.byID, id)
	for i := ind; i < len(c.list); i++ {
		c.byID[c.list[i].ID] = i
	}
	return true
}

func (c *collection) clear() {
	c.list = nil
	c.byID = make(map[int64]int)
}

func (c *collection) len() int {
	return len(c.list)
}

func (c *collection) snapshot() []task.Task {
	out := make([]task.Task, len(c.list))
	for i, t := range c.list {
		out[i] = t.Clone()
	}
	return out
}
