package action

// Queue is an ordered outbound mailbox. It is owned by a single goroutine.
type Queue struct {
	items []Action
}

func (q *Queue) Push(a ...Action) {
	q.items = append(q.items, a...)
}

// Drain returns every queued action in emission order and empties the
// queue.
func (q *Queue) Drain() []Action {
	items := q.items
	q.items = nil
	return items
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Notify queues a notification.
func (q *Queue) Notify(level Level, text string) {
	q.Push(Notification{Level: level, Text: text})
}

// Song queues a transport command.
func (q *Queue) Song(op SongOp, value float64) {
	q.Push(Song{Op: op, Value: value})
}
