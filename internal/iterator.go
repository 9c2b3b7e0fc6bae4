package internal

type sliceIterator struct {
	events []*Event
	pos    int
}

// NewSliceIterator iterates over events already loaded in memory.
func NewSliceIterator(events []*Event) Iterator {
	return &sliceIterator{events: events, pos: -1}
}

func (it *sliceIterator) Next() bool {
	if it.pos+1 >= len(it.events) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Event() *Event {
	if it.pos < 0 {
		panic("internal: Event() called before Next()")
	}
	return it.events[it.pos]
}

func (it *sliceIterator) Err() error {
	return nil
}
