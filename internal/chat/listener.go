package chat

// Listener receives session events in the order the changes were made. Calls
// come from the goroutine that caused the event, outside the state lock but
// serialized with other mutations, so a listener may call Snapshot but must
// not call Submit or Clear.
type Listener interface {
	MessageAppended(msg Message)
	ResponseSettled(s Session)
	Cleared()
}

// Listeners fans events out to every element in order.
type Listeners []Listener

func (ls Listeners) MessageAppended(msg Message) {
	for _, l := range ls {
		l.MessageAppended(msg)
	}
}

func (ls Listeners) ResponseSettled(s Session) {
	for _, l := range ls {
		l.ResponseSettled(s)
	}
}

func (ls Listeners) Cleared() {
	for _, l := range ls {
		l.Cleared()
	}
}

type nopListener struct{}

func (nopListener) MessageAppended(Message) {}
func (nopListener) ResponseSettled(Session) {}
func (nopListener) Cleared()                {}
