package driver

import "time"

// Status captures progress state of one unit.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
// Phase is one of lex, parse, sema or lower while Status is StatusWorking.
type Event struct {
	File    string
	Phase   string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. DiagnoseDir calls OnEvent from
// several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// finalStatus maps a finished result onto StatusDone or StatusError.
func finalStatus(res *Result) (Status, error) {
	switch {
	case res.Err != nil:
		return StatusError, res.Err
	case res.HasErrors():
		return StatusError, nil
	default:
		return StatusDone, nil
	}
}
