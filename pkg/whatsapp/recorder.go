package whatsapp

import (
	"context"
	"sync"
)

// Recorder is an IWhatsappSender that keeps messages in memory. It backs the
// HTTP and websocket chat surfaces, which return replies in the response.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every following send return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) record(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *Recorder) SendMessage(_ context.Context, phoneNumber, message string) error {
	return r.record(Message{PhoneNumber: phoneNumber, Kind: KindText, Text: message})
}

func (r *Recorder) SendButtons(_ context.Context, phoneNumber, text string, buttons []Button) error {
	if len(buttons) > MaxButtons {
		return ErrTooManyButtons
	}
	return r.record(Message{PhoneNumber: phoneNumber, Kind: KindButtons, Text: text, Buttons: buttons})
}

func (r *Recorder) SendList(_ context.Context, phoneNumber string, list List) error {
	return r.record(Message{PhoneNumber: phoneNumber, Kind: KindList, Text: list.Body, List: &list})
}

func (r *Recorder) Disconnect() error {
	return nil
}

func (r *Recorder) IsConnected() bool {
	return true
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
