package controller

import (
	"fmt"
	"log"
)

// Errors is a list of error messages to be shown on a view.
//
// Errors are accumulated. They are never retried or raised.
type Errors struct {
	messages []string
	logger   *log.Logger
}

// Add appends err. nil is ignored.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	e.Addf("%s", err.Error())
}

func (e *Errors) Addf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if e.logger != nil {
		e.logger.Printf("error: %s", msg)
	}
	e.messages = append(e.messages, msg)
}

// List returns a copy of messages.
func (e *Errors) List() []string {
	return append([]string{}, e.messages...)
}

func (e *Errors) Len() int {
	return len(e.messages)
}

func (e *Errors) Clear() {
	e.messages = nil
}
