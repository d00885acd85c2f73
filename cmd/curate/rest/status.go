package rest

import (
	"fmt"
	"net/http"
)

// StatusCodeRange is the class of an HTTP status code: its hundreds digit.
type StatusCodeRange int

const (
	StatusUnknown StatusCodeRange = 0
	Status1xx     StatusCodeRange = 1
	Status2xx     StatusCodeRange = 2
	Status3xx     StatusCodeRange = 3
	Status4xx     StatusCodeRange = 4
	Status5xx     StatusCodeRange = 5
)

var rangeNames = map[StatusCodeRange]string{
	Status1xx: "informational response",
	Status2xx: "success",
	Status3xx: "redirect",
	Status4xx: "client error",
	Status5xx: "server error",
}

func (sc StatusCodeRange) String() string {
	if name, ok := rangeNames[sc]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", int(sc))
}

// StatusCodeRangeOf classifies the response. Codes out of 100-599 are StatusUnknown.
func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	if resp.StatusCode < 100 {
		return StatusUnknown
	}
	scr := StatusCodeRange(resp.StatusCode / 100)
	if Status5xx < scr {
		return StatusUnknown
	}
	return scr
}
