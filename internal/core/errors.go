package core

import "fmt"

// InvalidInputError reports malformed input to a grid builder: an image that
// cannot be decoded, an empty image, or parameters outside their domain.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Endpoint names which end of a solve request an error refers to.
type Endpoint string

const (
	EndpointStart Endpoint = "start"
	EndpointEnd   Endpoint = "end"
)

// UnreachableEndpointError reports a start or end coordinate that lies
// outside the grid or on a blocked cell. It is raised before any search work.
type UnreachableEndpointError struct {
	Endpoint    Endpoint
	Coord       Coord
	OutOfBounds bool
}

func (e *UnreachableEndpointError) Error() string {
	if e.OutOfBounds {
		return fmt.Sprintf("unreachable %s %v: out of bounds", e.Endpoint, e.Coord)
	}
	return fmt.Sprintf("unreachable %s %v: cell is blocked", e.Endpoint, e.Coord)
}
