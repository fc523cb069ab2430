package entity

import "fmt"

// Counter names a stored sequence and the letter prefix used when the value is shown to customers.
type Counter struct {
	Name   string
	Prefix string
}

// Format renders n as the prefix followed by at least six zero-padded digits, e.g. K000001.
func (c Counter) Format(n int64) string {
	return fmt.Sprintf("%s%06d", c.Prefix, n)
}
