// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string // archive to decode
	Output string // reserved, decoded output is only logged for now
	Batch  string // glob of archives to decode
}

// Flags contains behavior options.
type Flags struct {
	Debug bool
	Quiet bool
}

// Program options of the decoder.
type Program struct {
	Parameters
	Flags
}
