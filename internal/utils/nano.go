package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idSize     = 21
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID returns a url safe random id used as a candidate primary key.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idSize)
}
