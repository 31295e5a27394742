// Package quantity turns the raw text found inside Cooklang brace payloads
// and metadata fields into numbers. Every function is pure; unparseable input
// yields an absent value rather than an error.
package quantity
