// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"iter"
	"strings"
)

// Entity is the raw text of one `{ ... }` block of the entity lump. Values
// are looked up on demand, nothing is parsed ahead of time.
type Entity struct {
	src string
}

// Source returns the block including its braces.
func (e Entity) Source() string {
	return e.src
}

// Pairs yields the "key" "value" pairs in the order they appear. Duplicate
// keys are yielded every time.
func (e Entity) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		r := e.src
		for {
			key, rest, ok := nextQuoted(r)
			if !ok {
				return
			}
			value, rest, ok := nextQuoted(rest)
			if !ok {
				return
			}
			if !yield(key, value) {
				return
			}
			r = rest
		}
	}
}

// Get returns the first value stored under key.
func (e Entity) Get(key string) (string, bool) {
	for k, v := range e.Pairs() {
		if k == key {
			return v, true
		}
	}
	return "", false
}

func (e Entity) ClassName() (string, bool) {
	return e.Get("classname")
}

// Keys returns every key of the entity.
func (e Entity) Keys() []string {
	n := []string{}
	for k := range e.Pairs() {
		n = append(n, k)
	}
	return n
}

func nextQuoted(s string) (string, string, bool) {
	q := strings.IndexByte(s, '"')
	if q == -1 {
		return "", "", false
	}
	s = s[q+1:]
	q = strings.IndexByte(s, '"')
	if q == -1 {
		return "", "", false
	}
	return s[:q], s[q+1:], true
}

// Entities is the text of the entity lump.
type Entities struct {
	text string
}

func newEntities(data []byte) Entities {
	return Entities{text: strings.TrimRight(string(data), "\x00")}
}

func (es Entities) Text() string {
	return es.text
}

// All yields the entity blocks. Braces inside quoted values are not block
// delimiters. Scanning stops at the first unbalanced closing brace.
func (es Entities) All() iter.Seq[Entity] {
	/*
		The data looks like:
		{
		  "classname" "worldspawn"
		  "mapversion" "17"
		}
		{
		  "origin" "0 0 64"
		  "classname" "info_player_start"
		}
	*/
	return func(yield func(Entity) bool) {
		data := es.text
		var ob int
		quoted := false
		start := -1
		for i := 0; i < len(data); i++ {
			switch data[i] {
			case '{':
				if quoted {
					break
				}
				if start == -1 {
					start = i
				} else {
					ob++
				}
			case '}':
				if quoted {
					break
				}
				if start == -1 {
					return
				}
				if ob == 0 {
					if !yield(Entity{src: data[start : i+1]}) {
						return
					}
					start = -1
				} else {
					ob--
				}
			case '"':
				quoted = !quoted
			}
		}
	}
}

// Len counts the entity blocks.
func (es Entities) Len() int {
	n := 0
	for range es.All() {
		n++
	}
	return n
}
