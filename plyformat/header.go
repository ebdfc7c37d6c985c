// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plyformat implements the Stanford PLY loader (spec.md §4.3):
// a header schema parser followed by an ASCII or binary element-body
// reader, with face triangulation and per-chunk vertex dedup shared
// with objformat's chunking rules.
package plyformat

import (
	"strconv"
	"strings"

	"meshkit"
	"meshkit/bytestream"
)

// scalarType is one of the eight PLY scalar property types.
type scalarType int

const (
	typeInt8 scalarType = iota
	typeUInt8
	typeInt16
	typeUInt16
	typeInt32
	typeUInt32
	typeFloat32
	typeFloat64
)

func (t scalarType) size() int {
	switch t {
	case typeInt8, typeUInt8:
		return 1
	case typeInt16, typeUInt16:
		return 2
	case typeInt32, typeUInt32, typeFloat32:
		return 4
	case typeFloat64:
		return 8
	}
	return 0
}

func parseScalarType(name string) (scalarType, bool) {
	switch name {
	case "char", "int8":
		return typeInt8, true
	case "uchar", "uint8":
		return typeUInt8, true
	case "short", "int16":
		return typeInt16, true
	case "ushort", "uint16":
		return typeUInt16, true
	case "int", "int32":
		return typeInt32, true
	case "uint", "uint32":
		return typeUInt32, true
	case "float", "float32":
		return typeFloat32, true
	case "double", "float64":
		return typeFloat64, true
	default:
		return 0, false
	}
}

// property is one "property ..." declaration under an element.
type property struct {
	name      string
	isList    bool
	countType scalarType // meaningful only if isList
	elemType  scalarType
}

// element is one "element <name> <count>" block with its properties.
type element struct {
	name  string
	count int
	props []property
}

func (e *element) indexOf(names ...string) int {
	for i, p := range e.props {
		for _, n := range names {
			if p.name == n {
				return i
			}
		}
	}
	return -1
}

// header is the fully parsed PLY preamble.
type header struct {
	format   string // "ascii", "binary_little_endian", "binary_big_endian"
	comments []string
	elements []element
}

func (h *header) element(name string) *element {
	for i := range h.elements {
		if h.elements[i].name == name {
			return &h.elements[i]
		}
	}
	return nil
}

func (h *header) endian() bytestream.Endian {
	if h.format == "binary_big_endian" {
		return bytestream.BigEndian
	}
	return bytestream.LittleEndian
}

// parseHeader consumes the ASCII header from s, leaving the cursor at
// the first byte of element data.
func parseHeader(s *bytestream.Stream, op string) (*header, error) {
	line, ok, err := s.ReadLine()
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op, err)
	}
	if !ok || strings.TrimSpace(line) != "ply" {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("missing \"ply\" magic line"))
	}

	h := &header{}
	var cur *element
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return nil, meshkit.NewError(meshkit.IO, op, err)
		}
		if !ok {
			return nil, meshkit.NewError(meshkit.Malformed, op, errf("header has no end_header"))
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "end_header" {
			break
		}
		fields := strings.Fields(trimmed)
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("format line missing a value"))
			}
			h.format = fields[1]
			if h.format != "ascii" && h.format != "binary_little_endian" && h.format != "binary_big_endian" {
				return nil, meshkit.NewError(meshkit.Unsupported, op, errf("unsupported PLY format %q", h.format))
			}
		case "comment", "obj_info":
			h.comments = append(h.comments, strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0])))
		case "element":
			if len(fields) < 3 {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("element line malformed: %q", trimmed))
			}
			count, cerr := strconv.Atoi(fields[2])
			if cerr != nil {
				return nil, meshkit.NewError(meshkit.Malformed, op, cerr)
			}
			h.elements = append(h.elements, element{name: fields[1], count: count})
			cur = &h.elements[len(h.elements)-1]
		case "property":
			if cur == nil {
				return nil, meshkit.NewError(meshkit.Malformed, op, errf("property declared before any element"))
			}
			p, perr := parseProperty(fields[1:], op)
			if perr != nil {
				return nil, perr
			}
			cur.props = append(cur.props, p)
		default:
			// unrecognized header directive: ignored.
		}
	}
	if h.format == "" {
		return nil, meshkit.NewError(meshkit.Malformed, op, errf("missing format line"))
	}
	return h, nil
}

func parseProperty(fields []string, op string) (property, error) {
	if len(fields) < 2 {
		return property{}, meshkit.NewError(meshkit.Malformed, op, errf("malformed property declaration"))
	}
	if fields[0] == "list" {
		if len(fields) < 4 {
			return property{}, meshkit.NewError(meshkit.Malformed, op, errf("malformed list property declaration"))
		}
		ct, ok := parseScalarType(fields[1])
		if !ok {
			return property{}, meshkit.NewError(meshkit.Unsupported, op, errf("unsupported list count type %q", fields[1]))
		}
		et, ok := parseScalarType(fields[2])
		if !ok {
			return property{}, meshkit.NewError(meshkit.Unsupported, op, errf("unsupported list element type %q", fields[2]))
		}
		return property{name: fields[3], isList: true, countType: ct, elemType: et}, nil
	}
	et, ok := parseScalarType(fields[0])
	if !ok {
		return property{}, meshkit.NewError(meshkit.Unsupported, op, errf("unsupported property type %q", fields[0]))
	}
	return property{name: fields[1], elemType: et}, nil
}
