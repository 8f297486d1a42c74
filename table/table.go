/*
 Copyright (C) 2025 Douglas Wayne Potter

 This program is free software: you can redistribute it and/or modify
 it under the terms of the GNU Affero General Public License as
 published by the Free Software Foundation, either version 3 of the
 License, or (at your option) any later version.

 This program is distributed in the hope that it will be useful,
 but WITHOUT ANY WARRANTY; without even the implied warranty of
 MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 GNU Affero General Public License for more details.

 You should have received a copy of the GNU Affero General Public License
 along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package table specifies the {index: int32, value: float64} table schema
// dual/violation/primal artifacts are persisted in (spec §6), and a
// pluggable codec registry standing in for the distributed data-frame I/O
// layer, which spec §2 places out of scope.
package table

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrExternalCollaborator is returned by codecs for wire formats this
// module does not implement (AVRO, ORC): their encoders/decoders are the
// distributed data-frame I/O layer's responsibility, per spec §2.
var ErrExternalCollaborator = errors.New("table: format is handled by an external data-frame I/O collaborator")

// ErrFormatNotFound is returned by Lookup when no codec is registered under
// the requested format name.
var ErrFormatNotFound = errors.New("table: no codec registered for this format")

// Row is one (index, value) entry of a persisted table.
type Row struct {
	Index int32
	Value float64
}

// Rows is an ordered collection of table rows.
type Rows []Row

// Codec reads and writes Rows in one wire format.
type Codec interface {
	Read(r io.Reader) (Rows, error)
	Write(w io.Writer, rows Rows) error
}

var (
	mu       sync.RWMutex
	registry = map[string]Codec{}
)

// Register installs codec under format (e.g. "CSV", "AVRO", "ORC").
func Register(format string, codec Codec) {
	mu.Lock()
	defer mu.Unlock()
	registry[format] = codec
}

// Lookup resolves format to its Codec.
func Lookup(format string) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()
	codec, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormatNotFound, format)
	}
	return codec, nil
}

func init() {
	Register("CSV", CSVCodec{})
	Register("AVRO", externalCollaboratorCodec{format: "AVRO"})
	Register("ORC", externalCollaboratorCodec{format: "ORC"})
}
