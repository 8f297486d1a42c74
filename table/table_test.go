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

package table

import (
	"bytes"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestCSVCodecRoundTrip(t *testing.T) {
	rows := Rows{{Index: 3, Value: 1.5}, {Index: 0, Value: -2.25}}

	var buf bytes.Buffer
	assert.NilError(t, CSVCodec{}.Write(&buf, rows))

	got, err := CSVCodec{}.Read(&buf)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, rows)
}

func TestCSVCodecEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, CSVCodec{}.Write(&buf, Rows{}))

	got, err := CSVCodec{}.Read(&buf)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)
}

func TestLookupKnownFormats(t *testing.T) {
	for _, format := range []string{"CSV", "AVRO", "ORC"} {
		_, err := Lookup(format)
		assert.NilError(t, err)
	}
}

func TestLookupUnknownFormat(t *testing.T) {
	_, err := Lookup("PARQUET")
	assert.Assert(t, errors.Is(err, ErrFormatNotFound))
}

func TestExternalCollaboratorCodecsRefuse(t *testing.T) {
	codec, err := Lookup("AVRO")
	assert.NilError(t, err)

	_, err = codec.Read(&bytes.Buffer{})
	assert.Assert(t, errors.Is(err, ErrExternalCollaborator))

	err = codec.Write(&bytes.Buffer{}, Rows{})
	assert.Assert(t, errors.Is(err, ErrExternalCollaborator))
}
