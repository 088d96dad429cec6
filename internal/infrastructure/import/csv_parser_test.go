package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "name,age,city\nAlice,30,New York\nBob,25,Boston"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		// UTF-8 BOM: 0xEF, 0xBB, 0xBF
		csv := "\xEF\xBB\xBFname,age\nAlice,30"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)

		err = parser.ParseHeader()
		require.NoError(t, err)

		// Header should not include BOM
		headers := parser.Headers()
		assert.Equal(t, "name", headers[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(""))

		assert.Error(t, err)
		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("BOM-only file returns empty error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\xEF\xBB\xBF"))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Latin-1 input falls back", func(t *testing.T) {
		// "Café Noël" in Latin-1: é=0xE9, ë=0xEB
		csv := "name,city\nCaf\xE9 No\xEBl,Montr\xE9al"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		assert.True(t, parser.DecodedAsLatin1())

		require.NoError(t, parser.ParseHeader())
		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Café Noël", row.Get("name"))
		assert.Equal(t, "Montréal", row.Get("city"))
	})

	t.Run("Valid UTF-8 is not re-decoded", func(t *testing.T) {
		csv := "name\nCafé Noël"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		assert.False(t, parser.DecodedAsLatin1())

		require.NoError(t, parser.ParseHeader())
		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Café Noël", row.Get("name"))
	})

	t.Run("Multi-byte rune split at detection sample boundary", func(t *testing.T) {
		// Pad so a two-byte rune straddles the 4 KiB sample; the split
		// lead byte must not trigger the Latin-1 fallback.
		var sb strings.Builder
		sb.WriteString("name\n")
		for sb.Len() < 4095 {
			sb.WriteByte('a')
		}
		sb.WriteString("é trailing data\n")
		parser, err := NewCSVParser(strings.NewReader(sb.String()))

		require.NoError(t, err)
		assert.False(t, parser.DecodedAsLatin1())
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		csv := "name;age;city\nAlice;30;NYC"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter(';'))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		headers := parser.Headers()
		assert.Equal(t, []string{"name", "age", "city"}, headers)
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		csv := "code,name,client_type\nCLI-001,Acme Plumbing,commercial"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		err := parser.ParseHeader()

		require.NoError(t, err)
		assert.Equal(t, []string{"code", "name", "client_type"}, parser.Headers())
		assert.Equal(t, map[string]int{"code": 0, "name": 1, "client_type": 2}, parser.HeaderMap())
	})

	t.Run("Header with spaces trimmed", func(t *testing.T) {
		csv := "  code  ,  name  ,  client_type  \nCLI-001,Acme Plumbing,commercial"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		err := parser.ParseHeader()

		require.NoError(t, err)
		assert.Equal(t, []string{"code", "name", "client_type"}, parser.Headers())
	})

	t.Run("HasHeader check", func(t *testing.T) {
		csv := "code,name,client_type\nCLI-001,Acme Plumbing,commercial"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		assert.True(t, parser.HasHeader("code"))
		assert.True(t, parser.HasHeader("name"))
		assert.False(t, parser.HasHeader("description"))
	})

	t.Run("ValidateHeaders finds missing", func(t *testing.T) {
		csv := "code,name\nCLI-001,Acme Plumbing"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		missing := parser.ValidateHeaders([]string{"code", "name", "client_type", "address"})
		assert.ElementsMatch(t, []string{"client_type", "address"}, missing)
	})
}

func TestReadRow(t *testing.T) {
	t.Run("Read single row", func(t *testing.T) {
		csv := "code,name,client_type\nCLI-001,Acme Plumbing,commercial"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, err := parser.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "CLI-001", row.Get("code"))
		assert.Equal(t, "Acme Plumbing", row.Get("name"))
		assert.Equal(t, "commercial", row.Get("client_type"))
	})

	t.Run("Row with missing columns", func(t *testing.T) {
		csv := "code,name,client_type,address\nCLI-001,Acme Plumbing"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, err := parser.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, "CLI-001", row.Get("code"))
		assert.Equal(t, "Acme Plumbing", row.Get("name"))
		assert.Equal(t, "", row.Get("client_type"))
		assert.Equal(t, "", row.Get("address"))
	})

	t.Run("GetOrDefault", func(t *testing.T) {
		csv := "code,name,client_type\nCLI-001,Acme Plumbing,"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, _ := parser.ReadRow()

		assert.Equal(t, "CLI-001", row.GetOrDefault("code", "default"))
		assert.Equal(t, "N/A", row.GetOrDefault("address", "N/A"))
		assert.Equal(t, "none", row.GetOrDefault("missing", "none"))
	})

	t.Run("IsEmpty row", func(t *testing.T) {
		csv := "code,name\n,,\nCLI-001,Acme Plumbing"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row1, _ := parser.ReadRow()
		assert.True(t, row1.IsEmpty())

		row2, _ := parser.ReadRow()
		assert.False(t, row2.IsEmpty())
	})

	t.Run("EOF after last row", func(t *testing.T) {
		csv := "code,name\nCLI-001,Acme Plumbing"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		_, err := parser.ReadRow()
		require.NoError(t, err)

		_, err = parser.ReadRow()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadAllRows(t *testing.T) {
	t.Run("Read all rows", func(t *testing.T) {
		csv := "code,name\nCLI-001,Acme Plumbing\nCLI-002,Beacon HVAC\nCLI-003,Crestline Electric"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, "CLI-001", rows[0].Get("code"))
		assert.Equal(t, "CLI-002", rows[1].Get("code"))
		assert.Equal(t, "CLI-003", rows[2].Get("code"))
	})

	t.Run("Skip empty rows", func(t *testing.T) {
		csv := "code,name\nCLI-001,Acme Plumbing\n,,\n,,\nCLI-002,Beacon HVAC"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("TotalRows count", func(t *testing.T) {
		csv := "code,name\nCLI-001,Acme Plumbing\nCLI-002,Beacon HVAC\nCLI-003,Crestline Electric"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		parser.ReadAllRows()

		assert.Equal(t, 3, parser.TotalRows())
	})
}

func TestParseFromBytes(t *testing.T) {
	t.Run("Parse from byte slice", func(t *testing.T) {
		data := []byte("code,name\nCLI-001,Acme Plumbing")
		parser, err := ParseFromBytes(data)

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, _ := parser.ReadRow()
		assert.Equal(t, "CLI-001", row.Get("code"))
	})
}

func TestQuotedFields(t *testing.T) {
	t.Run("Fields with quotes", func(t *testing.T) {
		csv := `code,name,notes
CLI-001,"Acme Plumbing","Commercial account"
CLI-002,"Beacon HVAC","Contains, comma"
CLI-003,"Crestline ""East""","With ""quotes"""
`
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row1, _ := parser.ReadRow()
		assert.Equal(t, "Acme Plumbing", row1.Get("name"))
		assert.Equal(t, "Commercial account", row1.Get("notes"))

		row2, _ := parser.ReadRow()
		assert.Equal(t, "Contains, comma", row2.Get("notes"))

		row3, _ := parser.ReadRow()
		assert.Equal(t, `Crestline "East"`, row3.Get("name"))
		assert.Equal(t, `With "quotes"`, row3.Get("notes"))
	})
}

func TestMultilineFields(t *testing.T) {
	t.Run("Fields with newlines", func(t *testing.T) {
		csv := "code,name,notes\nCLI-001,Acme Plumbing,\"Line 1\nLine 2\nLine 3\""
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, _ := parser.ReadRow()
		assert.Equal(t, "Line 1\nLine 2\nLine 3", row.Get("notes"))
	})
}

func TestGetColumnIndex(t *testing.T) {
	csv := "code,name,client_type\nCLI-001,Acme Plumbing,commercial"
	parser, _ := NewCSVParser(strings.NewReader(csv))
	parser.ParseHeader()

	idx, ok := parser.GetColumnIndex("name")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = parser.GetColumnIndex("missing")
	assert.False(t, ok)
}
