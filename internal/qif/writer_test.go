package qif

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"fjacquet/settle2qif/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []models.TransactionBlock {
	c := NewConverter(WithAccounts(models.SplitAccounts{Fees: "Fees", Tax: "Tax", Revenue: "Revenue"}))
	return c.Convert([]string{
		"01/15/2024,DEP123,$590.57,$12.50,$45.30,$532.77",
		"01/16/2024,DEP124,(100.00),5.00,10.00,85.00",
	}).Blocks
}

func TestSerialize(t *testing.T) {
	expected := strings.Join([]string{
		"!Type:Bank",
		"D01/15/2024",
		"T590.57",
		"MDEP123",
		"SFees",
		"E12.50",
		"STax",
		"E45.30",
		"SRevenue",
		"E532.77",
		"^",
		"D01/16/2024",
		"T-100.00",
		"MDEP124",
		"SFees",
		"E5.00",
		"STax",
		"E10.00",
		"SRevenue",
		"E85.00",
		"^",
	}, "\n") + "\n"

	assert.Equal(t, expected, Serialize(sampleBlocks()))
}

func TestSerialize_NoBlocksIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "!Type:Bank\n", Serialize(nil))
}

func TestWrite_MatchesSerialize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleBlocks()))
	assert.Equal(t, Serialize(sampleBlocks()), buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := Write(failingWriter{}, sampleBlocks())
	assert.EqualError(t, err, "disk full")
}

func TestBlockLines_SplitFollowedByAmount(t *testing.T) {
	lines := BlockLines(sampleBlocks()[0])

	require.Len(t, lines, 10)
	assert.Equal(t, "D01/15/2024", lines[0])
	assert.Equal(t, "T590.57", lines[1])
	assert.Equal(t, "MDEP123", lines[2])
	for i := 3; i < 9; i += 2 {
		assert.True(t, strings.HasPrefix(lines[i], "S"), lines[i])
		assert.True(t, strings.HasPrefix(lines[i+1], "E"), lines[i+1])
	}
	assert.Equal(t, "^", lines[9])
}

func TestReadBlocks_RoundTrip(t *testing.T) {
	blocks := sampleBlocks()

	parsed, err := ReadBlocks(strings.NewReader(Serialize(blocks)))

	require.NoError(t, err)
	assert.Equal(t, blocks, parsed)
}

func TestReadBlocks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "missing header", input: "D01/01/2024\n^\n", wantErr: "missing !Type:Bank header"},
		{name: "other dialect", input: "!Type:Invst\n", wantErr: "unsupported header"},
		{name: "truncated", input: "!Type:Bank\nD01/01/2024\nT1.00\n", wantErr: "unexpected EOF"},
		{name: "amount before category", input: "!Type:Bank\nD1\nE1.00\n", wantErr: "split amount before category"},
		{name: "wrong split count", input: "!Type:Bank\nD1\nT1\nM1\nSFees\nE1\n^\n", wantErr: "has 1 splits"},
		{name: "unknown field", input: "!Type:Bank\nX1\n", wantErr: "unknown field"},
		{name: "stray end marker", input: "!Type:Bank\n^\n", wantErr: "end of record without transaction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBlocks(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerify(t *testing.T) {
	blocks := sampleBlocks()
	data := []byte(Serialize(blocks))

	require.NoError(t, Verify(data, blocks))

	t.Run("missing transaction", func(t *testing.T) {
		err := Verify(data, append(blocks, blocks[0]))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want")
	})

	t.Run("changed amount", func(t *testing.T) {
		changed := append([]models.TransactionBlock(nil), blocks...)
		changed[0].Total = "1.23"
		err := Verify(data, changed)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not read back")
	})

	t.Run("not a QIF document", func(t *testing.T) {
		err := Verify([]byte("D01/01/2024\n^\n"), blocks)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not parse")
	})
}
