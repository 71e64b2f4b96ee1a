package service

import (
	"testing"

	"controllerboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.CommandSequence
	}{
		{
			name: "two activations",
			body: "1,5\n3,2\n",
			want: models.CommandSequence{models.Activate(1, 5), models.Activate(3, 2)},
		},
		{
			name: "sleep only",
			body: "0,90\n",
			want: models.CommandSequence{models.Sleep(90)},
		},
		{
			name: "sleep terminates the list",
			body: "2,10\n0,30\n4,1\n",
			want: models.CommandSequence{models.Activate(2, 10), models.Sleep(30)},
		},
		{
			name: "empty body",
			body: "",
			want: models.CommandSequence{},
		},
		{
			name: "garbage line stops parsing",
			body: "1,5\nhello\n2,5\n",
			want: models.CommandSequence{models.Activate(1, 5)},
		},
		{
			name: "crlf lines and trailing text",
			body: "1,5\r\n2,7 minutes\r\n",
			want: models.CommandSequence{models.Activate(1, 5), models.Activate(2, 7)},
		},
		{
			name: "leading blanks accepted",
			body: "  1, 5\n",
			want: models.CommandSequence{models.Activate(1, 5)},
		},
		{
			name: "last line without newline is complete when not truncated",
			body: "1,5\n0,45",
			want: models.CommandSequence{models.Activate(1, 5), models.Sleep(45)},
		},
		{
			name: "signed number does not match",
			body: "-1,5\n",
			want: models.CommandSequence{},
		},
		{
			name: "overflowing minutes does not match",
			body: "1,99999999999\n",
			want: models.CommandSequence{},
		},
		{
			name: "missing comma does not match",
			body: "1 5\n",
			want: models.CommandSequence{},
		},
		{
			name: "out of range port is left to the scheduler",
			body: "9,5\n",
			want: models.CommandSequence{models.Activate(9, 5)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseResponse(httpResponse(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseResponse_NoSeparator(t *testing.T) {
	_, err := ParseResponse(models.RawResponse{Data: []byte("HTTP/1.0 200 OK\r\nContent-Length: 4\r\n1,5\n")})
	assert.ErrorIs(t, err, ErrNoPayload)

	_, err = ParseResponse(models.RawResponse{})
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestParseResponse_BareLFHeaders(t *testing.T) {
	got, err := ParseResponse(models.RawResponse{Data: []byte("HTTP/1.0 200 OK\nServer: x\n\n1,5\n")})
	require.NoError(t, err)
	assert.Equal(t, models.CommandSequence{models.Activate(1, 5)}, got)
}

func TestParseResponse_EmptyLineInBodyStops(t *testing.T) {
	// Only the first separator splits headers from body; a later blank line is just a non-matching line.
	got, err := ParseResponse(httpResponse("1,5\n\n2,6\n"))
	require.NoError(t, err)
	assert.Equal(t, models.CommandSequence{models.Activate(1, 5)}, got)
}

func TestParseResponse_Idempotent(t *testing.T) {
	raw := httpResponse("1,5\n2,6\n3,7\n0,20\n")
	first, err := ParseResponse(raw)
	require.NoError(t, err)
	second, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseResponse_SleepIsAlwaysLast(t *testing.T) {
	tails := []string{"", "1,1\n", "0,5\n", "junk\n", "8,8\n9,9\n", "1,"}
	for _, tail := range tails {
		got, err := ParseResponse(httpResponse("4,4\n0,60\n" + tail))
		require.NoError(t, err)
		require.Len(t, got, 2, "tail %q", tail)
		assert.Equal(t, models.Sleep(60), got[len(got)-1], "tail %q", tail)
	}
}

func TestParseResponse_TruncatedPartialLineDropped(t *testing.T) {
	full := httpResponse("1,5\n2,50\n")
	// Cut inside "2,50": the partial "2,5" must not become Activate(2,5).
	cut := len(full.Data) - 2
	got, err := ParseResponse(models.RawResponse{Data: full.Data[:cut], Truncated: true})
	require.NoError(t, err)
	assert.Equal(t, models.CommandSequence{models.Activate(1, 5)}, got)

	// A truncated buffer ending exactly on a newline keeps every line.
	got, err = ParseResponse(models.RawResponse{Data: full.Data, Truncated: true})
	require.NoError(t, err)
	assert.Equal(t, models.CommandSequence{models.Activate(1, 5), models.Activate(2, 50)}, got)
}

func TestCommandSequence_BodyParsesBack(t *testing.T) {
	seq := models.CommandSequence{models.Activate(1, 5), models.Activate(8, 1), models.Sleep(90)}
	got, err := ParseResponse(httpResponse(seq.Body()))
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}
