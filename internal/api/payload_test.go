package api

import (
	"fmt"
	"strings"
	"testing"

	"bom-dashboard/internal/bom"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadShapes(t *testing.T) {
	cursor := "abc"
	table := []struct {
		name     string
		body     string
		expected Payload
	}{
		{
			name: "envelope",
			body: `{"data": [{"id": 7, "parish": "St Olave"}], "next_cursor": "abc", "has_more": true}`,
			expected: Payload{
				Shape:      ShapePage,
				Rows:       []bom.Record{{"id": float64(7), "parish": "St Olave"}},
				NextCursor: &cursor,
				HasMore:    true,
			},
		},
		{
			name: "last envelope page",
			body: `{"data": [], "next_cursor": null, "has_more": false}`,
			expected: Payload{
				Shape: ShapePage,
				Rows:  []bom.Record{},
			},
		},
		{
			name: "legacy array",
			body: `[{"name": "a"}, {"name": "b", "id": "x"}]`,
			expected: Payload{
				Shape: ShapeList,
				Rows: []bom.Record{
					{"name": "a", "id": float64(0)},
					{"name": "b", "id": "x"},
				},
			},
		},
		{
			name: "object",
			body: ` {"years": [1665, 1666]}`,
			expected: Payload{
				Shape:  ShapeObject,
				Object: map[string]any{"years": []any{float64(1665), float64(1666)}},
			},
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			payload, err := ParsePayload([]byte(test.body))
			require.NoError(t, err)
			diff := cmp.Diff(test.expected, payload)
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestParsePayloadErrors(t *testing.T) {
	table := []struct {
		name  string
		body  string
		check func(t *testing.T, err error)
	}{
		{
			name: "server error field",
			body: `{"error": "invalid parish"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				require.Equal(t, "invalid parish", apiErr.Message)
			},
		},
		{
			name: "string",
			body: `"hello"`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnexpectedResponseFormat)
			},
		},
		{
			name: "empty",
			body: `   `,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnexpectedResponseFormat)
			},
		},
		{
			name: "array of numbers",
			body: `[1, 2, 3]`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnexpectedResponseFormat)
			},
		},
		{
			name: "bad cursor type",
			body: `{"data": [], "next_cursor": 12}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnexpectedResponseFormat)
			},
		},
		{
			name: "too large",
			body: envelope(DatasetCap + 1),
			check: func(t *testing.T, err error) {
				var tooLarge *DatasetTooLargeError
				require.ErrorAs(t, err, &tooLarge)
				require.Equal(t, DatasetCap+1, tooLarge.Count)
			},
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(test.body))
			require.Error(t, err)
			test.check(t, err)
		})
	}
}

func TestDatasetCapBoundary(t *testing.T) {
	payload, err := ParsePayload([]byte(envelope(DatasetCap)))
	require.NoError(t, err)
	require.Len(t, payload.Rows, DatasetCap)
}

func TestTotalRecords(t *testing.T) {
	payload, err := ParsePayload([]byte(`[{"totalrecords": "250", "parish": "a"}]`))
	require.NoError(t, err)
	total, ok := payload.TotalRecords()
	require.True(t, ok)
	require.Equal(t, 250, total)

	res := payload.PageResult()
	require.Nil(t, res.HasMore)
	require.Equal(t, 250, *res.Total)

	payload, err = ParsePayload([]byte(`{"data": [{"a": 1}], "has_more": true, "totalrecords": 40}`))
	require.NoError(t, err)
	res = payload.PageResult()
	require.True(t, *res.HasMore)
	require.Equal(t, 40, *res.Total)
	require.Equal(t, 1, res.Rows)
}

func envelope(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"week": %d}`, i)
	}
	return fmt.Sprintf(`{"data": [%s], "next_cursor": null, "has_more": false}`, strings.Join(items, ","))
}
