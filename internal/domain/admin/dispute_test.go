package admin

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestParseTrail(t *testing.T) {
	description := "Payment was not released after delivery.\n" +
		"---\n" +
		"[Update by Ops on 2024-05-01T10:00:00Z]\nContacted the provider.\n" +
		"---\n" +
		"[Update by Jane Tan on 5/2/2024, 3:04:05 PM]\n<b>Refund</b> issued<script>alert(1)</script>\n" +
		"---\n" +
		"[Update by Bot on yesterday]\nFollow up pending."

	want := []TrailEntry{
		{Body: "Payment was not released after delivery."},
		{
			Author:       "Ops",
			RawTimestamp: "2024-05-01T10:00:00Z",
			Time:         ptrTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
			Body:         "Contacted the provider.",
		},
		{
			Author:       "Jane Tan",
			RawTimestamp: "5/2/2024, 3:04:05 PM",
			Time:         ptrTime(time.Date(2024, 5, 2, 15, 4, 5, 0, time.UTC)),
			Body:         "Refund issued",
		},
		{Author: "Bot", RawTimestamp: "yesterday", Body: "Follow up pending."},
	}

	got := ParseTrail(description)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseTrail mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTrail_DateOnlyAndBlankBlocks(t *testing.T) {
	got := ParseTrail("\n---\n[Update by Admin on 2024-06-30]\nClosed.\n---\n   ")
	want := []TrailEntry{{
		Author:       "Admin",
		RawTimestamp: "2024-06-30",
		Time:         ptrTime(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)),
		Body:         "Closed.",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseTrail mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTrail_KeepsPlainTextCharacters(t *testing.T) {
	got := ParseTrail("Client said: price < quote & it's late\n---\n" +
		"[Update by <i>Ana</i> & Co on 2024-01-02]\nRefund \"partial\"")
	want := []TrailEntry{
		{Body: "Client said: price < quote & it's late"},
		{
			Author:       "Ana & Co",
			RawTimestamp: "2024-01-02",
			Time:         ptrTime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
			Body:         `Refund "partial"`,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseTrail mismatch (-want +got):\n%s", diff)
	}

	desc, err := AppendUpdate("", "O'Brien", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), "a < b && c")
	require.NoError(t, err)
	trail := ParseTrail(desc)
	require.Len(t, trail, 1)
	assert.Equal(t, "O'Brien", trail[0].Author)
	assert.Equal(t, "a < b && c", trail[0].Body)
}

func TestParseTrail_Empty(t *testing.T) {
	assert.Empty(t, ParseTrail(""))
}

func TestAppendUpdate_RoundTrip(t *testing.T) {
	at := time.Date(2024, 7, 1, 9, 30, 15, 0, time.FixedZone("MYT", 8*3600))

	desc, err := AppendUpdate("Original complaint", "Ops", at, "  Asked both parties for evidence. ")
	require.NoError(t, err)
	assert.Equal(t, "Original complaint\n---\n[Update by Ops on 2024-07-01T01:30:15Z]\nAsked both parties for evidence.", desc)

	trail := ParseTrail(desc)
	require.Len(t, trail, 2)
	assert.Equal(t, "Ops", trail[1].Author)
	require.NotNil(t, trail[1].Time)
	assert.True(t, trail[1].Time.Equal(at))
	assert.Equal(t, "Asked both parties for evidence.", trail[1].Body)
}

func TestAppendUpdate_EmptyDescriptionAndDefaults(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	desc, err := AppendUpdate("", "", at, "First note")
	require.NoError(t, err)
	assert.Equal(t, "[Update by Admin on 2024-01-02T03:04:05Z]\nFirst note", desc)

	_, err = AppendUpdate("x", "Ops", at, "   ")
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}
