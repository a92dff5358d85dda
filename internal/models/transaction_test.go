package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paibudget/budget-service/internal/common"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"utc designator", "2023-10-26T14:30:00Z", time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC), false},
		{"naive", "2023-10-26T14:30:00", time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC), false},
		{"minutes only", "2023-10-26T14:30", time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC), false},
		{"space separator", "2023-10-26 14:30:00", time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC), false},
		{"date only", "2023-10-26", time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), false},
		{"offset converted to utc", "2023-10-26T16:30:00+02:00", time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC), false},
		{"fraction kept to microseconds", "2023-10-26T14:30:00.1234567Z", time.Date(2023, 10, 26, 14, 30, 0, 123456000, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
		{"bad month", "2023-13-01T00:00:00", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2023-10-26T14:30:00Z", FormatDate(time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2023-10-26T14:30:00.500000Z", FormatDate(time.Date(2023, 10, 26, 14, 30, 0, 500000000, time.UTC)))

	warsaw := time.FixedZone("CEST", 2*60*60)
	assert.Equal(t, "2023-10-26T12:30:00Z", FormatDate(time.Date(2023, 10, 26, 14, 30, 0, 0, warsaw)))
}

func TestDateRoundTrip(t *testing.T) {
	inputs := []string{
		"2023-10-26T14:30:00Z",
		"2024-02-29T23:59:59.000001Z",
		"1999-12-31T00:00:00.250000Z",
	}
	for _, in := range inputs {
		parsed, err := ParseDate(in)
		require.NoError(t, err)
		out := FormatDate(parsed)
		assert.Equal(t, in, out)
		assert.True(t, strings.HasSuffix(out, "Z"))

		again, err := ParseDate(out)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(again))
	}
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{
		ID:       1,
		Title:    "Coffee",
		Amount:   4.5,
		Category: "Food",
		Type:     TypeExpense,
		Date:     time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"Coffee","amount":4.5,"category":"Food","type":"expense","date":"2023-10-26T14:30:00Z"}`, string(data))

	var decoded Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tx, decoded)

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"date":"soon"}`), &decoded))
}

func TestTransactionValidate(t *testing.T) {
	valid := func() Transaction {
		return Transaction{
			Title:    "Salary",
			Amount:   3000,
			Category: "Work",
			Type:     TypeIncome,
			Date:     time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantMsg string
	}{
		{"valid", func(*Transaction) {}, ""},
		{"zero amount", func(tx *Transaction) { tx.Amount = 0 }, MsgInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, MsgInvalidAmount},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, MsgInvalidType},
		{"empty title", func(tx *Transaction) { tx.Title = "" }, MsgMissingData},
		{"long title", func(tx *Transaction) { tx.Title = strings.Repeat("a", 101) }, MsgTooLong},
		{"long category", func(tx *Transaction) { tx.Category = strings.Repeat("c", 51) }, MsgTooLong},
		{"missing date", func(tx *Transaction) { tx.Date = time.Time{} }, MsgMissingData},
		{"missing beats amount", func(tx *Transaction) { tx.Title = ""; tx.Amount = -3 }, MsgMissingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantMsg, ve.Message)
			assert.NotEmpty(t, ve.Details)
		})
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	tx := Transaction{Amount: 1, Type: TypeIncome, Category: "x"}
	err := ValidateStruct(&tx)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "title", ve.Details[0].Field)
	assert.Equal(t, "required", ve.Details[0].Type)
}
