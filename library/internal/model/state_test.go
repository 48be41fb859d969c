package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		record BorrowRecord
		want   DisplayStatus
	}{
		{
			name:   "borrowed due in future",
			record: BorrowRecord{Status: StatusBorrowed, DueDate: future},
			want:   DisplayBorrowed,
		},
		{
			name:   "borrowed due in past",
			record: BorrowRecord{Status: StatusBorrowed, DueDate: past},
			want:   DisplayOverdue,
		},
		{
			name:   "borrowed due exactly now",
			record: BorrowRecord{Status: StatusBorrowed, DueDate: now},
			want:   DisplayBorrowed,
		},
		{
			name:   "returned late",
			record: BorrowRecord{Status: StatusReturned, DueDate: past, ReturnDate: &now},
			want:   DisplayReturned,
		},
		{
			name:   "returned on time",
			record: BorrowRecord{Status: StatusReturned, DueDate: future, ReturnDate: &now},
			want:   DisplayReturned,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.record.DisplayStatus(now))
		})
	}
}

func TestBorrowRecord_State(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ret := due.Add(25 * time.Hour)

	st := BorrowRecord{Status: StatusReturned, DueDate: due, ReturnDate: &ret}.State()
	require.Equal(t, Returned{ReturnDate: ret, WasLate: true}, st)

	st = BorrowRecord{Status: StatusBorrowed, DueDate: due}.State()
	require.Equal(t, Borrowed{DueDate: due}, st)
}

func TestDaysLate(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 0, DaysLate(due.Add(-time.Minute), due))
	require.Equal(t, 0, DaysLate(due, due))
	require.Equal(t, 1, DaysLate(due.Add(time.Minute), due))
	require.Equal(t, 2, DaysLate(due.Add(25*time.Hour), due))
	require.Equal(t, 3, DaysLate(due.Add(72*time.Hour), due))
}

func TestNewPaging(t *testing.T) {
	t.Parallel()
	p := NewPaging(1, 20, 41)
	require.Equal(t, 3, p.TotalPages)
	require.True(t, p.HasNext)

	p = NewPaging(3, 20, 41)
	require.False(t, p.HasNext)

	p = NewPaging(1, 20, 0)
	require.Equal(t, 0, p.TotalPages)
	require.False(t, p.HasNext)

	p = NewPaging(1, 20, math.MaxInt)
	require.Positive(t, p.TotalPages)
	require.True(t, p.HasNext)
}

func TestListQuery_Offset(t *testing.T) {
	t.Parallel()
	require.Zero(t, ListQuery{Page: 1, Limit: 20}.Offset())
	require.Equal(t, 40, ListQuery{Page: 3, Limit: 20}.Offset())
	require.Equal(t, (MaxPage-1)*MaxLimit, ListQuery{Page: MaxPage, Limit: MaxLimit}.Offset())
}
