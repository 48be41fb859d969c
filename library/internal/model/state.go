package model

import (
	"time"
)

type DisplayStatus string

const (
	DisplayBorrowed DisplayStatus = "borrowed"
	DisplayReturned DisplayStatus = "returned"
	DisplayOverdue  DisplayStatus = "overdue"
)

// LoanState is either Borrowed or Returned.
type LoanState interface {
	loanState()
}

type Borrowed struct {
	DueDate time.Time
}

type Returned struct {
	ReturnDate time.Time
	WasLate    bool
}

func (Borrowed) loanState() {}
func (Returned) loanState() {}

// State converts the persisted status columns into a LoanState.
func (r BorrowRecord) State() LoanState {
	if r.Status == StatusReturned {
		var returned time.Time
		if r.ReturnDate != nil {
			returned = *r.ReturnDate
		}
		return Returned{ReturnDate: returned, WasLate: IsLate(returned, r.DueDate)}
	}
	return Borrowed{DueDate: r.DueDate}
}

// DeriveStatus is never persisted: overdue is a function of now.
func DeriveStatus(s LoanState, now time.Time) DisplayStatus {
	switch st := s.(type) {
	case Returned:
		return DisplayReturned
	case Borrowed:
		if now.After(st.DueDate) {
			return DisplayOverdue
		}
		return DisplayBorrowed
	default:
		return DisplayBorrowed
	}
}

func (r BorrowRecord) DisplayStatus(now time.Time) DisplayStatus {
	return DeriveStatus(r.State(), now)
}

func IsLate(returnDate, dueDate time.Time) bool {
	return returnDate.After(dueDate)
}

// DaysLate counts started days past due, zero for on-time returns.
func DaysLate(returnDate, dueDate time.Time) int {
	if !IsLate(returnDate, dueDate) {
		return 0
	}
	d := returnDate.Sub(dueDate)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
