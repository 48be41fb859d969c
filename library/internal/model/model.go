package model

import (
	"time"
)

type Paging struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNextPage"`
}

func NewPaging(page, size, total int) Paging {
	pages := 0
	if size > 0 {
		pages = total / size
		if total%size != 0 {
			pages++
		}
	}
	return Paging{
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

// Limits on list queries. MaxPage*MaxLimit keeps the offset far from overflow.
const (
	MaxPage  = 1_000_000
	MaxLimit = 100
)

type ListQuery struct {
	Query  string
	Sort   string
	Page   int
	Limit  int
	Status AccountStatus
}

func (q ListQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortHighestRated = "highestRated"
	SortAvailable    = "available"
)

type Book struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Author          string     `json:"author" db:"author"`
	Genre           string     `json:"genre" db:"genre"`
	Rating          int        `json:"rating" db:"rating"`
	CoverURL        string     `json:"coverUrl" db:"cover_url"`
	CoverColor      string     `json:"coverColor" db:"cover_color"`
	Description     string     `json:"description" db:"description"`
	Summary         string     `json:"summary" db:"summary"`
	VideoURL        string     `json:"videoUrl" db:"video_url"`
	TotalCopies     int        `json:"totalCopies" db:"total_copies"`
	AvailableCopies int        `json:"availableCopies" db:"available_copies"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at"`
}

type BookParams struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Genre       string `json:"genre" validate:"required"`
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	CoverURL    string `json:"coverUrl" validate:"required"`
	CoverColor  string `json:"coverColor" validate:"required,hexcolor6"`
	Description string `json:"description" validate:"required"`
	Summary     string `json:"summary" validate:"required"`
	VideoURL    string `json:"videoUrl" validate:"required"`
	TotalCopies int    `json:"totalCopies" validate:"min=0,max=10000"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "BORROWED"
	StatusReturned BorrowStatus = "RETURNED"
)

func (s BorrowStatus) Valid() bool {
	return s == StatusBorrowed || s == StatusReturned
}

type BorrowRecord struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"userId" db:"user_id"`
	BookID     string       `json:"bookId" db:"book_id"`
	BorrowDate time.Time    `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time   `json:"returnDate" db:"return_date"`
	Status     BorrowStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}

// BorrowView is a borrow record joined with its book and borrower for read-side listings.
type BorrowView struct {
	BorrowRecord  `json:",inline"`
	DisplayStatus DisplayStatus `json:"displayStatus" db:"-"`
	BookTitle     string        `json:"bookTitle" db:"book_title"`
	BookAuthor    string        `json:"bookAuthor" db:"book_author"`
	BookCoverURL  string        `json:"bookCoverUrl" db:"book_cover_url"`
	UserFullName  string        `json:"userFullName" db:"user_full_name"`
	UserEmail     string        `json:"userEmail" db:"user_email"`
}

type ListBorrows struct {
	Paging `json:",inline"`
	Items  []BorrowView `json:"items"`
}

// ReturnResult describes a completed return.
type ReturnResult struct {
	Record   BorrowRecord `json:"record"`
	WasLate  bool         `json:"wasLate"`
	DaysLate int          `json:"daysLate"`
}

type UpdateStatusRequest struct {
	Status BorrowStatus `json:"status" validate:"required,oneof=BORROWED RETURNED"`
}

type AccountStatus string

const (
	AccountPending  AccountStatus = "PENDING"
	AccountApproved AccountStatus = "APPROVED"
	AccountRejected AccountStatus = "REJECTED"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID               string        `json:"id" db:"id"`
	FullName         string        `json:"fullName" db:"full_name"`
	Email            string        `json:"email" db:"email"`
	UniversityID     int           `json:"universityId" db:"university_id"`
	UniversityCard   string        `json:"universityCard" db:"university_card"`
	Status           AccountStatus `json:"status" db:"status"`
	Role             Role          `json:"role" db:"role"`
	LastActivityDate time.Time     `json:"lastActivityDate" db:"last_activity_date"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
}

type UserCreateRequest struct {
	FullName       string `json:"fullName" validate:"required,max=255"`
	Email          string `json:"email" validate:"required,email"`
	UniversityID   int    `json:"universityId" validate:"required,gt=0"`
	UniversityCard string `json:"universityCard" validate:"required"`
}

type UserSummary struct {
	User               `json:",inline"`
	TotalBorrowedBooks int `json:"totalBorrowedBooks" db:"total_borrowed_books"`
}

type UserDetail struct {
	UserSummary      `json:",inline"`
	BorrowingHistory []BorrowView `json:"borrowingHistory"`
}

type ListUsers struct {
	Paging `json:",inline"`
	Items  []UserSummary `json:"items"`
}

type AccountStatusRequest struct {
	Status AccountStatus `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

type RoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=USER ADMIN"`
}

type Stats struct {
	TotalUsers      int `json:"totalUsers" db:"total_users"`
	PendingAccounts int `json:"pendingAccounts" db:"pending_accounts"`
	TotalBooks      int `json:"totalBooks" db:"total_books"`
	TotalCopies     int `json:"totalCopies" db:"total_copies"`
	ActiveBorrows   int `json:"activeBorrows" db:"active_borrows"`
	OverdueBorrows  int `json:"overdueBorrows" db:"overdue_borrows"`
}
