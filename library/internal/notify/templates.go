package notify

import (
	"bytes"
	"html/template"
	"time"
)

const (
	KindWelcome          = "welcome"
	KindBorrowConfirmed  = "borrow_confirmation"
	KindReturnConfirmed  = "return_confirmation"
	KindLateFeeNotice    = "late_fee_notice"
	KindReengageInactive = "reengage_inactive"
	KindReengageActive   = "reengage_active"
)

const dateLayout = "Jan 2, 2006"

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.UTC().Format(dateLayout) },
}).Parse(`
{{define "welcome"}}<h1>Welcome to BookWise, {{.Name}}!</h1>
<p>Your account request has been received. You can start borrowing as soon as an administrator approves it.</p>
<p>Happy reading,<br>The BookWise Team</p>{{end}}

{{define "borrow_confirmation"}}<p>Hi {{.Name}},</p>
<p>You borrowed <strong>{{.Title}}</strong> on {{date .BorrowDate}}. Please return it by {{date .DueDate}}.</p>
<p>Enjoy the book!</p>{{end}}

{{define "return_on_time"}}<p>Hi {{.Name}},</p>
<p>Thank you for returning <strong>{{.Title}}</strong> on time! We hope you enjoyed reading it.</p>
<p>The book was due on {{date .DueDate}} and was returned on {{date .ReturnDate}}.</p>
<p>Thank you for using our library service!</p>{{end}}

{{define "return_late"}}<p>Hi {{.Name}},</p>
<p>Thank you for returning <strong>{{.Title}}</strong>. However, the book was returned {{.DaysLate}} day(s) late.
The due date was {{date .DueDate}}, but you returned it on {{date .ReturnDate}}.</p>
<p>Please note that late fees may apply. Contact the library for more information about any charges.</p>{{end}}

{{define "late_fee_notice"}}<p>Hi {{.Name}},</p>
<p>This is a follow-up regarding the late return of <strong>{{.Title}}</strong>.</p>
<p>The book was returned {{.DaysLate}} day(s) late. According to our library policy, a late fee may apply.</p>
<p>Please visit the library or contact us to settle any outstanding fees.</p>{{end}}

{{define "reengage_inactive"}}<p>Hi {{.Name}}, it's been a while since you last logged in. We hope you're doing well!</p>{{end}}

{{define "reengage_active"}}<p>Hi {{.Name}}, it's good to see you active and learning new things!</p>{{end}}
`))

type mailData struct {
	Name       string
	Title      string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate time.Time
	DaysLate   int
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
