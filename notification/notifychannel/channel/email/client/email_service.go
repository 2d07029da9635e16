package client

type EmailSendReq struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
}

type EmailService interface {
	Send(req EmailSendReq) error
}
