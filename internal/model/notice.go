package model

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message for the toast surface.  The API returns
// these next to results; rendering is up to the client.
type Notice struct {
	Level       NoticeLevel `json:"level"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
}

// FailureNotice wraps err as an error notice under title.
func FailureNotice(title string, err error) Notice {
	desc := "Unknown error"
	if err != nil {
		desc = err.Error()
	}
	return Notice{Level: NoticeError, Title: title, Description: desc}
}
