package resend

// Report is the mail content for a finished seed run.
type Report struct {
	RunID   string
	Summary string
}
