package bot

// User error messages (user mistakes, shown directly)
const (
	MsgPollUsage        = "Usage: /poll <title> <option> [option...]\nQuote titles and options that contain spaces."
	MsgUnbalancedQuotes = "A quote is not closed."
	MsgNoOptions        = "Add at least one option after the title."
	MsgTooManyOptions   = "A poll can have at most 25 options."
	MsgOptionTooLong    = "Options can be at most 50 characters long."
	MsgEmptyOption      = "Options cannot be empty."
	MsgOpenUsage        = "Reply to a poll message with /open to count the votes."
	MsgNotPollMessage   = "That message does not look like a poll."
	MsgStaleButton      = "This button is out of date, try again."
	MsgStoreUnavailable = "Poll storage is unavailable right now. Try again later."
	MsgFailedRecordVote = "Could not record your vote. Try again."
	MsgPollFull         = "This poll has reached its voter limit."
)

// System error messages (internal errors, hide details from user)
const (
	MsgInternalError       = "Something went wrong. Try again later."
	MsgFailedCreatePoll    = "Could not create the poll. Try again."
	MsgFailedRenderPoll    = "Could not render the poll. Try again."
	MsgFailedSendPoll      = "Could not send the poll. Try again."
	MsgFailedGetResults    = "Could not read the poll. Try again."
	MsgFailedRenderResults = "Could not render the results. Try again."
	MsgFailedSendResults   = "Could not send the results. Try again."
)
