package core

// Outcome is the terminal state of one pipeline run.
type Outcome int

const (
	// OutcomeNoOp means the trigger carried no input; nothing should change.
	OutcomeNoOp Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "noop"
	}
}

// FailureKind classifies a failed conversion.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureUnsupportedInput means the upload is not a Parquet file.
	FailureUnsupportedInput
	// FailureProcessing covers decode, fetch and parse errors.
	FailureProcessing
)

func (k FailureKind) String() string {
	switch k {
	case FailureUnsupportedInput:
		return "unsupported_input"
	case FailureProcessing:
		return "processing_failure"
	default:
		return ""
	}
}

// User-facing failure messages.
const (
	MsgUnsupportedUpload = "Please upload a parquet file to convert."
	MsgUploadFailed      = "There was an error processing this file."
	MsgFetchFailed       = "There was an error processing the API."
)

// FetchDownloadName is the download name of every fetch conversion.
const FetchDownloadName = "api-data.csv"

// Preview is what the page shows after a successful conversion.
type Preview struct {
	// Heading is the uploaded filename; empty for fetches.
	Heading string
	Dataset *Dataset
	// RawExcerpt is the start of the encoded upload; empty for fetches.
	RawExcerpt string
}

// Download is the named CSV handed to the browser.
type Download struct {
	Content  string
	Filename string
}

// Result is the outcome of one pipeline run.
// Preview and Download are set only on success, Message and Kind only on failure.
type Result struct {
	Outcome  Outcome
	Kind     FailureKind
	Message  string
	Preview  *Preview
	Download *Download
}

// NoOp returns a result that leaves the page untouched.
func NoOp() Result { return Result{Outcome: OutcomeNoOp} }

// Failure returns a failed result with a user-facing message.
func Failure(kind FailureKind, message string) Result {
	return Result{Outcome: OutcomeFailure, Kind: kind, Message: message}
}

// Success returns a successful result.
func Success(preview *Preview, download *Download) Result {
	return Result{Outcome: OutcomeSuccess, Preview: preview, Download: download}
}
