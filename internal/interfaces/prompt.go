package interfaces

// Choice is the user's answer to a retry prompt
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceRetry
)

func (c Choice) String() string {
	if c == ChoiceRetry {
		return "retry"
	}
	return "cancel"
}

// Problem describes a failed resolution step shown to the user
type Problem struct {
	Step        string
	Title       string
	Description string
	Err         error
}

// RetryPrompter asks the user whether to retry a failed step
type RetryPrompter interface {
	PromptRetry(problem Problem) Choice
}

// DialogModel holds the editable values shown in the confirmation dialog
type DialogModel struct {
	GameBinPath string
	OutputPath  string
	Minify      bool
	PromoteMDK  bool
}

// Confirmer presents resolved settings for confirmation and editing
type Confirmer interface {
	// Confirm may edit model in place. It returns false when the user declines.
	Confirm(model *DialogModel) (bool, error)
}
