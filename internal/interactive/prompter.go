package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	"mdk-wizard/internal/interfaces"
)

// IsTerminal reports whether fd is a terminal. Tests replace it.
var IsTerminal = term.IsTerminal

const (
	optionRetry  = "Retry"
	optionCancel = "Cancel"
)

// Prompter asks the user through survey prompts on the terminal
type Prompter struct {
	in           io.Reader
	out          io.Writer
	numberSelect bool

	ask    func(qs []*survey.Question, response interface{}, opts ...survey.AskOpt) error
	askOne func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error
}

// NewPrompter creates a new interactive prompter. With numberSelect the
// retry prompt reacts to a single key press instead of arrow selection.
func NewPrompter(numberSelect bool) *Prompter {
	return &Prompter{
		in:           os.Stdin,
		out:          os.Stderr,
		numberSelect: numberSelect,
		ask:          survey.Ask,
		askOne:       survey.AskOne,
	}
}

// PromptRetry shows the problem and asks whether to retry. Any failure to
// ask counts as cancel.
func (p *Prompter) PromptRetry(problem interfaces.Problem) interfaces.Choice {
	p.showProblem(problem)

	var (
		selected string
		err      error
	)
	if p.numberSelect {
		selected, err = p.selectWithNumbers([]string{optionRetry, optionCancel}, optionCancel)
	} else {
		err = p.askOne(&survey.Select{
			Message: problem.Title,
			Options: []string{optionRetry, optionCancel},
			Default: optionCancel,
			Help:    problem.Description,
		}, &selected)
	}
	if err != nil || selected != optionRetry {
		return interfaces.ChoiceCancel
	}
	return interfaces.ChoiceRetry
}

// confirmAnswers is filled by survey.Ask through the survey tags.
type confirmAnswers struct {
	GameBinPath string `survey:"bin"`
	OutputPath  string `survey:"output"`
	Minify      bool   `survey:"minify"`
	PromoteMDK  bool   `survey:"promote"`
}

// Confirm lets the user edit the resolved settings and then accept or
// decline them. Ctrl+C declines.
func (p *Prompter) Confirm(model *interfaces.DialogModel) (bool, error) {
	questions := []*survey.Question{
		{
			Name:     "bin",
			Prompt:   &survey.Input{Message: "Space Engineers bin path:", Default: model.GameBinPath},
			Validate: survey.Required,
		},
		{
			Name:     "output",
			Prompt:   &survey.Input{Message: "Script output path:", Default: model.OutputPath},
			Validate: survey.Required,
		},
		{
			Name:   "minify",
			Prompt: &survey.Confirm{Message: "Minify scripts on deploy?", Default: model.Minify},
		},
		{
			Name:   "promote",
			Prompt: &survey.Confirm{Message: "Use the MDK branded thumbnail?", Default: model.PromoteMDK},
		},
	}

	var answers confirmAnswers
	if err := p.ask(questions, &answers); err != nil {
		return declined(err)
	}

	var accept bool
	if err := p.askOne(&survey.Confirm{Message: "Create the project with these settings?", Default: true}, &accept); err != nil {
		return declined(err)
	}
	if !accept {
		return false, nil
	}

	model.GameBinPath = strings.TrimSpace(answers.GameBinPath)
	model.OutputPath = strings.TrimSpace(answers.OutputPath)
	model.Minify = answers.Minify
	model.PromoteMDK = answers.PromoteMDK
	return true, nil
}

// declined maps an interrupted prompt to a declined dialog.
func declined(err error) (bool, error) {
	if errors.Is(err, terminal.InterruptErr) {
		return false, nil
	}
	return false, err
}

func (p *Prompter) showProblem(problem interfaces.Problem) {
	fmt.Fprintf(p.out, "\n%s\n", problem.Title)
	if problem.Description != "" {
		fmt.Fprintf(p.out, "  %s\n", problem.Description)
	}
	if problem.Err != nil {
		fmt.Fprintf(p.out, "  Error: %v\n", problem.Err)
	}
}

// selectWithNumbers displays numbered options and allows instant selection by number key
func (p *Prompter) selectWithNumbers(options []string, defaultOption string) (string, error) {
	fmt.Fprintln(p.out)
	for i, option := range options {
		marker := ""
		if option == defaultOption {
			marker = " (default)"
		}
		fmt.Fprintf(p.out, "  %d. %s%s\n", i+1, option, marker)
	}
	fmt.Fprintln(p.out)

	stdin, ok := p.in.(*os.File)
	if !ok || !IsTerminal(int(stdin.Fd())) {
		return p.fallbackNumberSelection(options, defaultOption)
	}

	oldState, err := term.MakeRaw(int(stdin.Fd()))
	if err != nil {
		return p.fallbackNumberSelection(options, defaultOption)
	}
	defer term.Restore(int(stdin.Fd()), oldState)

	fmt.Fprint(p.out, "Select option: ")

	buffer := make([]byte, 1)
	for {
		if _, err := stdin.Read(buffer); err != nil {
			return "", err
		}

		char := buffer[0]
		if char >= '1' && char <= '9' {
			if index := int(char - '1'); index < len(options) {
				fmt.Fprintf(p.out, "%c\r\n", char)
				return options[index], nil
			}
		}
		if char == '\r' || char == '\n' {
			fmt.Fprint(p.out, "\r\n")
			return defaultOption, nil
		}
		// Escape or Ctrl+C
		if char == 27 || char == 3 {
			fmt.Fprint(p.out, "\r\n")
			return "", terminal.InterruptErr
		}
	}
}

// fallbackNumberSelection reads a line when raw terminal mode is not available
func (p *Prompter) fallbackNumberSelection(options []string, defaultOption string) (string, error) {
	fmt.Fprintf(p.out, "Enter number (1-%d) or press Enter for %s: ", len(options), defaultOption)

	input, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultOption, nil
	}
	for i, option := range options {
		if input == fmt.Sprint(i+1) || strings.EqualFold(input, option) {
			return option, nil
		}
	}
	return "", fmt.Errorf("invalid selection %q: enter a number between 1 and %d", input, len(options))
}

var (
	_ interfaces.RetryPrompter = (*Prompter)(nil)
	_ interfaces.Confirmer     = (*Prompter)(nil)
)
