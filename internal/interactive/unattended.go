package interactive

import (
	"fmt"
	"io"

	"mdk-wizard/internal/interfaces"
)

// Unattended answers every prompt without user input: failed steps cancel
// and the resolved settings are accepted unchanged.
type Unattended struct {
	out io.Writer
}

// NewUnattended creates an Unattended that reports problems to out.
func NewUnattended(out io.Writer) *Unattended {
	return &Unattended{out: out}
}

func (u *Unattended) PromptRetry(problem interfaces.Problem) interfaces.Choice {
	if u.out != nil {
		fmt.Fprintf(u.out, "%s: %v\n", problem.Title, problem.Err)
	}
	return interfaces.ChoiceCancel
}

func (u *Unattended) Confirm(*interfaces.DialogModel) (bool, error) {
	return true, nil
}

var (
	_ interfaces.RetryPrompter = (*Unattended)(nil)
	_ interfaces.Confirmer     = (*Unattended)(nil)
)
