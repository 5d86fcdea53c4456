package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted")

// promptYesNo asks a yes/no question and reports the answer. It returns true
// without prompting when confirmations are disabled in the configuration.
func promptYesNo(cmd *cobra.Command, question string) bool {
	if cfg != nil && cfg.SkipConfirmations {
		return true
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))

	return answer == "y" || answer == "yes"
}

// confirm asks a yes/no question and returns errAborted when declined.
func confirm(cmd *cobra.Command, question string) error {
	if !promptYesNo(cmd, question) {
		return errAborted
	}
	return nil
}
