package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <question> <answer>",
	Short: "Validate a candidate answer against the knowledge base",
	Long: `Retrieves the context the question would be answered from and runs
the candidate answer through the response validator, printing the corrected
answer and whether the original passed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		question, answer := args[0], args[1]

		a, err := buildApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		ragContext, err := a.engine.ContextForAnswer(cmd.Context(), question, cfg.Retrieve.TopK, cfg.Retrieve.MaxContextChars)
		if err != nil {
			return err
		}
		ragContext = augmentContext(a, question, ragContext)

		corrected, valid := a.validator.Check(answer, ragContext, question)
		if valid {
			fmt.Println("valid")
		} else {
			fmt.Println("corrected:")
			fmt.Println(corrected)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
