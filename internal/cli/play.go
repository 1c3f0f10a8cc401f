package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"vineyard-quiz/internal/app"
	"vineyard-quiz/internal/domain"
	"vineyard-quiz/internal/questions"
)

// NewPlayCmd runs the single-player quiz in the terminal.
func NewPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a single-player quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			supply := app.NewQuestionSupply(questions.Pool(), nil, nil)
			quiz := app.NewLocalQuiz(supply.SampleTen)
			return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), quiz)
		},
	}
}

// runPlay reads one option number per question. At the end "r" restarts
// with a fresh draw and anything else quits.
func runPlay(in io.Reader, out io.Writer, quiz *app.LocalQuiz) error {
	scanner := bufio.NewScanner(in)
	for {
		q, ok := quiz.Current()
		if !ok {
			state := quiz.State()
			fmt.Fprintf(out, "\nQuiz over. You scored %d/%d.\n[r]estart or [q]uit? ", state.Score, len(state.Questions))
			if !scanner.Scan() || strings.TrimSpace(strings.ToLower(scanner.Text())) != "r" {
				return scanner.Err()
			}
			quiz.Restart()
			continue
		}

		state := quiz.State()
		printQuestion(out, state.CurrentQuestionIndex+1, len(state.Questions), q)
		choice, err := readChoice(scanner, out, q)
		if err != nil {
			return err
		}
		if choice == "" {
			return nil
		}
		result := quiz.SubmitAnswer(choice)
		if result.Correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Incorrect. The answer is %s.\n", q.CorrectAnswer)
		}
		if q.Explanation != "" {
			fmt.Fprintln(out, q.Explanation)
		}
		if v, ok := questions.VarietalForAnswer(q.CorrectAnswer); ok {
			fmt.Fprintf(out, "Varietal: %s, %s\n", v.Name, v.Country)
		}
		quiz.Next()
	}
}

func printQuestion(out io.Writer, n, total int, q domain.Question) {
	fmt.Fprintf(out, "\nQuestion %d of %d: %s\n", n, total, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
}

// readChoice returns "" at end of input.
func readChoice(scanner *bufio.Scanner, out io.Writer, q domain.Question) (string, error) {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return "", scanner.Err()
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], nil
		}
		fmt.Fprintf(out, "enter a number from 1 to %d\n", len(q.Options))
	}
}
