package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/extract"
	"interview-backend/internal/llm"
	"interview-backend/internal/questions"
)

// oracleFactory builds the oracle lazily so --help works without provider credentials.
type oracleFactory func() (llm.Client, error)

func newRootCmd(oracle oracleFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "interviewctl",
		Short:         "Score answers and generate interview questions from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newScoreCmd(oracle),
		newQuestionsCmd(oracle),
		newRoundsCmd(oracle),
	)
	return root
}

func newScoreCmd(oracle oracleFactory) *cobra.Command {
	var question, answer, answerFile, weights string
	var points []string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Evaluate one answer and print the scores as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if answerFile != "" {
				data, err := os.ReadFile(answerFile)
				if err != nil {
					return fmt.Errorf("read answer: %w", err)
				}
				answer = string(data)
			}
			if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
				return errors.New("--question and --answer (or --answer-file) are required")
			}
			w, err := evaluation.ParseWeights(weights)
			if err != nil {
				return err
			}
			client, err := oracle()
			if err != nil {
				return err
			}
			engine := evaluation.NewEngine(client)
			ev := engine.EvaluateResponse(cmd.Context(), evaluation.Input{
				Question:       question,
				Answer:         answer,
				ExpectedPoints: points,
				Weights:        w,
			})
			out := map[string]any{"evaluation": ev}
			if fu, ok := engine.GenerateFollowUp(cmd.Context(), question, answer, ev.OverallScore); ok {
				out["followUp"] = fu
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "Interview question")
	cmd.Flags().StringVar(&answer, "answer", "", "Candidate answer")
	cmd.Flags().StringVar(&answerFile, "answer-file", "", "Read the answer from a file")
	cmd.Flags().StringSliceVar(&points, "point", nil, "Expected answer point (repeatable)")
	cmd.Flags().StringVar(&weights, "weights", "", `Weight configuration JSON, e.g. {"technical_weight":0.5}`)
	return cmd
}

func newQuestionsCmd(oracle oracleFactory) *cobra.Command {
	var resumePath, jobRole string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Generate interview questions from a resume file (pdf, docx or txt)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(resumePath) == "" || strings.TrimSpace(jobRole) == "" {
				return errors.New("--resume and --role are required")
			}
			mimeType, err := mimeFromExt(resumePath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(resumePath)
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			text, err := extract.ExtractTextFromBytes(cmd.Context(), data, mimeType, filepath.Base(resumePath))
			if err != nil {
				return fmt.Errorf("extract resume text: %w", err)
			}
			client, err := oracle()
			if err != nil {
				return err
			}
			qs, err := questions.NewGenerator(client, nil, 0).FromResume(cmd.Context(), text, jobRole)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"questions": qs})
		},
	}
	cmd.Flags().StringVar(&resumePath, "resume", "", "Path to resume file")
	cmd.Flags().StringVar(&jobRole, "role", "", "Target job role")
	return cmd
}

func newRoundsCmd(oracle oracleFactory) *cobra.Command {
	var jobRole, description string

	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "Suggest interview rounds for a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(jobRole) == "" {
				return errors.New("--role is required")
			}
			client, err := oracle()
			if err != nil {
				return err
			}
			rounds := questions.NewGenerator(client, nil, 0).SuggestRounds(cmd.Context(), jobRole, description)
			return writeJSON(cmd.OutOrStdout(), map[string]any{"rounds": rounds})
		},
	}
	cmd.Flags().StringVar(&jobRole, "role", "", "Target job role")
	cmd.Flags().StringVar(&description, "description", "", "Job description")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf", nil
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	case ".txt", ".md":
		return "text/plain", nil
	default:
		return "", fmt.Errorf("unsupported resume extension: %s", filepath.Ext(path))
	}
}

