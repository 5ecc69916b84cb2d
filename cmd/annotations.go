package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sedhha/policy-mate-sub000/internal/services/reviewapi"
	"github.com/sedhha/policy-mate-sub000/pkg/config"
)

// annotationsCmd groups commands that talk to a review backend.
var annotationsCmd = &cobra.Command{
	Use:   "annotations",
	Short: "Inspect a session's annotations",
	Long: `Inspect annotations on a review backend.

The backend address and auth token come from configuration; point them at
a locally running 'policy-mate serve' or at the production service.`,
}

// annotationsListCmd lists a session's annotations.
var annotationsListCmd = &cobra.Command{
	Use:   "list <session-id>",
	Short: "List all annotations for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationsList,
}

func init() {
	rootCmd.AddCommand(annotationsCmd)
	annotationsCmd.AddCommand(annotationsListCmd)
}

func runAnnotationsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := reviewapi.NewClient(reviewapi.Config{
		BaseURL:           cfg.Backend.BaseURL,
		Token:             func() string { return cfg.Auth.Token },
		UserAgent:         cfg.Backend.UserAgent,
		RequestsPerMinute: cfg.Backend.RequestsPerMinute,
		BurstSize:         cfg.Backend.BurstSize,
		Timeout:           cfg.Backend.Timeout,
	})

	annotations, err := client.ListAnnotations(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}

	if len(annotations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No annotations found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPAGE\tBOOKMARK\tRESOLVED\tTEXT")
	for _, ann := range annotations {
		text := ann.HighlightedText
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%t\t%s\n", ann.ID, ann.Page, ann.BookmarkType, ann.Resolved, text)
	}
	return w.Flush()
}
