package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Read cached documents",
	Long:  `Show cached documents by id. Run 'sercha-corpus index' first to fill the cache.`,
}

var documentGetCmd = &cobra.Command{
	Use:   "get <doc-id>",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content <doc-id>",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of cached documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentCount,
}

func init() {
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentCountCmd)
	rootCmd.AddCommand(documentCmd)
}

// withDocuments runs fn with the injected document service or one over
// the local store.
func withDocuments(ctx context.Context, fn func(driving.DocumentService) error) error {
	if documentService != nil {
		return fn(documentService)
	}
	e, err := openEnv(nil)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e.documentService())
}

func parseDocID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: document id must be a non-negative integer, got %q", domain.ErrInvalidArgument, arg)
	}
	return id, nil
}

func loadDocument(ctx context.Context, arg string) (*domain.Document, error) {
	id, err := parseDocID(arg)
	if err != nil {
		return nil, err
	}

	var doc *domain.Document
	err = withDocuments(ctx, func(svc driving.DocumentService) error {
		d, err := svc.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %d is not cached", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		doc = d
		return nil
	})
	return doc, err
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID: %d\n", doc.ID)
	cmd.Printf("Title: %s\n", doc.Title)
	if doc.Path != "" {
		cmd.Printf("Path: %s\n", doc.Path)
	}
	cmd.Printf("Content: %d characters\n", len([]rune(doc.Content)))
	for _, name := range doc.FieldNames() {
		cmd.Printf("%s: %s\n", name, doc.Fields[name])
	}
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(doc.Content)
	return nil
}

func runDocumentCount(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withDocuments(ctx, func(svc driving.DocumentService) error {
		n, err := svc.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count documents: %w", err)
		}
		cmd.Println(strconv.Itoa(n))
		return nil
	})
}
